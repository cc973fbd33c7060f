package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/osse101/BrandishReveal_Go/internal/domain"
	"github.com/osse101/BrandishReveal_Go/internal/effects"
	"github.com/osse101/BrandishReveal_Go/internal/logger"
	"github.com/osse101/BrandishReveal_Go/internal/validation"
)

var gameNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// Paths locates the profile layers under a base directory
type Paths struct {
	BaseDir string
}

// DefaultPath returns the base layer file
func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, GamesDir, DefaultGame+ProfileSuffix)
}

// GamePath returns the layer file of one game
func (p Paths) GamePath(game string) string {
	return filepath.Join(p.BaseDir, GamesDir, game+ProfileSuffix)
}

// Loader reads YAML profiles and merges built-in defaults, the default layer
// and the game layer, in that order.
type Loader struct {
	paths    Paths
	schema   validation.SchemaValidator
	validate *validator.Validate

	mu    sync.RWMutex
	cache map[string]Profile
}

// NewLoader creates a loader for baseDir. An empty baseDir serves built-in
// defaults only.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths:    Paths{BaseDir: baseDir},
		schema:   validation.NewSchemaValidator(),
		validate: validator.New(),
		cache:    make(map[string]Profile),
	}
}

// Load returns the merged profile for game
func (l *Loader) Load(game string) (Profile, error) {
	if game == "" {
		game = DefaultGame
	}
	if !gameNamePattern.MatchString(game) {
		return Profile{}, fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, ErrContextInvalidGame, game)
	}

	l.mu.RLock()
	if p, ok := l.cache[game]; ok {
		l.mu.RUnlock()
		return clone(p), nil
	}
	l.mu.RUnlock()

	p := Default()
	if l.paths.BaseDir != "" {
		if _, err := l.apply(&p, l.paths.DefaultPath()); err != nil {
			return Profile{}, err
		}
		if game != DefaultGame {
			found, err := l.apply(&p, l.paths.GamePath(game))
			if err != nil {
				return Profile{}, err
			}
			if !found {
				logger.Debug(LogMsgProfileFallback, "game", game)
			}
		}
	}
	p.Game = game

	if err := l.validate.Struct(p); err != nil {
		return Profile{}, fmt.Errorf("%w: %s %s: %w", domain.ErrInvalidInput, ErrContextValidate, game, err)
	}

	l.mu.Lock()
	l.cache[game] = p
	l.mu.Unlock()

	logger.Info(LogMsgProfileLoaded, "game", game, "mode", p.Mode)
	return clone(p), nil
}

// Invalidate clears the cache so the next Load re-reads the files
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]Profile)
}

// apply decodes one layer on top of p. Keys absent from the file keep their
// current value. It reports whether the file existed.
func (l *Loader) apply(p *Profile, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%s %s: %w", ErrContextReadLayer, path, err)
	}

	if err := l.schema.ValidateYAML(data, validation.SchemaProfile); err != nil {
		return true, fmt.Errorf("%w: %s %s: %w", domain.ErrInvalidInput, ErrContextSchema, path, err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return true, fmt.Errorf("%w: %s %s: %w", domain.ErrInvalidInput, ErrContextParseLayer, path, err)
	}
	return true, nil
}

// ForMode checks that a profile may drive a widget of mode
func (p Profile) ForMode(mode domain.Mode) error {
	if p.Mode != "" && p.Mode != mode {
		return fmt.Errorf("%w: %s: %s is %s, widget is %s",
			domain.ErrInvalidInput, ErrContextModeMismatch, p.Game, p.Mode, mode)
	}
	return nil
}

func clone(p Profile) Profile {
	sounds := make(map[string]effects.Sound, len(p.Sounds))
	for k, v := range p.Sounds {
		sounds[k] = v
	}
	p.Sounds = sounds
	return p
}
