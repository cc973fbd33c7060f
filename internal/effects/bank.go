package effects

import (
	"math"
	"sync"
	"sync/atomic"
)

// Sound is a named clip the browser plays
type Sound struct {
	Name   string  `json:"name" yaml:"name"`
	URL    string  `json:"url" yaml:"url" validate:"required"`
	Volume float64 `json:"volume" yaml:"volume" validate:"gte=0,lte=1"`
}

// Cue is a sound resolved for playback
type Cue struct {
	Name   string  `json:"name"`
	URL    string  `json:"url"`
	Volume float64 `json:"volume"`
}

// Bank is the process-wide sound registry. It is initialised once and never
// torn down; widgets only read from it.
type Bank struct {
	mu     sync.RWMutex
	sounds map[string]Sound
	volume atomic.Uint64 // math.Float64bits of the master volume
	muted  atomic.Bool
}

var (
	defaultBank *Bank
	initOnce    sync.Once
)

// Init creates the shared bank on first call. Later calls return the same
// bank and ignore their arguments.
func Init(sounds map[string]Sound, masterVolume float64, muted bool) *Bank {
	initOnce.Do(func() {
		defaultBank = NewBank(sounds, masterVolume, muted)
	})
	return defaultBank
}

// Default returns the shared bank, initialising an empty one if needed
func Default() *Bank {
	return Init(nil, DefaultMasterVolume, false)
}

// NewBank creates a standalone bank
func NewBank(sounds map[string]Sound, masterVolume float64, muted bool) *Bank {
	b := &Bank{sounds: make(map[string]Sound, len(sounds))}
	for name, s := range sounds {
		if s.Name == "" {
			s.Name = name
		}
		if s.Volume == 0 {
			s.Volume = 1
		}
		b.sounds[name] = s
	}
	b.SetVolume(masterVolume)
	b.muted.Store(muted)
	return b
}

// Register adds or replaces sounds. Game profiles register their clips when
// they are loaded.
func (b *Bank) Register(sounds map[string]Sound) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for name, s := range sounds {
		if s.Name == "" {
			s.Name = name
		}
		if s.Volume == 0 {
			s.Volume = 1
		}
		b.sounds[name] = s
	}
}

// SetVolume sets the master volume, clamped to [0,1]
func (b *Bank) SetVolume(v float64) {
	b.volume.Store(math.Float64bits(clamp01(v)))
}

// Volume returns the master volume
func (b *Bank) Volume() float64 {
	return math.Float64frombits(b.volume.Load())
}

// SetMuted mutes or unmutes every cue
func (b *Bank) SetMuted(muted bool) {
	b.muted.Store(muted)
}

// Muted reports whether the bank is muted
func (b *Bank) Muted() bool {
	return b.muted.Load()
}

// Resolve returns the cue for name. ok is false when the bank is muted, the
// master volume is zero, or the sound is unknown.
func (b *Bank) Resolve(name string) (Cue, bool) {
	if b.Muted() {
		return Cue{}, false
	}
	b.mu.RLock()
	s, found := b.sounds[name]
	b.mu.RUnlock()
	if !found {
		return Cue{}, false
	}
	vol := s.Volume * b.Volume()
	if vol <= 0 {
		return Cue{}, false
	}
	return Cue{Name: s.Name, URL: s.URL, Volume: vol}, true
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
