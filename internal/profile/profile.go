package profile

import (
	"github.com/osse101/BrandishReveal_Go/internal/domain"
	"github.com/osse101/BrandishReveal_Go/internal/effects"
	"github.com/osse101/BrandishReveal_Go/internal/reveal"
	"github.com/osse101/BrandishReveal_Go/internal/scheduler"
)

// Profile is the merged presentation config of one game
type Profile struct {
	Game         string                   `yaml:"-" json:"game"`
	Mode         domain.Mode              `yaml:"mode" json:"mode,omitempty" validate:"omitempty,oneof=grid reel wheel digit"`
	Visible      int                      `yaml:"visible" json:"visible" validate:"gte=0"`
	SectorPolicy string                   `yaml:"sector_policy" json:"sector_policy,omitempty" validate:"omitempty,oneof=trust_server trust_recomputed reject"`
	Timing       scheduler.Timing         `yaml:"timing" json:"timing"`
	Reveal       reveal.Profile           `yaml:"reveal" json:"reveal"`
	Sounds       map[string]effects.Sound `yaml:"sounds" json:"sounds,omitempty" validate:"dive"`
}

// Default returns the built-in profile every layer is applied on top of
func Default() Profile {
	return Profile{
		Game:   DefaultGame,
		Timing: scheduler.DefaultTiming(),
		Reveal: reveal.DefaultProfile(),
		Sounds: map[string]effects.Sound{},
	}
}
