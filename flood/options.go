package flood

import (
	"log"

	"github.com/lixenwraith/gridflood/parameter"
	"github.com/lixenwraith/gridflood/space"
	"github.com/lixenwraith/gridflood/status"
)

// Options configures an Engine
type Options struct {
	// Channels is the channel table, nil means DefaultChannels
	Channels []Channel

	// Space holds the frame used for space origins and the edge detection tuning
	Space space.Config

	// AlignSpaceToReference orients space to the heaviest grid near a grid or world origin
	AlignSpaceToReference bool

	// MaxArea caps recorded tiles per run, zero disables the cap
	MaxArea int

	// MaxRadiusCeiling caps any requested radius, zero disables the cap
	MaxRadiusCeiling int

	// Logger receives diagnostics, nil means log.Default()
	Logger *log.Logger

	// Stats receives run counters, nil disables metrics
	Stats *status.Registry
}

// DefaultOptions returns the parameter defaults
func DefaultOptions() Options {
	return Options{
		Channels:              DefaultChannels(),
		Space:                 space.DefaultConfig(),
		AlignSpaceToReference: true,
		MaxArea:               parameter.MaxArea,
		MaxRadiusCeiling:      parameter.MaxRadiusCeiling,
	}
}
