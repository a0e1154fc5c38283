package flood

import (
	"fmt"
	"math"

	"github.com/lixenwraith/gridflood/parameter"
	"github.com/lixenwraith/gridflood/tile"
)

// Channel is an effect type propagated independently of the others
type Channel struct {
	ID   tile.ChannelID
	Name string

	// BaseDecay is lost per grid step, on top of the entered tile's resistance
	BaseDecay float64

	// SpaceDecay is lost per space step, space has no resistance
	SpaceDecay float64

	// Floor is the dissipation floor, a tile at or below it does not expand
	// Values below zero act as zero
	Floor float64
}

// floor returns the effective dissipation floor
func (c Channel) floor() float64 {
	return math.Max(0, c.Floor)
}

// DefaultChannels returns the stock explosive, thermal and pressure channels
func DefaultChannels() []Channel {
	return []Channel{
		{
			ID:         parameter.ChannelExplosive,
			Name:       "explosive",
			BaseDecay:  parameter.DefaultBaseDecay,
			SpaceDecay: parameter.DefaultSpaceDecay,
			Floor:      parameter.DissipationFloor,
		},
		{
			ID:         parameter.ChannelThermal,
			Name:       "thermal",
			BaseDecay:  parameter.DefaultBaseDecay * 1.5,
			SpaceDecay: parameter.DefaultSpaceDecay * 3,
			Floor:      parameter.DissipationFloor,
		},
		{
			ID:         parameter.ChannelPressure,
			Name:       "pressure",
			BaseDecay:  parameter.DefaultBaseDecay * 0.5,
			SpaceDecay: parameter.DefaultSpaceDecay * 4,
			Floor:      parameter.DissipationFloor,
		},
	}
}

// channelTable indexes channels by id, rejecting duplicates
// Negative or non-finite decays are clamped to zero
func channelTable(list []Channel) (map[tile.ChannelID]Channel, error) {
	table := make(map[tile.ChannelID]Channel, len(list))
	for _, c := range list {
		if _, dup := table[c.ID]; dup {
			return nil, fmt.Errorf("%w: %d (%s)", ErrDuplicateChannel, c.ID, c.Name)
		}
		c.BaseDecay, _ = tile.Sanitize(c.BaseDecay)
		c.SpaceDecay, _ = tile.Sanitize(c.SpaceDecay)
		if math.IsNaN(c.Floor) || math.IsInf(c.Floor, 0) {
			c.Floor = 0
		}
		table[c.ID] = c
	}
	return table, nil
}
