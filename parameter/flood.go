package parameter

// Propagation Engine
const (
	// DefaultTileSize is the space cell size when no reference grid orients space
	DefaultTileSize = 1.0

	// DissipationFloor is the default intensity at or below which a tile stops expanding
	DissipationFloor = 1e-6

	// MaxRadiusCeiling caps any requested radius to bound worst-case cost (graph steps)
	MaxRadiusCeiling = 500

	// MaxArea caps the number of tiles recorded in a single run (≈ pi * 256²)
	MaxArea = 205887

	// TileCacheHint is the initial capacity of the per-run tile cache
	TileCacheHint = 256
)

// Space/Edge Model
const (
	// OverlapEpsilon is the minimum SAT penetration depth for a space cell to border an edge tile
	OverlapEpsilon = 1e-3

	// EdgeMargin grows edge tile boxes so cells sharing only a face or corner still border them
	// Expressed as a fraction of the grid tile size
	EdgeMargin = 0.5

	// LocalGridRadiusFactor scales the estimated run radius when collecting relevant grids
	LocalGridRadiusFactor = 4.0
)

// Channel defaults
const (
	// ChannelExplosive is the default explosive channel id
	ChannelExplosive = 0

	// ChannelThermal is the default thermal channel id
	ChannelThermal = 1

	// ChannelPressure is the default gas/pressure channel id
	ChannelPressure = 2

	// DefaultBaseDecay is intensity lost per grid step before tile resistance
	DefaultBaseDecay = 1.0

	// DefaultSpaceDecay is intensity lost per space step
	DefaultSpaceDecay = 1.0
)
