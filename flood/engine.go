package flood

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/queue"

	"github.com/lixenwraith/gridflood/grid"
	"github.com/lixenwraith/gridflood/neighbor"
	"github.com/lixenwraith/gridflood/parameter"
	"github.com/lixenwraith/gridflood/space"
	"github.com/lixenwraith/gridflood/tile"
	"github.com/lixenwraith/gridflood/vmath"
)

// Engine runs breadth-first, intensity-decaying flood fills across grids and open space
// Safe for concurrent use: every run owns its frontier, visited set and caches
type Engine struct {
	reg      *grid.Registry
	tiles    tile.Source
	opts     Options
	channels map[tile.ChannelID]Channel
	logger   *log.Logger
	stats    *runStats
}

// NewEngine creates an engine reading geometry from reg and tile data from tiles
func NewEngine(reg *grid.Registry, tiles tile.Source, opts Options) (*Engine, error) {
	if opts.Channels == nil {
		opts.Channels = DefaultChannels()
	}
	channels, err := channelTable(opts.Channels)
	if err != nil {
		return nil, err
	}
	if opts.Space.Frame.TileSize <= 0 {
		opts.Space.Frame.TileSize = parameter.DefaultTileSize
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Engine{
		reg:      reg,
		tiles:    tiles,
		opts:     opts,
		channels: channels,
		logger:   opts.Logger,
		stats:    newRunStats(opts.Stats),
	}, nil
}

// Channel returns a configured channel
func (e *Engine) Channel(id tile.ChannelID) (Channel, bool) {
	c, ok := e.channels[id]
	return c, ok
}

// ChannelByName finds a configured channel by case-insensitive name
func (e *Engine) ChannelByName(name string) (Channel, bool) {
	for _, c := range e.channels {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Channel{}, false
}

// Channels lists configured channels in ascending id order
func (e *Engine) Channels() []Channel {
	out := make([]Channel, 0, len(e.channels))
	for _, c := range e.channels {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Registry returns the grid registry the engine reads from
func (e *Engine) Registry() *grid.Registry {
	return e.reg
}

// step is one frontier entry
type step struct {
	coord     tile.Coord
	intensity float64
	depth     int
}

// Propagate floods outward from origin on one channel
// maxRadius is a hard graph-distance cutoff, zero or less yields only the origin
// On cancellation the partial result is returned together with ctx.Err()
func (e *Engine) Propagate(ctx context.Context, origin tile.Coord, intensity float64, ch tile.ChannelID, maxRadius int) (*Result, error) {
	channel, ok := e.channels[ch]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownChannel, ch)
	}
	if err := e.validateOrigin(origin); err != nil {
		e.stats.add(invalidOriginCounter, 1)
		return nil, err
	}

	frame := e.opts.Space.Frame
	if !origin.IsSpace() && e.opts.AlignSpaceToReference {
		center, _ := e.reg.TileToWorld(origin.Grid, origin.Index())
		info, _ := e.reg.Info(origin.Grid)
		frame = e.referenceFrame(origin.Map, center, e.searchRadius(intensity, channel, maxRadius, info.TileSize))
	}
	return e.run(ctx, origin, intensity, channel, maxRadius, frame)
}

// PropagateAt floods outward from a world position
// The origin is the grid tile under pos, or the space cell containing it
func (e *Engine) PropagateAt(ctx context.Context, m tile.MapID, pos vmath.Vec2, intensity float64, ch tile.ChannelID, maxRadius int) (*Result, error) {
	channel, ok := e.channels[ch]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownChannel, ch)
	}
	if m == tile.NoMap || !pos.Finite() {
		e.stats.add(invalidOriginCounter, 1)
		return nil, fmt.Errorf("%w: map %d position %v", ErrInvalidOrigin, m, pos)
	}

	frame := e.opts.Space.Frame
	if e.opts.AlignSpaceToReference {
		frame = e.referenceFrame(m, pos, e.searchRadius(intensity, channel, maxRadius, frame.TileSize))
	}

	var origin tile.Coord
	if id, idx, hit := e.reg.GridAt(m, pos); hit {
		origin = tile.GridCoord(m, id, idx.X, idx.Y)
	} else {
		x, y := frame.CellAt(pos)
		origin = tile.SpaceCoord(m, x, y)
	}
	return e.run(ctx, origin, intensity, channel, maxRadius, frame)
}

func (e *Engine) validateOrigin(origin tile.Coord) error {
	if origin.Map == tile.NoMap {
		return fmt.Errorf("%w: %s has no map", ErrInvalidOrigin, origin)
	}
	if origin.IsSpace() {
		return nil
	}
	info, ok := e.reg.Info(origin.Grid)
	if !ok {
		return fmt.Errorf("%w: grid %d is unknown or unplaced", ErrInvalidOrigin, origin.Grid)
	}
	if info.Map != origin.Map {
		return fmt.Errorf("%w: grid %d is on map %d, not %d", ErrInvalidOrigin, origin.Grid, info.Map, origin.Map)
	}
	if !e.reg.HasTile(origin.Grid, origin.Index()) {
		return fmt.Errorf("%w: %s is not a tile", ErrInvalidOrigin, origin)
	}
	return nil
}

// searchRadius estimates the world distance a run can cover
func (e *Engine) searchRadius(intensity float64, c Channel, maxRadius int, tileSize float64) float64 {
	steps := min(StepsToDissipate(intensity, c), max(maxRadius, 0))
	return float64(steps+1) * tileSize
}

// referenceFrame orients space to the heaviest grid around center, falling back to the configured frame
func (e *Engine) referenceFrame(m tile.MapID, center vmath.Vec2, radius float64) space.Frame {
	_, ref := e.reg.LocalGrids(m, center, radius, parameter.LocalGridRadiusFactor)
	if ref == tile.NoGrid {
		return e.opts.Space.Frame
	}
	xf, ok := e.reg.Transform(ref)
	if !ok {
		return e.opts.Space.Frame
	}
	info, _ := e.reg.Info(ref)
	return space.GridFrame(xf, info.TileSize)
}

func (e *Engine) run(ctx context.Context, origin tile.Coord, intensity float64, channel Channel, maxRadius int, frame space.Frame) (*Result, error) {
	start := time.Now()

	if v, clamped := tile.Sanitize(intensity); clamped {
		e.logger.Printf("flood: initial intensity %v at %s clamped to %v", intensity, origin, v)
		intensity = v
	}
	if ceiling := e.opts.MaxRadiusCeiling; ceiling > 0 && maxRadius > ceiling {
		maxRadius = ceiling
	}

	cfg := e.opts.Space
	cfg.Frame = frame
	model := space.NewModel(e.reg, origin.Map, nil, cfg, e.logger)
	model.OnUnresolved = func(tile.GridID) { e.stats.add(unresolvedCounter, 1) }

	cache := newTileCache(e.tiles, channel.ID)
	cache.onClamp = func(c tile.Coord, raw float64) {
		e.logger.Printf("flood: malformed resistance %v at %s on channel %s, clamped to 0", raw, c, channel.Name)
		e.stats.add(clampedCounter, 1)
	}

	res := newResult(origin, channel.ID, frame)
	floor := channel.floor()

	visited := mapset.New[tile.Coord]()
	frontier := queue.New[step]()
	visited.Put(origin)
	frontier.Enqueue(step{coord: origin, intensity: intensity})

	var err error
	for !frontier.Empty() {
		if err = ctx.Err(); err != nil {
			res.Partial = true
			e.stats.add(cancelledCounter, 1)
			break
		}

		cur := frontier.Dequeue()
		res.add(Entry{Coord: cur.coord, Intensity: cur.intensity, Depth: cur.depth})

		expands := cur.intensity > floor && cur.depth < maxRadius
		if e.opts.MaxArea > 0 && res.Len() >= e.opts.MaxArea {
			// The last tile may still have had somewhere to go
			if !frontier.Empty() || (expands && e.hasEntry(model, cache, cur, channel, floor, visited)) {
				res.Partial = true
				e.stats.add(areaCappedCounter, 1)
			}
			break
		}
		if !expands {
			continue
		}

		for _, t := range e.targets(model, cur.coord) {
			if visited.Has(t.Coord) {
				continue
			}
			next, ok := e.arrive(cache, cur, t, channel, floor)
			if !ok {
				continue
			}
			visited.Put(t.Coord)
			frontier.Enqueue(step{coord: t.Coord, intensity: next, depth: cur.depth + 1})
		}
	}

	e.stats.finish(res, model.CellCount(), time.Since(start))
	return res, err
}

// arrive returns the intensity reaching target t from cur, false if entry is refused or dissipates
func (e *Engine) arrive(cache *tileCache, cur step, t space.Target, channel Channel, floor float64) (float64, bool) {
	var cost float64
	if t.Coord.IsSpace() {
		cost = channel.SpaceDecay
	} else {
		td := cache.get(t.Coord)
		if td.blocks(t.Travel) {
			return 0, false
		}
		cost = td.resistance + channel.BaseDecay
	}
	next := cur.intensity - cost
	return next, next > floor
}

// hasEntry reports whether cur would enqueue at least one unvisited target
func (e *Engine) hasEntry(model *space.Model, cache *tileCache, cur step, channel Channel, floor float64, visited mapset.Set[tile.Coord]) bool {
	for _, t := range e.targets(model, cur.coord) {
		if visited.Has(t.Coord) {
			continue
		}
		if _, ok := e.arrive(cache, cur, t, channel, floor); ok {
			return true
		}
	}
	return false
}

// targets lists the tiles one step from c in deterministic order
// Grid tiles: same-grid neighbors in neighbor.Order, stepping off the footprint through space.Model.Exit
// Space cells: free space neighbors in neighbor.Order, then bordering grid edge tiles in record order
func (e *Engine) targets(model *space.Model, c tile.Coord) []space.Target {
	if c.IsSpace() {
		return append(model.Neighbors(c), model.Entries(c)...)
	}

	out := make([]space.Target, 0, len(neighbor.Order))
	for _, d := range neighbor.Order {
		next := c.Step(d)
		if e.reg.HasTile(c.Grid, next.Index()) {
			out = append(out, space.Target{Coord: next, Travel: d})
			continue
		}
		if t, ok := model.Exit(c, d); ok {
			out = append(out, t)
		}
	}
	return out
}
