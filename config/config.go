package config

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/gridflood/flood"
	"github.com/lixenwraith/gridflood/parameter"
	"github.com/lixenwraith/gridflood/space"
	"github.com/lixenwraith/gridflood/tile"
	"github.com/lixenwraith/gridflood/vmath"
)

// EnvPath names the environment variable overriding the config file path
const EnvPath = "GRIDFLOOD_CONFIG"

// Engine is the [engine] table
type Engine struct {
	TileSize       float64 `toml:"tile_size"`
	SpaceRotation  float64 `toml:"space_rotation"` // Degrees
	OverlapEpsilon float64 `toml:"overlap_epsilon"`
	EdgeMargin     float64 `toml:"edge_margin"`
	AlignSpace     bool    `toml:"align_space"`
	MaxArea        int     `toml:"max_area"`
	MaxRadius      int     `toml:"max_radius"`
}

// Channel is one [[channel]] entry
type Channel struct {
	ID         int     `toml:"id"`
	Name       string  `toml:"name"`
	BaseDecay  float64 `toml:"base_decay"`
	SpaceDecay float64 `toml:"space_decay"`
	Floor      float64 `toml:"floor"`
}

// Preview is the [preview] table
type Preview struct {
	Addr       string `toml:"addr"`
	RunTimeout string `toml:"run_timeout"` // time.ParseDuration syntax
}

// Config is the whole file
type Config struct {
	Engine   Engine    `toml:"engine"`
	Channels []Channel `toml:"channel"`
	Preview  Preview   `toml:"preview"`
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{
		Engine: Engine{
			TileSize:       parameter.DefaultTileSize,
			OverlapEpsilon: parameter.OverlapEpsilon,
			EdgeMargin:     parameter.EdgeMargin,
			AlignSpace:     true,
			MaxArea:        parameter.MaxArea,
			MaxRadius:      parameter.MaxRadiusCeiling,
		},
		Preview: Preview{
			Addr:       parameter.PreviewAddr,
			RunTimeout: parameter.PreviewRunTimeout.String(),
		},
	}
	for _, c := range flood.DefaultChannels() {
		cfg.Channels = append(cfg.Channels, Channel{
			ID:         int(c.ID),
			Name:       c.Name,
			BaseDecay:  c.BaseDecay,
			SpaceDecay: c.SpaceDecay,
			Floor:      c.Floor,
		})
	}
	return cfg
}

// Parse decodes TOML over the defaults
// Tables absent from data keep their defaults; a present [[channel]] list replaces the default list
// Returns error on unknown keys, duplicate channel ids, or parse failure
func Parse(data []byte, logger *log.Logger) (*Config, error) {
	if logger == nil {
		logger = log.Default()
	}
	cfg := Default()
	defaults := cfg.Channels
	cfg.Channels = nil

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("config parse: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config: unknown keys: %s", strings.Join(keys, ", "))
	}
	if !md.IsDefined("channel") {
		cfg.Channels = defaults
	}

	if err := cfg.validate(logger); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses a config file, an empty path returns the defaults
func Load(path string, logger *log.Logger) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config read: %w", err)
	}
	return Parse(data, logger)
}

// Resolve picks the config path: explicit flag first, then EnvPath, else none
func Resolve(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	return os.Getenv(EnvPath)
}

// validate clamps out-of-range numbers with a log line and rejects structural errors
func (c *Config) validate(logger *log.Logger) error {
	e := &c.Engine
	if !(e.TileSize > 0) || math.IsInf(e.TileSize, 0) {
		logger.Printf("config: [engine] tile_size %v invalid, using %v", e.TileSize, parameter.DefaultTileSize)
		e.TileSize = parameter.DefaultTileSize
	}
	if !(e.OverlapEpsilon >= 0) {
		logger.Printf("config: [engine] overlap_epsilon %v clamped to 0", e.OverlapEpsilon)
		e.OverlapEpsilon = 0
	}
	if !(e.EdgeMargin >= 0) {
		logger.Printf("config: [engine] edge_margin %v clamped to 0", e.EdgeMargin)
		e.EdgeMargin = 0
	}
	e.MaxArea = max(e.MaxArea, 0)
	e.MaxRadius = max(e.MaxRadius, 0)

	if len(c.Channels) == 0 {
		return errors.New("config: at least one [[channel]] required")
	}
	seen := make(map[int]string, len(c.Channels))
	for i := range c.Channels {
		ch := &c.Channels[i]
		if prev, dup := seen[ch.ID]; dup {
			return fmt.Errorf("config: [[channel]] id %d used by %q and %q", ch.ID, prev, ch.Name)
		}
		seen[ch.ID] = ch.Name
		if ch.Name == "" {
			ch.Name = fmt.Sprintf("channel-%d", ch.ID)
		}
		if v, clamped := tile.Sanitize(ch.BaseDecay); clamped {
			logger.Printf("config: channel %s base_decay %v clamped to 0", ch.Name, ch.BaseDecay)
			ch.BaseDecay = v
		}
		if v, clamped := tile.Sanitize(ch.SpaceDecay); clamped {
			logger.Printf("config: channel %s space_decay %v clamped to 0", ch.Name, ch.SpaceDecay)
			ch.SpaceDecay = v
		}
	}

	if _, err := c.RunTimeout(); err != nil {
		return fmt.Errorf("config: [preview] run_timeout: %w", err)
	}
	return nil
}

// RunTimeout returns the parsed preview run timeout
func (c *Config) RunTimeout() (time.Duration, error) {
	if c.Preview.RunTimeout == "" {
		return parameter.PreviewRunTimeout, nil
	}
	return time.ParseDuration(c.Preview.RunTimeout)
}

// EngineOptions converts the config into flood.Options
func (c *Config) EngineOptions() flood.Options {
	opts := flood.DefaultOptions()
	opts.Space = space.Config{
		Frame: space.Frame{
			Rotation: vmath.NormalizeAngle(c.Engine.SpaceRotation * math.Pi / 180),
			TileSize: c.Engine.TileSize,
		},
		OverlapEpsilon: c.Engine.OverlapEpsilon,
		EdgeMargin:     c.Engine.EdgeMargin,
	}
	opts.AlignSpaceToReference = c.Engine.AlignSpace
	opts.MaxArea = c.Engine.MaxArea
	opts.MaxRadiusCeiling = c.Engine.MaxRadius

	opts.Channels = make([]flood.Channel, len(c.Channels))
	for i, ch := range c.Channels {
		opts.Channels[i] = flood.Channel{
			ID:         tile.ChannelID(ch.ID),
			Name:       ch.Name,
			BaseDecay:  ch.BaseDecay,
			SpaceDecay: ch.SpaceDecay,
			Floor:      ch.Floor,
		}
	}
	return opts
}

// ChannelByName finds a channel id by name
func (c *Config) ChannelByName(name string) (tile.ChannelID, bool) {
	for _, ch := range c.Channels {
		if strings.EqualFold(ch.Name, name) {
			return tile.ChannelID(ch.ID), true
		}
	}
	return 0, false
}
