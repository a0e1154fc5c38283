// Command flood-sandbox is an interactive terminal view of the demo scene
// Move the cursor, pick a channel and detonate to watch intensity spread across grids and space
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/gridflood/config"
	"github.com/lixenwraith/gridflood/events"
	"github.com/lixenwraith/gridflood/flood"
	"github.com/lixenwraith/gridflood/grid"
	"github.com/lixenwraith/gridflood/preview"
	"github.com/lixenwraith/gridflood/status"
	"github.com/lixenwraith/gridflood/tile"
	"github.com/lixenwraith/gridflood/vmath"
)

const (
	colsPerTile   = 2
	intensityStep = 2.0
	moveStep      = 0.5
	turnStep      = math.Pi / 36
)

var (
	debugFlag     = flag.Bool("debug", false, "Write logs to logs/flood-sandbox.log")
	configFlag    = flag.String("config", "", "TOML config path (default $"+config.EnvPath+")")
	intensityFlag = flag.Float64("intensity", 12, "Initial intensity")
	radiusFlag    = flag.Int("radius", 40, "Max radius in steps")
)

// Sandbox holds the view state
type Sandbox struct {
	screen tcell.Screen
	scene  *preview.Scene
	reg    *grid.Registry
	router *events.Router[*grid.Registry]
	engine *flood.Engine
	stats  *status.Registry

	channels []flood.Channel
	chIdx    int

	camera    vmath.Vec2
	cursor    vmath.Vec2
	intensity float64
	radius    int

	result  *flood.Result
	elapsed time.Duration
	lastErr error
}

func main() {
	flag.Parse()

	logFile := setupLogging(*debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}

	cfg, err := config.Load(config.Resolve(*configFlag), log.Default())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	sb, err := newSandbox(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start sandbox: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if r := recover(); r != nil {
			sb.screen.Fini()
			fmt.Fprintf(os.Stderr, "flood-sandbox crashed: %v\n", r)
			os.Exit(1)
		}
	}()

	sb.run()
	sb.screen.Fini()
}

func newSandbox(cfg *config.Config) (*Sandbox, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	scene := preview.NewScene()
	reg, router := scene.Registry()
	stats := status.NewRegistry()

	opts := cfg.EngineOptions()
	opts.Stats = stats
	engine, err := flood.NewEngine(reg, scene.Tiles, opts)
	if err != nil {
		screen.Fini()
		return nil, err
	}

	return &Sandbox{
		screen:    screen,
		scene:     scene,
		reg:       reg,
		router:    router,
		engine:    engine,
		stats:     stats,
		channels:  engine.Channels(),
		camera:    vmath.V(14, 5),
		cursor:    vmath.V(5.5, 3.5),
		intensity: *intensityFlag,
		radius:    *radiusFlag,
	}, nil
}

func (s *Sandbox) run() {
	s.draw()
	for {
		ev := s.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			s.screen.Sync()
		case *tcell.EventKey:
			if !s.handleKey(ev) {
				return
			}
		}
		s.draw()
	}
}

// handleKey applies one key press, false means quit
func (s *Sandbox) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		s.cursor.Y += moveStep
	case tcell.KeyDown:
		s.cursor.Y -= moveStep
	case tcell.KeyLeft:
		s.cursor.X -= moveStep
	case tcell.KeyRight:
		s.cursor.X += moveStep
	case tcell.KeyEnter:
		s.detonate()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			s.detonate()
		case 'c':
			s.chIdx = (s.chIdx + 1) % len(s.channels)
			s.detonate()
		case '+', '=':
			s.intensity += intensityStep
			s.detonate()
		case '-':
			s.intensity = math.Max(0, s.intensity-intensityStep)
			s.detonate()
		case 'w':
			s.nudgeShuttle(vmath.V(0, moveStep), 0)
		case 's':
			s.nudgeShuttle(vmath.V(0, -moveStep), 0)
		case 'a':
			s.nudgeShuttle(vmath.V(-moveStep, 0), 0)
		case 'd':
			s.nudgeShuttle(vmath.V(moveStep, 0), 0)
		case 'e':
			s.nudgeShuttle(vmath.Vec2{}, -turnStep)
		case 'r':
			s.nudgeShuttle(vmath.Vec2{}, turnStep)
		case 'x':
			s.result = nil
		}
	}
	return true
}

// nudgeShuttle moves the shuttle grid and re-runs the last detonation against the new geometry
func (s *Sandbox) nudgeShuttle(delta vmath.Vec2, turn float64) {
	xf, ok := s.scene.World.GridTransform(preview.SceneShuttle)
	if !ok {
		return
	}
	s.scene.World.Move(preview.SceneShuttle, vmath.NewTransform(xf.Position.Add(delta), vmath.NormalizeAngle(xf.Rotation+turn)))
	if s.result != nil {
		s.detonate()
	}
}

func (s *Sandbox) detonate() {
	// Apply pending geometry changes before reading the registry
	if n := s.router.DispatchAll(s.reg); n > 0 {
		log.Printf("sandbox: dispatched %d grid events", n)
	}

	ch := s.channels[s.chIdx]
	start := time.Now()
	res, err := s.engine.PropagateAt(context.Background(), preview.SceneMap, s.cursor, s.intensity, ch.ID, s.radius)
	s.elapsed = time.Since(start)
	s.lastErr = err
	if err != nil {
		log.Printf("sandbox: %s run at %v failed: %v", ch.Name, s.cursor, err)
	}
	if res != nil {
		s.result = res
	}
}

// worldAt maps a screen cell to the world position at its center, y grows upward
func (s *Sandbox) worldAt(col, row, w, h int) vmath.Vec2 {
	return vmath.V(
		s.camera.X+(float64(col-w/2)+0.5)/colsPerTile,
		s.camera.Y-(float64(row-h/2)+0.5),
	)
}

func (s *Sandbox) draw() {
	s.screen.Clear()
	w, h := s.screen.Size()
	viewH := h - 2

	for row := 0; row < viewH; row++ {
		for col := 0; col < w; col++ {
			pos := s.worldAt(col, row, w, viewH)
			ch, style := s.cellAt(pos)
			s.screen.SetContent(col, row, ch, nil, style)
		}
	}

	// Cursor
	cc := int(math.Floor((s.cursor.X-s.camera.X)*colsPerTile)) + w/2
	cr := int(math.Floor(s.camera.Y-s.cursor.Y)) + viewH/2
	if cc >= 0 && cc < w && cr >= 0 && cr < viewH {
		s.screen.SetContent(cc, cr, '@', nil, tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true))
	}

	s.drawStatus(w, h)
	s.screen.Show()
}

// cellAt picks the glyph and style for a world position
func (s *Sandbox) cellAt(pos vmath.Vec2) (rune, tcell.Style) {
	id, idx, onGrid := s.reg.GridAt(preview.SceneMap, pos)

	var coord tile.Coord
	glyph := ' '
	base := tcell.StyleDefault
	if onGrid {
		coord = tile.GridCoord(preview.SceneMap, id, idx.X, idx.Y)
		data := s.scene.Tiles.TileData(coord)
		switch {
		case data.Blocked != 0:
			glyph = '#'
		case data.ResistanceFor(0) >= 1:
			glyph = '='
		default:
			glyph = '.'
		}
		base = base.Foreground(gridColor(id))
	} else if s.result != nil {
		x, y := s.result.SpaceFrame.CellAt(pos)
		coord = tile.SpaceCoord(preview.SceneMap, x, y)
	}

	if s.result != nil {
		if v, ok := s.result.Intensity(coord); ok {
			if glyph == ' ' {
				glyph = '·'
			}
			return glyph, base.Background(heatColor(v / math.Max(s.intensity, 1)))
		}
	}
	return glyph, base
}

func (s *Sandbox) drawStatus(w, h int) {
	ch := s.channels[s.chIdx]
	line := fmt.Sprintf(" %s  I=%.1f  r=%d  cursor=(%.1f, %.1f)", ch.Name, s.intensity, s.radius, s.cursor.X, s.cursor.Y)
	if s.result != nil {
		line += fmt.Sprintf("  tiles=%d grids=%v depth=%d %.2fms", s.result.Len(), s.result.Grids(), s.result.MaxDepth(), float64(s.elapsed.Microseconds())/1000)
		if s.result.Partial {
			line += " partial"
		}
	}
	if s.lastErr != nil {
		line += "  err: " + s.lastErr.Error()
	}
	help := " arrows move  space/enter detonate  c channel  +/- intensity  wasd/e/r shuttle  x clear  q quit"
	help += fmt.Sprintf("  runs=%d", s.stats.Counter(flood.MetricRuns))

	drawText(s.screen, 0, h-2, w, line, tcell.StyleDefault.Foreground(tcell.ColorYellow))
	drawText(s.screen, 0, h-1, w, help, tcell.StyleDefault.Foreground(tcell.ColorGray))
}

func drawText(screen tcell.Screen, x, y, maxW int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		if col >= maxW {
			return
		}
		screen.SetContent(col, y, r, nil, style)
		col++
	}
}

func gridColor(id tile.GridID) tcell.Color {
	switch id {
	case preview.SceneStation:
		return tcell.ColorSilver
	case preview.SceneShuttle:
		return tcell.ColorAqua
	default:
		return tcell.ColorOlive
	}
}

// heatColor maps a 0..1 fraction onto a dark red to bright yellow ramp
func heatColor(f float64) tcell.Color {
	f = math.Max(0, math.Min(1, f))
	r := int32(80 + 175*f)
	g := int32(220 * f * f)
	return tcell.NewRGBColor(r, g, 0)
}
