// Command flood-preview serves propagation previews of the demo scene over websocket
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/lixenwraith/gridflood/config"
	"github.com/lixenwraith/gridflood/flood"
	"github.com/lixenwraith/gridflood/preview"
	"github.com/lixenwraith/gridflood/status"
)

func main() {
	var (
		configPath string
		addr       string
	)
	flag.StringVar(&configPath, "config", "", "TOML config path (default $"+config.EnvPath+")")
	flag.StringVar(&addr, "addr", "", "listen address, overrides [preview] addr")
	flag.Parse()

	logger := log.New(os.Stderr, "flood-preview ", log.LstdFlags)

	cfg, err := config.Load(config.Resolve(configPath), logger)
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if addr == "" {
		addr = cfg.Preview.Addr
	}
	runTimeout, _ := cfg.RunTimeout()

	scene := preview.NewScene()
	reg, _ := scene.Registry()
	stats := status.NewRegistry()

	opts := cfg.EngineOptions()
	opts.Logger = logger
	opts.Stats = stats
	engine, err := flood.NewEngine(reg, scene.Tiles, opts)
	if err != nil {
		logger.Fatalf("engine: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := preview.NewServer(engine, stats, logger, runTimeout)
	if err := srv.ListenAndServe(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("serve: %v", err)
	}
	logger.Printf("stopped")
}
