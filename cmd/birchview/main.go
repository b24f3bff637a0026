// Command birchview opens the demo board in a window.
//
// Drag to pan, scroll to zoom, click to pick. Set BIRCH_SCRIPT to a JSON
// script to drive the view and take screenshots unattended.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/kelseyhightower/envconfig"

	"github.com/phanxgames/birch/internal/demo"
	"github.com/phanxgames/birch/viewer"
)

type config struct {
	viewer.Config
	Cols int `envconfig:"BOARD_COLS" default:"16"`
	Rows int `envconfig:"BOARD_ROWS" default:"12"`
}

func main() {
	var cfg config
	if err := envconfig.Process(viewer.EnvPrefix, &cfg); err != nil {
		fmt.Fprintln(os.Stderr, "birchview:", err)
		os.Exit(2)
	}
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	v := viewer.New(context.Background(), cfg.Config, demo.Board(cfg.Cols, cfg.Rows), log)
	v.SetEventSink(viewer.EventSinkFunc(func(e viewer.PickEvent) {
		if e.Hit() {
			fmt.Printf("picked %q (#%d) at %.1f, %.1f\n", e.Name, e.Node, e.WorldX, e.WorldY)
		}
	}))
	if cfg.Script != "" {
		runner, err := viewer.LoadScript(cfg.Script)
		if err != nil {
			log.Error("script", "err", err)
			os.Exit(1)
		}
		v.SetScript(runner)
	}
	if err := v.Run(); err != nil {
		log.Error("viewer exited", "err", err)
		os.Exit(1)
	}
}
