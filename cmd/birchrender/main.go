// Command birchrender renders one frame of the demo board to a PNG file.
//
// Settings are read from BIRCH_* environment variables (see viewer.Config);
// BIRCH_BOARD_COLS and BIRCH_BOARD_ROWS size the board.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/phanxgames/birch"
	"github.com/phanxgames/birch/internal/demo"
	"github.com/phanxgames/birch/raster"
	"github.com/phanxgames/birch/viewer"
)

type config struct {
	viewer.Config
	Cols int `envconfig:"BOARD_COLS" default:"4"`
	Rows int `envconfig:"BOARD_ROWS" default:"3"`
	// LoadTimeout bounds how long assets from AssetDir are waited for.
	LoadTimeout time.Duration `envconfig:"LOAD_TIMEOUT" default:"5s"`
}

func main() {
	var cfg config
	if err := envconfig.Process(viewer.EnvPrefix, &cfg); err != nil {
		fmt.Fprintln(os.Stderr, "birchrender:", err)
		os.Exit(2)
	}
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(cfg, log); err != nil {
		log.Error("render failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config, log *slog.Logger) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("output size %dx%d", cfg.Width, cfg.Height)
	}
	opts := cfg.RendererOptions()
	opts.Logger = log
	r := birch.NewRenderer(opts)
	r.LoadScene(demo.Board(cfg.Cols, cfg.Rows))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.LoadTimeout)
	defer cancel()
	if n := r.RequestMissing(ctx); n > 0 {
		log.Info("loading assets", "count", n, "dir", cfg.AssetDir)
		if err := waitForAssets(ctx, r); err != nil {
			log.Warn("assets incomplete", "err", err)
		}
	}

	board := demo.Size(cfg.Cols, cfg.Rows)
	cam := birch.NewCamera(birch.Rect{Width: float64(cfg.Width), Height: float64(cfg.Height)})
	cam.X, cam.Y, cam.Zoom = board.Width/2, board.Height/2, cfg.Zoom

	canvas := raster.NewCanvas(r, cfg.Width, cfg.Height)
	canvas.TilesPerFrame = 0
	st, err := canvas.Render(cam)
	if err != nil {
		return err
	}
	if err := raster.WritePNG(cfg.Output, canvas.Image()); err != nil {
		return err
	}
	log.Info("wrote frame", "path", cfg.Output,
		"tiles", st.TilesUsed, "pictures", st.PicturesUsed, "elapsed", st.Duration)
	return nil
}

// waitForAssets merges fetch results until nothing is pending or ctx ends.
func waitForAssets(ctx context.Context, r *birch.Renderer) error {
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	for {
		r.DrainResources()
		if r.PendingResources() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
		}
	}
}
