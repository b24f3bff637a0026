package viewer

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 1280 || cfg.Height != 800 || cfg.Title != "birch" {
		t.Errorf("window = %dx%d %q", cfg.Width, cfg.Height, cfg.Title)
	}
	if cfg.TileSize != 1024 || cfg.MaxPictures != 4096 || cfg.ScreenshotDir != "screenshots" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.ExitAfterScript || cfg.Zoom != 1 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BIRCH_WIDTH", "640")
	t.Setenv("BIRCH_TILE_SIZE", "0")
	t.Setenv("BIRCH_PICTURE_DEPTH", "-1")
	t.Setenv("BIRCH_DEBUG", "true")
	t.Setenv("BIRCH_ZOOM", "0.5")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 640 || !cfg.Debug || cfg.Zoom != 0.5 {
		t.Errorf("cfg = %+v", cfg)
	}
	opts := cfg.RendererOptions()
	if opts.Tiles != nil {
		t.Error("tile size 0 should disable tiles")
	}
	if opts.Pictures.Depth != -1 || !opts.Debug {
		t.Errorf("opts = %+v", opts)
	}
}

func TestLoadRejects(t *testing.T) {
	t.Setenv("BIRCH_HEIGHT", "0")
	if _, err := Load(); err == nil {
		t.Error("expected error for zero height")
	}
	t.Setenv("BIRCH_HEIGHT", "tall")
	if _, err := Load(); err == nil {
		t.Error("expected error for non-numeric height")
	}
}

func TestRendererOptionsTiles(t *testing.T) {
	cfg := Config{TileSize: 256, MaxTiles: 10, MaxPictures: 7}
	opts := cfg.RendererOptions()
	if opts.Tiles == nil || opts.Tiles.Size != 256 || opts.Tiles.MaxTileCount != 10 {
		t.Errorf("tiles = %+v", opts.Tiles)
	}
	if opts.Pictures.MaxPictures != 7 {
		t.Errorf("pictures = %+v", opts.Pictures)
	}
}
