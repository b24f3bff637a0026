package viewer

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/phanxgames/birch"
)

// EnvPrefix is the prefix of every environment variable Load reads.
const EnvPrefix = "BIRCH"

// Config is the viewer and command-line configuration, read from BIRCH_*
// environment variables.
type Config struct {
	Width  int    `envconfig:"WIDTH" default:"1280"`
	Height int    `envconfig:"HEIGHT" default:"800"`
	Title  string `envconfig:"TITLE" default:"birch"`

	// TileSize of 0 disables the tile cache.
	TileSize     int `envconfig:"TILE_SIZE" default:"1024"`
	MaxTiles     int `envconfig:"MAX_TILES" default:"512"`
	MaxPictures  int `envconfig:"MAX_PICTURES" default:"4096"`
	PictureDepth int `envconfig:"PICTURE_DEPTH" default:"0"`

	Debug   bool `envconfig:"DEBUG" default:"false"`
	ShowFPS bool `envconfig:"SHOW_FPS" default:"false"`

	Script          string `envconfig:"SCRIPT"`
	ExitAfterScript bool   `envconfig:"EXIT_AFTER_SCRIPT" default:"true"`
	ScreenshotDir   string `envconfig:"SCREENSHOT_DIR" default:"screenshots"`

	// AssetDir, when set, is where image sources and font families are
	// fetched from.
	AssetDir string `envconfig:"ASSET_DIR"`

	Output string  `envconfig:"OUTPUT" default:"out.png"`
	Zoom   float64 `envconfig:"ZOOM" default:"1"`
}

// Load reads Config from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("viewer: load config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("viewer: load config: window size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Zoom <= 0 {
		cfg.Zoom = 1
	}
	return &cfg, nil
}

// RendererOptions maps the cache settings onto renderer options.
func (c *Config) RendererOptions() birch.RendererOptions {
	opts := birch.RendererOptions{
		Debug: c.Debug,
		Pictures: birch.PictureCacheStrategy{
			Depth:       c.PictureDepth,
			MaxPictures: c.MaxPictures,
		},
		Mipmaps: birch.DefaultMipmapConfig(),
	}
	if c.AssetDir != "" {
		opts.Fetcher = DirFetcher(c.AssetDir)
	}
	if c.TileSize > 0 {
		tiles := birch.DefaultTileCacheStrategy()
		tiles.Size = c.TileSize
		if c.MaxTiles > 0 {
			tiles.MaxTileCount = c.MaxTiles
		}
		opts.Tiles = &tiles
	}
	return opts
}
