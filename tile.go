package birch

import (
	"image"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tidwall/rtree"
)

// TileKey names a tile: zoom level, column and row. Level 0 is MaxZoom;
// each level down multiplies the zoom by ZoomStep.
type TileKey struct {
	Level    uint8
	Col, Row int
}

// Tile is a cached raster of one tile rect at one zoom level.
type Tile struct {
	Key   TileKey
	Rect  Rect // world rect
	Image image.Image
	// Generation is the scene generation the tile was rendered from.
	Generation uint64
}

// TileCacheStrategy configures the tile grid and cache bound.
type TileCacheStrategy struct {
	// Size is the tile edge in device pixels.
	Size     int
	ZoomStep float64
	MinZoom  float64
	MaxZoom  float64
	// PromoteToBest evicts a coarser tile once its four finer children are
	// all cached. The quadtree relation between levels assumes a ZoomStep
	// of 0.5.
	PromoteToBest bool
	// MaxTileCount bounds the cache; the least recently used tile is
	// evicted beyond it.
	MaxTileCount int
}

// DefaultTileCacheStrategy returns 1024px tiles, zoom levels halving from
// 256 down to 0.02, promotion on, and at most 512 tiles.
func DefaultTileCacheStrategy() TileCacheStrategy {
	return TileCacheStrategy{
		Size:          1024,
		ZoomStep:      0.5,
		MinZoom:       0.02,
		MaxZoom:       256,
		PromoteToBest: true,
		MaxTileCount:  512,
	}
}

// TileResponse is the answer to a BestTiles query.
type TileResponse struct {
	Zoom  float64 // quantized
	Level uint8
	Rect  Rect
	// Keys and Tiles are the cached tiles to draw for the region, possibly
	// finer than Level where the exact tile is missing.
	Keys  []TileKey
	Tiles []*Tile
	// Requires lists the tiles at Level that are not cached.
	Requires []TileKey
}

// TileCache holds pre-rendered tiles keyed by TileKey, indexed spatially,
// with LRU eviction.
//
// A TileCache is not safe for concurrent use.
type TileCache struct {
	strategy TileCacheStrategy
	tiles    *lru.Cache[TileKey, *Tile]
	index    rtree.RTreeG[TileKey]
}

// NewTileCache returns an empty cache. Zero fields in strategy take their
// default values.
func NewTileCache(strategy TileCacheStrategy) *TileCache {
	def := DefaultTileCacheStrategy()
	if strategy.Size <= 0 {
		strategy.Size = def.Size
	}
	if strategy.ZoomStep <= 0 || strategy.ZoomStep >= 1 {
		strategy.ZoomStep = def.ZoomStep
	}
	if strategy.MinZoom <= 0 {
		strategy.MinZoom = def.MinZoom
	}
	if strategy.MaxZoom <= 0 {
		strategy.MaxZoom = def.MaxZoom
	}
	if strategy.MaxTileCount <= 0 {
		strategy.MaxTileCount = def.MaxTileCount
	}
	tc := &TileCache{strategy: strategy}
	tiles, err := lru.NewWithEvict[TileKey, *Tile](strategy.MaxTileCount, func(k TileKey, t *Tile) {
		min, max := envelope(t.Rect)
		tc.index.Delete(min, max, k)
	})
	if err != nil {
		panic("birch: " + err.Error())
	}
	tc.tiles = tiles
	return tc
}

// Strategy returns the cache strategy.
func (tc *TileCache) Strategy() TileCacheStrategy { return tc.strategy }

// ShouldCache reports whether tiles are cached at zoom. Magnified views
// render directly.
func (tc *TileCache) ShouldCache(zoom float64) bool { return zoom <= 1 }

// ZoomForLevel returns the zoom of level.
func (tc *TileCache) ZoomForLevel(level uint8) float64 {
	return tc.strategy.MaxZoom * math.Pow(tc.strategy.ZoomStep, float64(level))
}

// QuantizeZoom returns the level and zoom of the smallest quantized zoom
// that is still at least zoom, after clamping to [MinZoom, MaxZoom].
func (tc *TileCache) QuantizeZoom(zoom float64) (uint8, float64) {
	s := tc.strategy
	zoom = math.Max(s.MinZoom, math.Min(s.MaxZoom, zoom))
	level, current := uint8(0), s.MaxZoom
	for zoom <= current*s.ZoomStep && current*s.ZoomStep >= s.MinZoom && level < math.MaxUint8 {
		current *= s.ZoomStep
		level++
	}
	return level, current
}

// maxLevel returns the coarsest level.
func (tc *TileCache) maxLevel() uint8 {
	l, _ := tc.QuantizeZoom(tc.strategy.MinZoom)
	return l
}

// TileWorldSize returns the world edge length of a tile at zoom.
func (tc *TileCache) TileWorldSize(zoom float64) float64 {
	return float64(tc.strategy.Size) / zoom
}

// TileRectForKey returns the world rect covered by key.
func (tc *TileCache) TileRectForKey(key TileKey) Rect {
	size := tc.TileWorldSize(tc.ZoomForLevel(key.Level))
	return Rect{X: float64(key.Col) * size, Y: float64(key.Row) * size, Width: size, Height: size}
}

// KeysForRegion returns the keys at level that cover region, row-major.
func (tc *TileCache) KeysForRegion(region Rect, level uint8) []TileKey {
	size := tc.TileWorldSize(tc.ZoomForLevel(level))
	c0, c1 := int(math.Floor(region.X/size)), int(math.Ceil(region.Right()/size))
	r0, r1 := int(math.Floor(region.Y/size)), int(math.Ceil(region.Bottom()/size))
	if c1 == c0 {
		c1++
	}
	if r1 == r0 {
		r1++
	}
	keys := make([]TileKey, 0, (c1-c0)*(r1-r0))
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			keys = append(keys, TileKey{Level: level, Col: col, Row: row})
		}
	}
	return keys
}

// Has reports whether key is cached, without marking it used.
func (tc *TileCache) Has(key TileKey) bool { return tc.tiles.Contains(key) }

// Tile returns the tile for key, without marking it used.
func (tc *TileCache) Tile(key TileKey) (*Tile, bool) { return tc.tiles.Peek(key) }

// Len returns the number of cached tiles.
func (tc *TileCache) Len() int { return tc.tiles.Len() }

// BestTiles collects the cached tiles that cover region at zoom. A missing
// tile goes into Requires and is stood in for by any cached finer tiles
// inside it.
func (tc *TileCache) BestTiles(region Rect, zoom float64) *TileResponse {
	level, q := tc.QuantizeZoom(zoom)
	resp := &TileResponse{Zoom: q, Level: level, Rect: region}
	for _, k := range tc.KeysForRegion(region, level) {
		if t, ok := tc.tiles.Peek(k); ok {
			resp.Keys = append(resp.Keys, k)
			resp.Tiles = append(resp.Tiles, t)
			continue
		}
		resp.Requires = append(resp.Requires, k)
		tc.collectFiner(k, resp)
	}
	return resp
}

// collectFiner adds the cached descendants of key at finer levels.
func (tc *TileCache) collectFiner(key TileKey, resp *TileResponse) {
	if key.Level == 0 || !tc.hasFinerWithin(key) {
		return
	}
	for dy := 0; dy < 2; dy++ {
		for dx := 0; dx < 2; dx++ {
			child := TileKey{Level: key.Level - 1, Col: key.Col*2 + dx, Row: key.Row*2 + dy}
			if t, ok := tc.tiles.Peek(child); ok {
				resp.Keys = append(resp.Keys, child)
				resp.Tiles = append(resp.Tiles, t)
				continue
			}
			tc.collectFiner(child, resp)
		}
	}
}

// hasFinerWithin reports whether any tile finer than key lies inside
// key's rect.
func (tc *TileCache) hasFinerWithin(key TileKey) bool {
	r := tc.TileRectForKey(key)
	found := false
	min, max := envelope(r)
	tc.index.Search(min, max, func(tmin, tmax [2]float64, k TileKey) bool {
		if k.Level < key.Level && tmin[0] >= min[0] && tmin[1] >= min[1] && tmax[0] <= max[0] && tmax[1] <= max[1] {
			found = true
			return false
		}
		return true
	})
	return found
}

// Insert stores a tile, promoting and pruning per the strategy. It reports
// whether an existing tile was replaced.
func (tc *TileCache) Insert(t *Tile) bool {
	replaced := tc.tiles.Contains(t.Key)
	if replaced {
		tc.tiles.Remove(t.Key)
	}
	t.Rect = tc.TileRectForKey(t.Key)
	min, max := envelope(t.Rect)
	tc.index.Insert(min, max, t.Key)
	tc.tiles.Add(t.Key, t)
	if tc.strategy.PromoteToBest {
		tc.promote(t.Key)
	}
	return replaced
}

// promote evicts the coarser parent of key once all four of its children
// are cached.
func (tc *TileCache) promote(key TileKey) {
	if key.Level >= tc.maxLevel() {
		return
	}
	parent := TileKey{Level: key.Level + 1, Col: floorDiv2(key.Col), Row: floorDiv2(key.Row)}
	for dy := 0; dy < 2; dy++ {
		for dx := 0; dx < 2; dx++ {
			if !tc.tiles.Contains(TileKey{Level: key.Level, Col: parent.Col*2 + dx, Row: parent.Row*2 + dy}) {
				return
			}
		}
	}
	tc.tiles.Remove(parent)
}

func floorDiv2(v int) int {
	if v < 0 {
		return (v - 1) / 2
	}
	return v / 2
}

// Invalidate removes key.
func (tc *TileCache) Invalidate(key TileKey) { tc.tiles.Remove(key) }

// InvalidateAll removes every tile.
func (tc *TileCache) InvalidateAll() { tc.tiles.Purge() }

// MarkUsed moves key to the most recently used position.
func (tc *TileCache) MarkUsed(key TileKey) { tc.tiles.Get(key) }

// Prune evicts least recently used tiles until at most max remain. The
// cache already enforces MaxTileCount on insert; Prune tightens it further.
func (tc *TileCache) Prune(max int) {
	for tc.tiles.Len() > max {
		if _, _, ok := tc.tiles.RemoveOldest(); !ok {
			return
		}
	}
}
