package birch

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"time"
)

// TileRasterizer renders the layers intersecting a world rect into a tile
// image at the given zoom. See package raster.
type TileRasterizer interface {
	RasterizeTile(rect Rect, zoom float64, background Color, layers []Layer) (image.Image, error)
}

// RendererOptions configures a Renderer. The zero value is usable.
type RendererOptions struct {
	// Logger receives warnings and debug stats. Nil logs text to stderr.
	Logger *slog.Logger
	// Debug enables per-frame stats logging.
	Debug bool
	// Pictures sets the picture granularity and bound. The zero value is
	// one picture per root with the default bound.
	Pictures PictureCacheStrategy
	// Tiles enables tile caching when non-nil.
	Tiles *TileCacheStrategy
	// Mipmaps configures image mip chains.
	Mipmaps MipmapConfig
	// Fetcher enables background resource loading when non-nil.
	Fetcher Fetcher
	// LoaderParallelism bounds concurrent fetches.
	LoaderParallelism int
}

// DrawStats summarizes one Draw call.
type DrawStats struct {
	PicturesUsed     int
	PicturesRecorded int
	PictureCount     int
	GeometryCount    int
	TilesTotal       int
	TilesUsed        int
	Regions          int
	Duration         time.Duration
}

// Renderer owns a scene and every cache derived from it, and drives the
// plan and draw steps of each frame. All methods must be called from the
// frame loop goroutine.
type Renderer struct {
	log   *slog.Logger
	debug bool

	scene    *Scene
	geo      *GeometryCache
	layers   *LayerList
	hit      *HitTester
	keys     []NodeID         // picture key per layer index
	keyRuns  map[NodeID][]int // layer indices per picture key
	pictures *PictureCache
	tiles    *TileCache

	images    *ImageRepository
	fonts     *FontRepository
	loader    *Loader
	requested map[requestKey]bool

	camState  CameraState
	sceneGen  uint64
	fontGen   uint64
	imageGen  uint64
	lastStats debugStats
}

// NewRenderer returns a renderer with no scene loaded.
func NewRenderer(opts RendererOptions) *Renderer {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	r := &Renderer{
		log:       log.WithGroup("birch"),
		debug:     opts.Debug,
		pictures:  NewPictureCache(opts.Pictures),
		images:    NewImageRepository(opts.Mipmaps),
		fonts:     NewFontRepository(),
		requested: make(map[requestKey]bool),
	}
	if opts.Tiles != nil {
		r.tiles = NewTileCache(*opts.Tiles)
	}
	if opts.Fetcher != nil {
		r.loader = NewLoader(opts.Fetcher, opts.LoaderParallelism)
	}
	return r
}

// SetDebug turns per-frame stats logging on or off.
func (r *Renderer) SetDebug(on bool) { r.debug = on }

// Logger returns the renderer's logger.
func (r *Renderer) Logger() *slog.Logger { return r.log }

// Scene returns the loaded scene, or nil.
func (r *Renderer) Scene() *Scene { return r.scene }

// Geometry returns the current geometry cache, or nil before LoadScene.
func (r *Renderer) Geometry() *GeometryCache { return r.geo }

// Layers returns the current layer list, or nil before LoadScene.
func (r *Renderer) Layers() *LayerList { return r.layers }

// HitTester returns a hit tester over the current layers, or nil before
// LoadScene.
func (r *Renderer) HitTester() *HitTester { return r.hit }

// Pictures returns the picture cache.
func (r *Renderer) Pictures() *PictureCache { return r.pictures }

// Tiles returns the tile cache, or nil when tiles are disabled.
func (r *Renderer) Tiles() *TileCache { return r.tiles }

// Images returns the image repository.
func (r *Renderer) Images() *ImageRepository { return r.images }

// Fonts returns the font repository.
func (r *Renderer) Fonts() *FontRepository { return r.fonts }

// Errors returns the per-node geometry errors of the current scene.
func (r *Renderer) Errors() map[NodeID]error {
	if r.geo == nil {
		return nil
	}
	return r.geo.Errors()
}

// LoadScene replaces the scene and rebuilds geometry and layers. Every
// picture and tile is dropped.
func (r *Renderer) LoadScene(scene *Scene) {
	r.scene = scene
	r.rebuild()
}

// Rebuild rebuilds geometry and layers if the scene or the fonts changed
// since the last build. It reports whether anything was rebuilt.
func (r *Renderer) Rebuild() bool {
	if r.scene == nil {
		return false
	}
	if r.scene.Generation() == r.sceneGen && r.fonts.Generation() == r.fontGen && r.geo != nil {
		if r.images.Generation() != r.imageGen {
			r.imageGen = r.images.Generation()
			r.invalidateTiles()
		}
		return false
	}
	r.rebuild()
	return true
}

func (r *Renderer) rebuild() {
	start := time.Now()
	r.geo = NewGeometryCache(r.scene, r.fonts)
	geoTime := time.Since(start)

	start = time.Now()
	r.layers = NewLayerList(r.scene, r.geo)
	r.hit = NewHitTester(r.layers)
	r.indexPictureKeys()
	layerTime := time.Since(start)

	r.pictures.Invalidate()
	r.invalidateTiles()
	r.sceneGen = r.scene.Generation()
	r.fontGen = r.fonts.Generation()
	r.imageGen = r.images.Generation()

	for id, err := range r.geo.Errors() {
		r.log.Warn("geometry error", "node", id, "err", err)
	}
	debugCheckTreeDepth(r.log, r.geo)
	if r.debug {
		debugCheckChildCount(r.log, r.scene)
	}
	r.lastStats.geometryTime = geoTime
	r.lastStats.layerTime = layerTime
}

func (r *Renderer) invalidateTiles() {
	if r.tiles != nil {
		r.tiles.InvalidateAll()
	}
}

// indexPictureKeys maps every layer to the node whose picture records it.
func (r *Renderer) indexPictureKeys() {
	depth := r.pictures.Strategy().Depth
	r.keys = make([]NodeID, r.layers.Len())
	r.keyRuns = make(map[NodeID][]int)
	for i, l := range r.layers.Layers() {
		k := pictureKey(r.geo, l.Base().ID, depth)
		r.keys[i] = k
		r.keyRuns[k] = append(r.keyRuns[k], i)
	}
}

// SetCamera records the camera state and reports whether it changed enough
// to need a new frame.
func (r *Renderer) SetCamera(cam *Camera) bool {
	s := cam.State()
	if s == r.camState {
		return false
	}
	r.camState = s
	return true
}

// --- resources ---

// Request starts fetching a resource in the background. It is a no-op
// without a Fetcher.
func (r *Renderer) Request(ctx context.Context, kind ResourceKind, key string) {
	if r.loader == nil {
		return
	}
	r.requested[requestKey{kind, key}] = true
	r.loader.Request(ctx, kind, key)
}

// RequestMissing requests every image source and font family the scene
// uses that is neither stored nor already requested. It returns the number
// of requests made.
func (r *Renderer) RequestMissing(ctx context.Context) int {
	if r.loader == nil || r.scene == nil {
		return 0
	}
	n := 0
	want := func(kind ResourceKind, key string, have bool) {
		if key == "" || have || r.requested[requestKey{kind, key}] {
			return
		}
		r.Request(ctx, kind, key)
		n++
	}
	r.scene.Walk(func(_ NodeID, node Node, _ int) bool {
		switch v := node.(type) {
		case *ImageNode:
			_, ok := r.images.Get(v.Src)
			want(ResourceImage, v.Src, ok)
		case *TextSpanNode:
			want(ResourceFont, v.Style.FontFamily, r.fonts.Has(v.Style.FontFamily))
		}
		return true
	})
	return n
}

// DrainResources merges finished fetches into the image and font
// repositories without blocking. Failed and superseded fetches are logged
// and dropped. It returns the number of resources stored.
func (r *Renderer) DrainResources() int {
	if r.loader == nil {
		return 0
	}
	results, stale := r.loader.Drain()
	if stale > 0 {
		r.log.Warn("dropped stale resource results", "count", stale)
	}
	stored := 0
	for _, res := range results {
		if res.Err != nil {
			r.log.Warn("resource fetch failed", "kind", res.Kind, "key", res.Key, "err", res.Err)
			continue
		}
		var err error
		switch res.Kind {
		case ResourceImage:
			err = r.images.Decode(res.Key, res.Data)
		case ResourceFont:
			err = r.fonts.AddFont(res.Key, res.Data)
		default:
			err = fmt.Errorf("birch: unknown resource kind %d", res.Kind)
		}
		if err != nil {
			r.log.Warn("resource rejected", "kind", res.Kind, "key", res.Key, "err", err)
			continue
		}
		stored++
	}
	return stored
}

// PendingResources returns the number of fetches not yet drained.
func (r *Renderer) PendingResources() int {
	if r.loader == nil {
		return 0
	}
	return r.loader.Pending()
}

// --- frame ---

// Plan computes what the next frame paints for cam: the cached tiles that
// cover the view and, for the rest, each uncovered region with its layers.
func (r *Renderer) Plan(cam *Camera) *FramePlan {
	start := time.Now()
	plan := &FramePlan{Visible: cam.VisibleBounds(), View: cam.View(), Zoom: cam.Zoom}
	if r.layers == nil {
		return plan
	}
	var covered []Rect
	if r.tiles != nil && r.tiles.ShouldCache(cam.Zoom) {
		resp := r.tiles.BestTiles(plan.Visible, cam.Zoom)
		plan.Tiles = resp.Tiles
		plan.Requires = resp.Requires
		covered = make([]Rect, len(resp.Tiles))
		for i, t := range resp.Tiles {
			covered[i] = t.Rect
		}
	}
	plan.RepaintAll = len(covered) == 0
	plan.Regions = planRegions(r.layers, plan.Visible, covered)
	r.lastStats.planTime = time.Since(start)
	return plan
}

// Draw paints plan onto p: background, cached tiles, then each region
// clipped, replaying cached pictures and recording the missing ones.
func (r *Renderer) Draw(p Painter, plan *FramePlan) DrawStats {
	start := time.Now()
	var st DrawStats
	bg := ColorWhite
	if r.scene != nil {
		bg = r.scene.Background
	}
	p.Clear(bg)
	p.SetView(plan.View)

	for _, t := range plan.Tiles {
		p.DrawImage(t.Image, t.Rect)
		if r.tiles != nil {
			r.tiles.MarkUsed(t.Key)
		}
	}
	st.TilesUsed = len(plan.Tiles)

	for _, region := range plan.Regions {
		p.PushClip(region.Rect)
		for _, run := range pictureGroups(r.keys, region.Layers) {
			pic, recorded := r.picture(r.keys[run[0]])
			if recorded {
				st.PicturesRecorded++
			}
			pic.Replay(p)
			st.PicturesUsed++
		}
		p.PopClip()
	}

	st.Regions = len(plan.Regions)
	st.PictureCount = r.pictures.Len()
	if r.geo != nil {
		st.GeometryCount = r.geo.Len()
	}
	if r.tiles != nil {
		st.TilesTotal = r.tiles.Len()
	}
	st.Duration = time.Since(start)

	if r.debug {
		r.lastStats.paintTime = st.Duration
		if r.layers != nil {
			r.lastStats.layers = r.layers.Len()
		}
		r.lastStats.regions = st.Regions
		r.lastStats.tiles = st.TilesUsed
		r.lastStats.missingTiles = len(plan.Requires)
		r.lastStats.pictureHits, r.lastStats.pictureMisses = r.pictures.Stats()
		r.debugLog(r.lastStats)
		r.pictures.ResetStats()
	}
	return st
}

// picture returns the picture for key, recording it from its layers when
// it is not cached.
func (r *Renderer) picture(key NodeID) (*Picture, bool) {
	if pic, ok := r.pictures.NodePicture(key); ok {
		return pic, false
	}
	rec := NewRecorder()
	for _, i := range r.keyRuns[key] {
		rec.PaintLayer(r.layers.At(i))
	}
	pic := rec.Finish()
	r.pictures.SetNodePicture(key, pic)
	return pic, true
}

// RenderTiles rasterizes up to max of the tiles plan requires and stores
// them; max <= 0 renders all of them. It returns the number stored.
func (r *Renderer) RenderTiles(rz TileRasterizer, plan *FramePlan, max int) (int, error) {
	if r.tiles == nil || r.layers == nil || !r.tiles.ShouldCache(plan.Zoom) {
		return 0, nil
	}
	n := 0
	for _, key := range plan.Requires {
		if max > 0 && n >= max {
			break
		}
		if r.tiles.Has(key) {
			continue
		}
		rect := r.tiles.TileRectForKey(key)
		idx := r.layers.LayersInRect(rect)
		layers := make([]Layer, len(idx))
		for i, li := range idx {
			layers[i] = r.layers.At(li)
		}
		img, err := rz.RasterizeTile(rect, r.tiles.ZoomForLevel(key.Level), r.scene.Background, layers)
		if err != nil {
			return n, fmt.Errorf("birch: rasterize tile %v: %w", key, err)
		}
		r.tiles.Insert(&Tile{Key: key, Image: img, Generation: r.sceneGen})
		n++
	}
	return n, nil
}
