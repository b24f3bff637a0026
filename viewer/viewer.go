package viewer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/birch"
	"github.com/phanxgames/birch/raster"
)

// Viewer shows a birch scene in an ebiten window. It implements ebiten.Game:
// drag to pan, wheel to zoom, click to pick.
type Viewer struct {
	cfg      Config
	ctx      context.Context
	log      *slog.Logger
	renderer *birch.Renderer
	camera   *birch.Camera
	canvas   *raster.Canvas
	frame    *ebiten.Image
	sink     EventSink

	pointer      pointerState
	dragDeadZone float64
	zoomGoal     float64

	injectQueue     []syntheticPointerEvent
	script          *ScriptRunner
	screenshotQueue []string
	screenshots     []string

	fps       fpsOverlay
	stats     birch.DrawStats
	needsDraw bool
	uploaded  bool
}

// New returns a viewer for scene. The camera starts centered on the scene's
// content at cfg.Zoom. A nil logger uses the renderer's default.
func New(ctx context.Context, cfg Config, scene *birch.Scene, log *slog.Logger) *Viewer {
	opts := cfg.RendererOptions()
	opts.Logger = log
	r := birch.NewRenderer(opts)
	r.LoadScene(scene)

	cam := birch.NewCamera(birch.Rect{Width: float64(cfg.Width), Height: float64(cfg.Height)})
	cam.Zoom = cfg.Zoom
	cam.MinZoom, cam.MaxZoom = 0.01, 256
	if b, ok := contentBounds(r); ok {
		cam.X, cam.Y = b.X+b.Width/2, b.Y+b.Height/2
	}

	return &Viewer{
		cfg:          cfg,
		ctx:          ctx,
		log:          r.Logger(),
		renderer:     r,
		camera:       cam,
		canvas:       raster.NewCanvas(r, cfg.Width, cfg.Height),
		dragDeadZone: defaultDragDeadZone,
		needsDraw:    true,
	}
}

// contentBounds returns the union of the scene roots' subtree bounds.
func contentBounds(r *birch.Renderer) (birch.Rect, bool) {
	scene, geo := r.Scene(), r.Geometry()
	if scene == nil || geo == nil {
		return birch.Rect{}, false
	}
	var out birch.Rect
	found := false
	for _, id := range scene.Roots {
		b, ok := geo.SubtreeBounds(id)
		if !ok {
			continue
		}
		if !found {
			out, found = b, true
			continue
		}
		out = out.Union(b)
	}
	return out, found
}

// Renderer returns the viewer's renderer.
func (v *Viewer) Renderer() *birch.Renderer { return v.renderer }

// Camera returns the viewer's camera.
func (v *Viewer) Camera() *birch.Camera { return v.camera }

// SetEventSink routes pick events to sink.
func (v *Viewer) SetEventSink(sink EventSink) { v.sink = sink }

// SetScript attaches a script runner.
func (v *Viewer) SetScript(r *ScriptRunner) { v.script = r }

// SetDragDeadZone sets how far, in pixels, the pointer must move before a
// press becomes a pan.
func (v *Viewer) SetDragDeadZone(pixels float64) { v.dragDeadZone = pixels }

// Screenshot queues a PNG capture of the next rendered frame.
func (v *Viewer) Screenshot(label string) {
	v.screenshotQueue = append(v.screenshotQueue, label)
}

// Screenshots returns the paths written so far.
func (v *Viewer) Screenshots() []string { return v.screenshots }

// Update implements ebiten.Game.
func (v *Viewer) Update() error {
	dt := float32(1.0 / float64(ebiten.TPS()))
	v.tick(dt, true)
	if v.cfg.ShowFPS {
		v.fps.update(float64(dt), v.stats)
	}
	if v.cfg.ExitAfterScript && v.script != nil && v.script.Done() && len(v.screenshotQueue) == 0 {
		v.log.Info("script finished", "screenshots", len(v.screenshots))
		return ebiten.Termination
	}
	return nil
}

// tick runs one frame of logic. pollMouse is off in tests, where only
// injected input drives the pointer.
func (v *Viewer) tick(dt float32, pollMouse bool) {
	if n := v.renderer.DrainResources(); n > 0 {
		v.log.Debug("resources stored", "count", n)
	}
	v.renderer.RequestMissing(v.ctx)

	if v.script != nil {
		v.script.step(v)
	}
	if !v.processInjectedInput() && pollMouse {
		v.pollInput()
	}
	v.camera.Update(dt, v.renderer.Geometry())

	if v.renderer.Rebuild() {
		v.needsDraw = true
	}
	if v.renderer.SetCamera(v.camera) || v.camera.Animating() {
		v.needsDraw = true
	}
	if len(v.screenshotQueue) > 0 {
		v.needsDraw = true
	}
}

// render paints a new frame into the canvas when anything changed and
// writes queued screenshots. It reports whether a frame was painted.
func (v *Viewer) render() (bool, error) {
	if !v.needsDraw {
		return false, nil
	}
	st, err := v.canvas.Render(v.camera)
	if err != nil {
		return false, err
	}
	v.stats = st
	v.needsDraw = false
	v.flushScreenshots()
	return true, nil
}

// flushScreenshots writes the current canvas for every queued label.
func (v *Viewer) flushScreenshots() {
	for _, label := range v.screenshotQueue {
		path, err := raster.WriteScreenshot(v.cfg.ScreenshotDir, label, v.canvas.Image())
		if err != nil {
			v.log.Error("screenshot failed", "label", label, "err", err)
			continue
		}
		v.screenshots = append(v.screenshots, path)
		v.log.Info("screenshot", "path", path)
	}
	v.screenshotQueue = v.screenshotQueue[:0]
}

// Draw implements ebiten.Game.
func (v *Viewer) Draw(screen *ebiten.Image) {
	painted, err := v.render()
	if err != nil {
		v.log.Error("render failed", "err", err)
	}
	img := v.canvas.Image()
	if v.frame == nil || v.frame.Bounds() != img.Bounds() {
		v.frame = ebiten.NewImage(img.Bounds().Dx(), img.Bounds().Dy())
		v.uploaded = false
	}
	if painted || !v.uploaded {
		v.frame.WritePixels(img.Pix)
		v.uploaded = true
	}
	screen.DrawImage(v.frame, nil)
	if v.cfg.ShowFPS {
		v.fps.draw(screen)
	}
}

// Layout implements ebiten.Game. A window resize resizes the canvas and
// the camera viewport.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	v.resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func (v *Viewer) resize(w, h int) {
	vp := birch.Rect{Width: float64(w), Height: float64(h)}
	if v.camera.Viewport == vp {
		return
	}
	v.camera.Viewport = vp
	v.camera.MarkDirty()
	v.canvas.Resize(w, h)
	v.needsDraw = true
}

// Run opens the window and blocks until it is closed or the script ends.
func (v *Viewer) Run() error {
	ebiten.SetWindowTitle(v.cfg.Title)
	ebiten.SetWindowSize(v.cfg.Width, v.cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(v); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("viewer: run: %w", err)
	}
	return nil
}
