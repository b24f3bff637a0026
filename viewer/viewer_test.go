package viewer

import (
	"context"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/phanxgames/birch"
)

const epsilon = 1e-6

func approxEqual(a, b float64) bool { return math.Abs(a-b) < epsilon }

// testViewer shows a red square at (0,0) and a blue one at (100,0), each
// 50x50, with world coordinates equal to screen coordinates.
func testViewer(t *testing.T) (*Viewer, *[]PickEvent) {
	t.Helper()
	s := birch.NewScene("viewer", nil)
	a := birch.NewRectangle("red", 50, 50)
	a.Fills = []birch.Paint{birch.Solid(birch.Color{R: 1, A: 1})}
	s.Insert(0, a)
	b := birch.NewRectangle("blue", 50, 50)
	b.SetPosition(100, 0)
	b.Fills = []birch.Paint{birch.Solid(birch.Color{B: 1, A: 1})}
	s.Insert(0, b)

	cfg := Config{Width: 200, Height: 100, Zoom: 1, ScreenshotDir: t.TempDir()}
	v := New(context.Background(), cfg, s, slog.New(slog.NewTextHandler(io.Discard, nil)))
	v.camera.X, v.camera.Y = 100, 50
	v.camera.MarkDirty()

	var picks []PickEvent
	v.SetEventSink(EventSinkFunc(func(e PickEvent) { picks = append(picks, e) }))
	return v, &picks
}

func ticks(v *Viewer, n int) {
	for i := 0; i < n; i++ {
		v.tick(1.0/60, false)
	}
}

func TestNewCentersOnContent(t *testing.T) {
	s := birch.NewScene("center", nil)
	r := birch.NewRectangle("r", 100, 40)
	r.SetPosition(200, 100)
	s.Insert(0, r)
	v := New(context.Background(), Config{Width: 10, Height: 10, Zoom: 2}, s, nil)
	if !approxEqual(v.Camera().X, 250) || !approxEqual(v.Camera().Y, 120) {
		t.Errorf("camera = (%v, %v), want (250, 120)", v.Camera().X, v.Camera().Y)
	}
	if v.Camera().Zoom != 2 {
		t.Errorf("zoom = %v, want 2", v.Camera().Zoom)
	}
}

func TestClickPicksTopmost(t *testing.T) {
	v, picks := testViewer(t)
	v.InjectClick(25, 25)
	ticks(v, 2)
	if len(*picks) != 1 {
		t.Fatalf("picks = %d, want 1", len(*picks))
	}
	e := (*picks)[0]
	if !e.Hit() || e.Name != "red" {
		t.Errorf("pick = %+v, want red", e)
	}
	if !approxEqual(e.WorldX, 25) || !approxEqual(e.WorldY, 25) {
		t.Errorf("world = (%v, %v), want (25, 25)", e.WorldX, e.WorldY)
	}
}

func TestClickMiss(t *testing.T) {
	v, picks := testViewer(t)
	v.InjectClick(75, 25)
	ticks(v, 2)
	if len(*picks) != 1 {
		t.Fatalf("picks = %d, want 1", len(*picks))
	}
	if (*picks)[0].Hit() {
		t.Errorf("pick = %+v, want miss", (*picks)[0])
	}
}

func TestDragPans(t *testing.T) {
	v, picks := testViewer(t)
	v.InjectDrag(100, 50, 150, 70, 5)
	ticks(v, 5)
	if len(*picks) != 0 {
		t.Errorf("drag emitted %d picks", len(*picks))
	}
	if !approxEqual(v.camera.X, 50) || !approxEqual(v.camera.Y, 30) {
		t.Errorf("camera = (%v, %v), want (50, 30)", v.camera.X, v.camera.Y)
	}
}

func TestDragWithinDeadZoneClicks(t *testing.T) {
	v, picks := testViewer(t)
	v.InjectDrag(20, 20, 22, 21, 3)
	ticks(v, 3)
	if len(*picks) != 1 {
		t.Fatalf("picks = %d, want 1", len(*picks))
	}
	if !approxEqual(v.camera.X, 100) {
		t.Errorf("camera.X = %v, want unchanged", v.camera.X)
	}
}

func TestInjectDragMinimumFrames(t *testing.T) {
	v, _ := testViewer(t)
	v.InjectDrag(0, 0, 10, 10, 0)
	if len(v.injectQueue) != 2 {
		t.Errorf("queue = %d, want 2", len(v.injectQueue))
	}
}

func TestWheelZoomKeepsAnchor(t *testing.T) {
	v, _ := testViewer(t)
	v.processWheel(1, 25, 25)
	if !v.camera.Animating() {
		t.Fatal("wheel did not start a tween")
	}
	ticks(v, 30)
	if v.camera.Animating() {
		t.Fatal("tween still running")
	}
	if math.Abs(v.camera.Zoom-wheelZoomFactor) > 1e-3 {
		t.Errorf("zoom = %v, want %v", v.camera.Zoom, wheelZoomFactor)
	}
	wx, wy := v.camera.ScreenToWorld(25, 25)
	if math.Abs(wx-25) > 1e-3 || math.Abs(wy-25) > 1e-3 {
		t.Errorf("anchor moved to (%v, %v)", wx, wy)
	}
}

func TestWheelCompoundsWhileAnimating(t *testing.T) {
	v, _ := testViewer(t)
	v.processWheel(1, 100, 50)
	v.processWheel(1, 100, 50)
	want := wheelZoomFactor * wheelZoomFactor
	if !approxEqual(v.zoomGoal, want) {
		t.Errorf("goal = %v, want %v", v.zoomGoal, want)
	}
}

func TestRenderOnlyWhenChanged(t *testing.T) {
	v, _ := testViewer(t)
	ticks(v, 1)
	if painted, err := v.render(); err != nil || !painted {
		t.Fatalf("first render = %v, %v", painted, err)
	}
	ticks(v, 1)
	if painted, _ := v.render(); painted {
		t.Error("rendered again with nothing changed")
	}
	v.camera.Pan(10, 0)
	ticks(v, 1)
	if painted, _ := v.render(); !painted {
		t.Error("pan did not trigger a render")
	}
	px := v.canvas.Image().RGBAAt(35, 25)
	if px.R != 255 || px.G != 0 {
		t.Errorf("pixel (35,25) = %v, want red after pan", px)
	}
}

func TestResize(t *testing.T) {
	v, _ := testViewer(t)
	ticks(v, 1)
	v.render()
	if w, h := v.Layout(300, 120); w != 300 || h != 120 {
		t.Fatalf("Layout = %d, %d", w, h)
	}
	if v.camera.Viewport.Width != 300 || v.canvas.Image().Bounds().Dx() != 300 {
		t.Error("resize not applied")
	}
	if !v.needsDraw {
		t.Error("resize did not request a frame")
	}
}

func TestScreenshotWritten(t *testing.T) {
	v, _ := testViewer(t)
	v.Screenshot("first pass")
	ticks(v, 1)
	if _, err := v.render(); err != nil {
		t.Fatal(err)
	}
	if len(v.Screenshots()) != 1 {
		t.Fatalf("screenshots = %v", v.Screenshots())
	}
	path := v.Screenshots()[0]
	if !strings.HasSuffix(path, "_first_pass.png") {
		t.Errorf("path = %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error(err)
	}
	if len(v.screenshotQueue) != 0 {
		t.Error("queue not drained")
	}
}

func TestOverlayText(t *testing.T) {
	got := overlayText(59.94, 60, birch.DrawStats{TilesUsed: 2, TilesTotal: 5, PicturesUsed: 3, PictureCount: 4})
	want := "FPS: 59.9\nTPS: 60.0\ntiles 2/5\npictures 3/4"
	if got != want {
		t.Errorf("overlayText = %q, want %q", got, want)
	}
}
