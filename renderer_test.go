package birch

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// twoRootScene has rects a at (0,0) and b at (100,0), each 50x50 and its own
// root.
func twoRootScene() (*Scene, NodeID, NodeID) {
	s := NewScene("render", nil)
	a, _ := s.Insert(0, NewRectangle("a", 50, 50))
	b := NewRectangle("b", 50, 50)
	b.SetPosition(100, 0)
	bid, _ := s.Insert(0, b)
	return s, a, bid
}

// originCamera shows world {0,0,800,600}.
func originCamera() *Camera {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	cam.X, cam.Y = 400, 300
	return cam
}

type fakeRasterizer struct {
	calls  int
	layers int
	err    error
}

func (f *fakeRasterizer) RasterizeTile(rect Rect, zoom float64, bg Color, layers []Layer) (image.Image, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls++
	f.layers += len(layers)
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

func TestRendererWithoutScene(t *testing.T) {
	r := NewRenderer(RendererOptions{Logger: quietLogger()})
	if r.Rebuild() {
		t.Error("Rebuild without a scene reported work")
	}
	plan := r.Plan(originCamera())
	var p opLog
	st := r.Draw(&p, plan)
	if st.Regions != 0 || len(p.ops) != 2 {
		t.Errorf("ops = %v, want clear and view", p.ops)
	}
}

func TestRendererRebuildSkipsWhenUnchanged(t *testing.T) {
	s, _, _ := twoRootScene()
	r := NewRenderer(RendererOptions{Logger: quietLogger()})
	r.LoadScene(s)
	geo := r.Geometry()

	if r.Rebuild() {
		t.Error("Rebuild reported work for an unchanged scene")
	}
	if r.Geometry() != geo {
		t.Error("unchanged Rebuild replaced the geometry cache")
	}

	s.Nodes.MarkChanged()
	if !r.Rebuild() || r.Geometry() == geo {
		t.Error("Rebuild ignored a scene edit")
	}

	geo = r.Geometry()
	if err := r.Fonts().AddFont("Go", goregular.TTF); err != nil {
		t.Fatal(err)
	}
	if !r.Rebuild() || r.Geometry() == geo {
		t.Error("Rebuild ignored a new font")
	}
}

func TestRendererSetCamera(t *testing.T) {
	r := NewRenderer(RendererOptions{Logger: quietLogger()})
	cam := originCamera()
	if !r.SetCamera(cam) {
		t.Error("first SetCamera reported no change")
	}
	if r.SetCamera(cam) {
		t.Error("unchanged camera reported a change")
	}
	cam.Pan(10, 0)
	if !r.SetCamera(cam) {
		t.Error("panned camera reported no change")
	}
}

func TestRendererPlanAndDraw(t *testing.T) {
	s, a, b := twoRootScene()
	r := NewRenderer(RendererOptions{Logger: quietLogger()})
	r.LoadScene(s)

	plan := r.Plan(originCamera())
	if !plan.RepaintAll || len(plan.Regions) != 1 {
		t.Fatalf("plan = %+v, want one region repainted", plan)
	}
	if plan.LayerCount() != 2 {
		t.Errorf("LayerCount = %d, want 2", plan.LayerCount())
	}

	var p opLog
	st := r.Draw(&p, plan)
	if st.PicturesRecorded != 2 || st.PicturesUsed != 2 {
		t.Errorf("first draw: recorded %d, used %d; want 2, 2", st.PicturesRecorded, st.PicturesUsed)
	}
	assertIDs(t, "painted", p.layers, []NodeID{a, b})
	if p.ops[0] != "clear" || p.ops[1] != "view" || p.ops[2] != "push" || p.ops[len(p.ops)-1] != "pop" {
		t.Errorf("ops = %v", p.ops)
	}
	if p.clips != 0 {
		t.Errorf("unbalanced clips: %d", p.clips)
	}

	p = opLog{}
	st = r.Draw(&p, r.Plan(originCamera()))
	if st.PicturesRecorded != 0 || st.PicturesUsed != 2 {
		t.Errorf("second draw: recorded %d, used %d; want 0, 2", st.PicturesRecorded, st.PicturesUsed)
	}
	if st.PictureCount != 2 || st.GeometryCount != 2 {
		t.Errorf("counts = %d pictures, %d geometry", st.PictureCount, st.GeometryCount)
	}

	s.Nodes.MarkChanged()
	r.Rebuild()
	if r.Pictures().Len() != 0 {
		t.Error("rebuild kept stale pictures")
	}
}

func TestRendererWholeScenePicture(t *testing.T) {
	s, _, _ := twoRootScene()
	r := NewRenderer(RendererOptions{Logger: quietLogger(), Pictures: PictureCacheStrategy{Depth: WholeScene}})
	r.LoadScene(s)
	var p opLog
	st := r.Draw(&p, r.Plan(originCamera()))
	if st.PicturesRecorded != 1 || len(p.layers) != 2 {
		t.Errorf("recorded %d pictures painting %d layers; want 1, 2", st.PicturesRecorded, len(p.layers))
	}
}

func TestRendererOffscreenRegion(t *testing.T) {
	s, _, _ := twoRootScene()
	r := NewRenderer(RendererOptions{Logger: quietLogger()})
	r.LoadScene(s)
	cam := originCamera()
	cam.X, cam.Y = 5000, 5000
	plan := r.Plan(cam)
	if len(plan.Regions) != 0 {
		t.Errorf("regions = %d, want none far from the content", len(plan.Regions))
	}
}

func TestRendererTiles(t *testing.T) {
	s, _, _ := twoRootScene()
	st := DefaultTileCacheStrategy()
	r := NewRenderer(RendererOptions{Logger: quietLogger(), Tiles: &st})
	r.LoadScene(s)

	plan := r.Plan(originCamera())
	if len(plan.Requires) != 1 || plan.Requires[0] != (TileKey{Level: 8}) {
		t.Fatalf("Requires = %v, want the level 8 origin tile", plan.Requires)
	}
	if !plan.RepaintAll {
		t.Error("RepaintAll unset with no tiles cached")
	}

	rz := &fakeRasterizer{}
	n, err := r.RenderTiles(rz, plan, 0)
	if err != nil || n != 1 {
		t.Fatalf("RenderTiles = %d, %v", n, err)
	}
	if rz.layers != 2 {
		t.Errorf("rasterized %d layers, want 2", rz.layers)
	}
	if n, _ := r.RenderTiles(rz, plan, 0); n != 0 {
		t.Errorf("cached tile rendered again")
	}

	plan = r.Plan(originCamera())
	if plan.RepaintAll || len(plan.Tiles) != 1 || len(plan.Regions) != 0 {
		t.Fatalf("plan = %+v, want the tile covering everything", plan)
	}
	var p opLog
	ds := r.Draw(&p, plan)
	if ds.TilesUsed != 1 || ds.TilesTotal != 1 || len(p.layers) != 0 {
		t.Errorf("draw stats = %+v, layers %d", ds, len(p.layers))
	}

	r.Images().Insert("x.png", image.NewRGBA(image.Rect(0, 0, 1, 1)))
	if r.Rebuild() {
		t.Error("image change rebuilt geometry")
	}
	if r.Tiles().Len() != 0 {
		t.Error("image change kept tiles")
	}
}

func TestRendererTilesOffAboveZoomOne(t *testing.T) {
	s, _, _ := twoRootScene()
	st := DefaultTileCacheStrategy()
	r := NewRenderer(RendererOptions{Logger: quietLogger(), Tiles: &st})
	r.LoadScene(s)
	cam := originCamera()
	cam.Zoom = 2
	plan := r.Plan(cam)
	if len(plan.Requires) != 0 || !plan.RepaintAll {
		t.Errorf("plan = %+v, want no tiles above zoom 1", plan)
	}
	if n, err := r.RenderTiles(&fakeRasterizer{}, plan, 0); n != 0 || err != nil {
		t.Errorf("RenderTiles = %d, %v", n, err)
	}
}

func TestRendererRenderTilesError(t *testing.T) {
	s, _, _ := twoRootScene()
	st := DefaultTileCacheStrategy()
	r := NewRenderer(RendererOptions{Logger: quietLogger(), Tiles: &st})
	r.LoadScene(s)
	boom := errors.New("boom")
	_, err := r.RenderTiles(&fakeRasterizer{err: boom}, r.Plan(originCamera()), 0)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
	if !strings.HasPrefix(err.Error(), "birch: rasterize tile") {
		t.Errorf("err = %q", err)
	}
}

func TestRendererResources(t *testing.T) {
	img := pngBytes(t, 4, 4)
	fetch := FetcherFunc(func(_ context.Context, kind ResourceKind, key string) ([]byte, error) {
		if kind == ResourceFont {
			return goregular.TTF, nil
		}
		return img, nil
	})
	s := NewScene("resources", nil)
	s.Insert(0, NewImage("photo", "photo.png", 10, 10))
	s.Insert(0, NewTextSpan("label", "hi", TextStyle{FontFamily: "Go", FontSize: 12}))
	s.Insert(0, NewTextSpan("plain", "hi", TextStyle{}))

	r := NewRenderer(RendererOptions{Logger: quietLogger(), Fetcher: fetch})
	r.LoadScene(s)
	ctx := context.Background()
	if n := r.RequestMissing(ctx); n != 2 {
		t.Fatalf("RequestMissing = %d, want 2", n)
	}
	if n := r.RequestMissing(ctx); n != 0 {
		t.Errorf("repeated RequestMissing = %d, want 0", n)
	}
	r.loader.Wait()
	if n := r.DrainResources(); n != 2 {
		t.Fatalf("DrainResources = %d, want 2", n)
	}
	if _, ok := r.Images().Get("photo.png"); !ok || !r.Fonts().Has("Go") {
		t.Error("resources not stored")
	}
	if !r.Rebuild() {
		t.Error("new font did not trigger a rebuild")
	}
}

func TestRendererRejectedResourceLogged(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	fetch := FetcherFunc(func(context.Context, ResourceKind, string) ([]byte, error) {
		return []byte("garbage"), nil
	})
	r := NewRenderer(RendererOptions{Logger: log, Fetcher: fetch})
	r.Request(context.Background(), ResourceImage, "bad.png")
	r.loader.Wait()
	if n := r.DrainResources(); n != 0 {
		t.Errorf("stored %d, want 0", n)
	}
	if !strings.Contains(buf.String(), "resource rejected") {
		t.Errorf("log = %q, want a rejection warning", buf.String())
	}
}
