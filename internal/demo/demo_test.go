package demo

import (
	"testing"

	"github.com/phanxgames/birch"
)

func TestBoardBuilds(t *testing.T) {
	s := Board(3, 2)
	if len(s.Roots) != 6 {
		t.Fatalf("roots = %d, want 6", len(s.Roots))
	}
	geo := birch.NewGeometryCache(s, nil)
	if errs := geo.Errors(); len(errs) != 0 {
		t.Fatalf("geometry errors: %v", errs)
	}
	ll := birch.NewLayerList(s, geo)
	if ll.Len() == 0 {
		t.Fatal("no layers")
	}
	sz := Size(3, 2)
	if sz.Width != 3*CardWidth+2*cardGap || sz.Height != 2*CardHeight+cardGap {
		t.Errorf("size = %+v", sz)
	}
}
