package birch

import "testing"

func rectsArea(rs []Rect) float64 {
	var a float64
	for _, r := range rs {
		a += r.Width * r.Height
	}
	return a
}

func TestRectDifference(t *testing.T) {
	base := Rect{Width: 100, Height: 100}
	tests := []struct {
		name      string
		cut       []Rect
		wantCount int
		wantArea  float64
	}{
		{"no cut", nil, 1, 10000},
		{"disjoint", []Rect{{X: 200, Y: 200, Width: 10, Height: 10}}, 1, 10000},
		{"center hole", []Rect{{X: 25, Y: 25, Width: 50, Height: 50}}, 4, 7500},
		{"covers all", []Rect{{X: -10, Y: -10, Width: 200, Height: 200}}, 0, 0},
		{"two halves", []Rect{{Width: 50, Height: 100}, {X: 50, Width: 50, Height: 100}}, 0, 0},
		{"left strip", []Rect{{X: -5, Y: -5, Width: 30, Height: 200}}, 1, 7500},
		{"touching edge", []Rect{{X: 100, Width: 10, Height: 100}}, 1, 10000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rectDifference(base, tt.cut)
			if len(got) != tt.wantCount {
				t.Fatalf("rects = %v, want %d", got, tt.wantCount)
			}
			assertNear(t, "area", rectsArea(got), tt.wantArea)
			for i, a := range got {
				for _, b := range got[i+1:] {
					if in, ok := a.Intersection(b); ok && in.Width > rectEpsilon && in.Height > rectEpsilon {
						t.Errorf("%v overlaps %v", a, b)
					}
				}
			}
		})
	}
}

func TestRectDifferenceBands(t *testing.T) {
	got := rectDifference(Rect{Width: 100, Height: 100}, []Rect{{X: 25, Y: 25, Width: 50, Height: 50}})
	want := []Rect{
		{Width: 100, Height: 25},
		{Y: 75, Width: 100, Height: 25},
		{Y: 25, Width: 25, Height: 50},
		{X: 75, Y: 25, Width: 25, Height: 50},
	}
	for i := range want {
		assertRect(t, "band", got[i], want[i])
	}
}

func TestPictureGroups(t *testing.T) {
	keys := []NodeID{1, 1, 2, 2, 1}
	got := pictureGroups(keys, []int{0, 1, 2, 4})
	want := [][]int{{0, 1}, {2}, {4}}
	if len(got) != len(want) {
		t.Fatalf("groups = %v, want %v", got, want)
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Fatalf("groups = %v, want %v", got, want)
		}
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Fatalf("groups = %v, want %v", got, want)
			}
		}
	}
	if pictureGroups(keys, nil) != nil {
		t.Error("no layers should give no groups")
	}
}

func TestPlanRegionsSkipsEmpty(t *testing.T) {
	s := NewScene("regions", nil)
	r := NewRectangle("rect", 10, 10)
	s.Insert(0, r)
	_, ll := buildLayers(s)

	regions := planRegions(ll, Rect{X: -50, Y: -50, Width: 100, Height: 100}, []Rect{{X: -50, Y: -50, Width: 40, Height: 100}})
	if len(regions) != 1 {
		t.Fatalf("regions = %d, want 1", len(regions))
	}
	if len(regions[0].Layers) != 1 {
		t.Errorf("layers = %v, want one", regions[0].Layers)
	}
}
