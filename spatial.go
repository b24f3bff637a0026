package birch

import (
	"slices"

	"github.com/tidwall/rtree"
)

// SpatialIndex is an R-tree over layer envelopes. Values are layer indices
// into the owning LayerList.
//
// A SpatialIndex is not safe for concurrent use.
type SpatialIndex struct {
	tree rtree.RTreeG[int]
}

func envelope(r Rect) (min, max [2]float64) {
	return [2]float64{r.X, r.Y}, [2]float64{r.Right(), r.Bottom()}
}

// Insert adds layer index i with envelope r.
func (s *SpatialIndex) Insert(r Rect, i int) {
	min, max := envelope(r)
	s.tree.Insert(min, max, i)
}

// Len returns the number of indexed envelopes.
func (s *SpatialIndex) Len() int { return s.tree.Len() }

// Query returns the indices whose envelope intersects r, ascending.
// Touching edges count as intersecting.
func (s *SpatialIndex) Query(r Rect) []int {
	var out []int
	min, max := envelope(r)
	s.tree.Search(min, max, func(_, _ [2]float64, i int) bool {
		out = append(out, i)
		return true
	})
	slices.Sort(out)
	return out
}

// QueryPoint returns the indices whose envelope contains (x, y), ascending.
func (s *SpatialIndex) QueryPoint(x, y float64) []int {
	return s.Query(Rect{X: x, Y: y})
}
