package birch

import (
	"image"

	lru "github.com/hashicorp/golang-lru/v2"
)

type pictureOpKind uint8

const (
	opClear pictureOpKind = iota
	opView
	opPushClip
	opPopClip
	opImage
	opLayer
)

type pictureOp struct {
	kind  pictureOpKind
	color Color
	view  Transform
	rect  Rect
	image image.Image
	layer Layer
}

// Picture is a recorded sequence of painter calls that can be replayed onto
// any Painter.
type Picture struct {
	ops    []pictureOp
	bounds Rect
	layers int
}

// Replay issues the recorded calls to p in order.
func (pic *Picture) Replay(p Painter) {
	for _, op := range pic.ops {
		switch op.kind {
		case opClear:
			p.Clear(op.color)
		case opView:
			p.SetView(op.view)
		case opPushClip:
			p.PushClip(op.rect)
		case opPopClip:
			p.PopClip()
		case opImage:
			p.DrawImage(op.image, op.rect)
		case opLayer:
			p.PaintLayer(op.layer)
		}
	}
}

// Bounds returns the union of the recorded layer envelopes.
func (pic *Picture) Bounds() Rect { return pic.bounds }

// LayerCount returns the number of recorded layers.
func (pic *Picture) LayerCount() int { return pic.layers }

// Recorder is a Painter that records into a Picture.
type Recorder struct {
	pic Picture
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Clear implements Painter.
func (r *Recorder) Clear(c Color) {
	r.pic.ops = append(r.pic.ops, pictureOp{kind: opClear, color: c})
}

// SetView implements Painter.
func (r *Recorder) SetView(view Transform) {
	r.pic.ops = append(r.pic.ops, pictureOp{kind: opView, view: view})
}

// PushClip implements Painter.
func (r *Recorder) PushClip(rect Rect) {
	r.pic.ops = append(r.pic.ops, pictureOp{kind: opPushClip, rect: rect})
}

// PopClip implements Painter.
func (r *Recorder) PopClip() {
	r.pic.ops = append(r.pic.ops, pictureOp{kind: opPopClip})
}

// DrawImage implements Painter.
func (r *Recorder) DrawImage(img image.Image, dst Rect) {
	r.pic.ops = append(r.pic.ops, pictureOp{kind: opImage, image: img, rect: dst})
}

// PaintLayer implements Painter.
func (r *Recorder) PaintLayer(l Layer) {
	b := l.Base().Bounds
	if r.pic.layers == 0 {
		r.pic.bounds = b
	} else {
		r.pic.bounds = r.pic.bounds.Union(b)
	}
	r.pic.layers++
	r.pic.ops = append(r.pic.ops, pictureOp{kind: opLayer, layer: l})
}

// Finish returns the recorded picture and resets the recorder.
func (r *Recorder) Finish() *Picture {
	pic := r.pic
	r.pic = Picture{}
	return &pic
}

// --- PictureCache ---

// WholeScene is the PictureCacheStrategy depth that records the scene as a
// single picture keyed by SceneKey.
const WholeScene = -1

// SceneKey is the PictureCache key of the whole-scene picture.
const SceneKey NodeID = 0

// PictureCacheStrategy chooses the granularity of recorded pictures.
type PictureCacheStrategy struct {
	// Depth is the deepest tree level that gets its own picture; each
	// picture holds that node's whole subtree. WholeScene records one
	// picture for everything.
	Depth int
	// MaxPictures bounds the cache; the least recently used picture is
	// evicted beyond it.
	MaxPictures int
}

// DefaultPictureCacheStrategy records one picture per root node and keeps
// at most 4096 pictures.
func DefaultPictureCacheStrategy() PictureCacheStrategy {
	return PictureCacheStrategy{Depth: 0, MaxPictures: 4096}
}

// PictureCache memoizes recorded pictures by node id. It holds no
// authoritative data; clearing it only costs re-recording.
//
// A PictureCache is not safe for concurrent use.
type PictureCache struct {
	strategy     PictureCacheStrategy
	pictures     *lru.Cache[NodeID, *Picture]
	hits, misses int
}

// NewPictureCache returns an empty cache. A non-positive MaxPictures uses
// the default bound.
func NewPictureCache(strategy PictureCacheStrategy) *PictureCache {
	if strategy.MaxPictures <= 0 {
		strategy.MaxPictures = DefaultPictureCacheStrategy().MaxPictures
	}
	pictures, err := lru.New[NodeID, *Picture](strategy.MaxPictures)
	if err != nil {
		// Only returned for a non-positive size.
		panic("birch: " + err.Error())
	}
	return &PictureCache{strategy: strategy, pictures: pictures}
}

// Strategy returns the cache strategy.
func (pc *PictureCache) Strategy() PictureCacheStrategy { return pc.strategy }

// NodePicture returns the picture recorded for id and marks it recently
// used.
func (pc *PictureCache) NodePicture(id NodeID) (*Picture, bool) {
	pic, ok := pc.pictures.Get(id)
	if ok {
		pc.hits++
	} else {
		pc.misses++
	}
	return pic, ok
}

// SetNodePicture stores pic for id, evicting the least recently used
// picture when full.
func (pc *PictureCache) SetNodePicture(id NodeID, pic *Picture) {
	pc.pictures.Add(id, pic)
}

// Invalidate removes every picture.
func (pc *PictureCache) Invalidate() {
	pc.pictures.Purge()
}

// Len returns the number of cached pictures.
func (pc *PictureCache) Len() int { return pc.pictures.Len() }

// Stats returns the lookup hits and misses since the last ResetStats.
func (pc *PictureCache) Stats() (hits, misses int) { return pc.hits, pc.misses }

// ResetStats zeroes the hit and miss counters.
func (pc *PictureCache) ResetStats() { pc.hits, pc.misses = 0, 0 }

// pictureKey returns the node whose picture holds the layer at id for the
// given strategy depth.
func pictureKey(geo *GeometryCache, id NodeID, depth int) NodeID {
	if depth < 0 {
		return SceneKey
	}
	e, ok := geo.entries[id]
	if !ok {
		return id
	}
	for e.Depth > depth {
		id = e.Parent
		e = geo.entries[id]
	}
	return id
}
