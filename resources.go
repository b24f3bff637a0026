package birch

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync"

	// Decoders for ImageRepository.Decode.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/sync/errgroup"
)

// --- ImageRepository ---

// ImageRepository stores mipmapped images by source key.
//
// An ImageRepository is not safe for concurrent use.
type ImageRepository struct {
	images     map[string]*ImageMipmaps
	config     MipmapConfig
	generation uint64
}

// NewImageRepository returns an empty repository building mipmaps with cfg.
func NewImageRepository(cfg MipmapConfig) *ImageRepository {
	return &ImageRepository{images: make(map[string]*ImageMipmaps), config: cfg}
}

// Insert builds mipmaps for img and stores them under src.
func (r *ImageRepository) Insert(src string, img image.Image) {
	r.images[src] = NewImageMipmaps(img, r.config)
	r.generation++
}

// Decode decodes PNG, JPEG or WebP data and stores it under src.
func (r *ImageRepository) Decode(src string, data []byte) error {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("birch: decode image %q: %w", src, err)
	}
	r.Insert(src, img)
	return nil
}

// Get returns the mipmaps stored under src.
func (r *ImageRepository) Get(src string) (*ImageMipmaps, bool) {
	mm, ok := r.images[src]
	return mm, ok
}

// Remove deletes src.
func (r *ImageRepository) Remove(src string) {
	if _, ok := r.images[src]; ok {
		delete(r.images, src)
		r.generation++
	}
}

// Len returns the number of stored images.
func (r *ImageRepository) Len() int { return len(r.images) }

// Generation advances on every insert and removal.
func (r *ImageRepository) Generation() uint64 { return r.generation }

// --- FontRepository ---

type faceKey struct {
	family string
	size   float64
}

// FontRepository stores parsed OpenType fonts by family and caches faces
// per size. Families without a font fall back to basicfont. It implements
// TextMeasurer.
//
// A FontRepository is not safe for concurrent use.
type FontRepository struct {
	fonts      map[string]*opentype.Font
	faces      map[faceKey]font.Face
	generation uint64
}

// NewFontRepository returns an empty repository.
func NewFontRepository() *FontRepository {
	return &FontRepository{
		fonts: make(map[string]*opentype.Font),
		faces: make(map[faceKey]font.Face),
	}
}

// AddFont parses TTF or OTF data and registers it as family. Text sizes may
// change, so the generation advances.
func (r *FontRepository) AddFont(family string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("birch: parse font %q: %w", family, err)
	}
	r.fonts[family] = f
	for k, face := range r.faces {
		if k.family == family {
			_ = face.Close()
			delete(r.faces, k)
		}
	}
	r.generation++
	return nil
}

// Has reports whether family has a registered font.
func (r *FontRepository) Has(family string) bool {
	_, ok := r.fonts[family]
	return ok
}

// Len returns the number of registered families.
func (r *FontRepository) Len() int { return len(r.fonts) }

// Generation advances whenever a font is added.
func (r *FontRepository) Generation() uint64 { return r.generation }

// FontFace implements TextMeasurer.
func (r *FontRepository) FontFace(family string, size float64) FontFace {
	f, ok := r.fonts[family]
	if !ok {
		return fallbackFace(size)
	}
	k := faceKey{family, size}
	if face, ok := r.faces[k]; ok {
		return FontFace{Face: face, Scale: 1}
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return fallbackFace(size)
	}
	r.faces[k] = face
	return FontFace{Face: face, Scale: 1}
}

// --- Loader ---

// ResourceKind tells the renderer where a fetched resource goes.
type ResourceKind uint8

const (
	ResourceImage ResourceKind = iota
	ResourceFont
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceImage:
		return "image"
	case ResourceFont:
		return "font"
	}
	return "unknown"
}

// Fetcher retrieves resource bytes. It runs on loader goroutines.
type Fetcher interface {
	Fetch(ctx context.Context, kind ResourceKind, key string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, kind ResourceKind, key string) ([]byte, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, kind ResourceKind, key string) ([]byte, error) {
	return f(ctx, kind, key)
}

// LoadResult is one finished fetch.
type LoadResult struct {
	Kind  ResourceKind
	Key   string
	Data  []byte
	Err   error
	token uint64
}

type requestKey struct {
	kind ResourceKind
	key  string
}

// DefaultLoaderParallelism bounds concurrent fetches when NewLoader is given
// a non-positive limit.
const DefaultLoaderParallelism = 4

// Loader runs fetches in the background and hands their results back to the
// frame loop through Drain. Requesting a key again supersedes the earlier
// request; its result is dropped when drained.
type Loader struct {
	fetcher Fetcher
	group   errgroup.Group
	results chan LoadResult
	pending sync.WaitGroup

	mu     sync.Mutex
	tokens map[requestKey]uint64
	next   uint64
}

// NewLoader returns a loader running at most parallelism fetches at once.
func NewLoader(fetcher Fetcher, parallelism int) *Loader {
	if parallelism <= 0 {
		parallelism = DefaultLoaderParallelism
	}
	l := &Loader{
		fetcher: fetcher,
		results: make(chan LoadResult, 64),
		tokens:  make(map[requestKey]uint64),
	}
	l.group.SetLimit(parallelism)
	return l
}

// Request starts fetching key in the background. ctx is passed to the
// Fetcher.
func (l *Loader) Request(ctx context.Context, kind ResourceKind, key string) {
	l.mu.Lock()
	l.next++
	token := l.next
	l.tokens[requestKey{kind, key}] = token
	l.mu.Unlock()

	l.pending.Add(1)
	go func() {
		defer l.pending.Done()
		l.group.Go(func() error {
			data, err := l.fetcher.Fetch(ctx, kind, key)
			l.results <- LoadResult{Kind: kind, Key: key, Data: data, Err: err, token: token}
			return nil
		})
	}()
}

// Drain returns every finished result without blocking. Results of
// superseded requests are dropped and counted in stale.
func (l *Loader) Drain() (results []LoadResult, stale int) {
	for {
		select {
		case r := <-l.results:
			rk := requestKey{r.Kind, r.Key}
			l.mu.Lock()
			current, ok := l.tokens[rk]
			if ok && current == r.token {
				delete(l.tokens, rk)
			}
			l.mu.Unlock()
			if !ok || current != r.token {
				stale++
				continue
			}
			results = append(results, r)
		default:
			return results, stale
		}
	}
}

// Pending returns the number of requests whose result has not been drained.
func (l *Loader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tokens)
}

// Wait blocks until every requested fetch has finished. Results stay
// queued for Drain; the queue holds 64 results, so drain while waiting on
// larger batches.
func (l *Loader) Wait() {
	l.pending.Wait()
	_ = l.group.Wait()
}
