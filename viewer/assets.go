package viewer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/phanxgames/birch"
)

// fontExts are tried in order when a font family is looked up on disk.
var fontExts = []string{".ttf", ".otf"}

// DirFetcher returns a Fetcher that reads images from dir by their source
// key and fonts from dir/<family>.ttf or .otf.
func DirFetcher(dir string) birch.Fetcher {
	return birch.FetcherFunc(func(ctx context.Context, kind birch.ResourceKind, key string) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if kind != birch.ResourceFont {
			return readAsset(dir, key)
		}
		for _, ext := range fontExts {
			data, err := readAsset(dir, key+ext)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return data, err
		}
		return nil, fmt.Errorf("viewer: font %q not found in %s: %w", key, dir, fs.ErrNotExist)
	})
}

func readAsset(dir, key string) ([]byte, error) {
	if !filepath.IsLocal(filepath.FromSlash(key)) {
		return nil, fmt.Errorf("viewer: asset key %q escapes %s", key, dir)
	}
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	if err != nil {
		return nil, fmt.Errorf("viewer: read asset: %w", err)
	}
	return data, nil
}
