// Package assets loads and serves the optional imagery a map references:
// background images and stickers. Refs are file names inside the asset
// directory; a missing or undecodable ref is reported to the caller, never
// fatal, so the affected layer can simply render as absent.
package assets

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"

	"hexcarta/internal/logx"
)

// Library caches decoded images by ref.
type Library struct {
	dir   string
	log   logx.Logger
	cache map[string]image.Image
}

// NewLibrary builds a library rooted at dir.
func NewLibrary(dir string, log logx.Logger) *Library {
	if log == nil {
		log = logx.Nop()
	}
	return &Library{dir: dir, log: log, cache: make(map[string]image.Image)}
}

// Dir returns the library root.
func (l *Library) Dir() string { return l.dir }

// Load decodes the image a ref names. Plain refs resolve inside the
// library directory; refs carrying a path separator are used as-is, which
// covers images picked through the file dialog.
func (l *Library) Load(ref string) (image.Image, error) {
	if ref == "" {
		return nil, fmt.Errorf("empty asset ref")
	}
	if img, ok := l.cache[ref]; ok {
		return img, nil
	}

	path := ref
	if !strings.ContainsRune(ref, os.PathSeparator) && !strings.ContainsRune(ref, '/') {
		path = filepath.Join(l.dir, ref)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("asset %q: %w", ref, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode asset %q: %w", ref, err)
	}
	l.cache[ref] = img
	l.log.Debugf("asset %q loaded (%dx%d)", ref, img.Bounds().Dx(), img.Bounds().Dy())
	return img, nil
}

// Scaled returns the ref's image resampled to w×h, cached per size.
func (l *Library) Scaled(ref string, w, h int) (image.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("asset %q: bad target size %dx%d", ref, w, h)
	}
	key := fmt.Sprintf("%s|%dx%d", ref, w, h)
	if img, ok := l.cache[key]; ok {
		return img, nil
	}

	src, err := l.Load(ref)
	if err != nil {
		return nil, err
	}
	if src.Bounds().Dx() == w && src.Bounds().Dy() == h {
		return src, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	l.cache[key] = dst
	return dst, nil
}

// Evict drops a ref (and its scaled variants) from the cache, for when an
// asset file is replaced on disk.
func (l *Library) Evict(ref string) {
	for key := range l.cache {
		if key == ref || strings.HasPrefix(key, ref+"|") {
			delete(l.cache, key)
		}
	}
}
