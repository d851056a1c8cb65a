package render

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"

	"temple/internal/cache"
	applog "temple/internal/log"
)

// Files looked up in the assets directory.
const (
	SetLogo     = "SET logo.png"
	Symbols     = "symbols.png"
	TempleLogo  = "temple logo.png"
	KannadaFont = "NotoSansKannada-Regular.ttf"
)

// Assets loads logos and fonts from a directory and keeps the decoded
// results in an LRU cache.
type Assets struct {
	dir    string
	cache  *cache.LRUCache[[]byte]
	logger *applog.Logger
}

func NewAssets(dir string, logger *applog.Logger) *Assets {
	return &Assets{
		dir:    dir,
		cache:  cache.NewLRUCache[[]byte](64, time.Hour),
		logger: logger.WithComponent(applog.ComponentAssets),
	}
}

// Cache exposes the asset cache for periodic sweeping.
func (a *Assets) Cache() cache.Cleaner {
	return a.cache
}

// Image returns name as a PNG fit and centered within w×h pixels. When the
// file is missing or cannot be decoded a red-X placeholder of the same size
// is returned and ok is false.
func (a *Assets) Image(name string, w, h int) (png []byte, ok bool) {
	key := name + "@" + strconv.Itoa(w) + "x" + strconv.Itoa(h)
	if data, hit := a.cache.Get(key); hit {
		return data, true
	}

	data, err := a.loadImage(name, w, h)
	if err != nil {
		a.logger.Warn("Asset image unavailable, using placeholder", applog.FieldFile, name, applog.FieldError, err)
		return Placeholder(w, h), false
	}
	a.cache.Set(key, data)
	return data, true
}

func (a *Assets) loadImage(name string, w, h int) ([]byte, error) {
	f, err := os.Open(filepath.Join(a.dir, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	fitted := imaging.Fit(img, w, h, imaging.Lanczos)
	canvas := imaging.PasteCenter(imaging.New(w, h, color.NRGBA{}), fitted)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Font returns the raw font file. ok is false when it cannot be read.
func (a *Assets) Font(name string) (data []byte, ok bool) {
	key := name + "@font"
	if data, hit := a.cache.Get(key); hit {
		return data, true
	}
	data, err := os.ReadFile(filepath.Join(a.dir, name))
	if err != nil || len(data) == 0 {
		a.logger.Warn("Font unavailable", applog.FieldFile, name, applog.FieldError, err)
		return nil, false
	}
	a.cache.Set(key, data)
	return data, true
}

// Evict drops every cached rendition of the named file.
func (a *Assets) Evict(name string) int {
	return a.cache.DeletePrefix(name + "@")
}

// Watch evicts cached assets whose files change on disk. It blocks until ctx
// is done.
func (a *Assets) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create asset watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(a.dir); err != nil {
		return fmt.Errorf("watch %s: %w", a.dir, err)
	}
	a.logger.Info("Watching assets", applog.FieldPath, a.dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Base(ev.Name)
			if n := a.Evict(name); n > 0 {
				a.logger.Info("Asset changed, cache evicted", applog.FieldFile, name, applog.FieldCount, n)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("Asset watcher error", applog.FieldError, err)
		}
	}
}

// Placeholder draws a red X on white, w×h pixels, as PNG.
func Placeholder(w, h int) []byte {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	img := imaging.New(w, h, color.White)
	red := color.NRGBA{R: 255, A: 255}

	// Strokes run corner to corner inside a 1/6 inset, about 1/9 thick.
	const inset, half = 1.0 / 6, 1.0 / 18
	for y := 0; y < h; y++ {
		v := (float64(y) + 0.5) / float64(h)
		for x := 0; x < w; x++ {
			u := (float64(x) + 0.5) / float64(w)
			if u < inset || u > 1-inset || v < inset || v > 1-inset {
				continue
			}
			if abs(u-v) <= half || abs(u+v-1) <= half {
				img.Set(x, y, red)
			}
		}
	}

	var buf bytes.Buffer
	_ = imaging.Encode(&buf, img, imaging.PNG)
	return buf.Bytes()
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
