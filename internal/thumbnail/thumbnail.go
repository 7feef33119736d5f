// Package thumbnail derives bounded-size JPEG previews from uploaded images.
package thumbnail

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"picfolio/models"
)

var (
	// ErrDecode is returned when the source file is not a decodable image.
	ErrDecode = errors.New("cannot decode image")
	// ErrTooLarge is returned before decoding when the header declares more than maxPixels.
	ErrTooLarge = errors.New("image dimensions too large")
)

const (
	jpegQuality = 85
	// About 200 MB once decoded to RGBA.
	maxPixels = 50_000_000
)

// Generator scales originals down to JPEG thumbnails.
type Generator struct {
	maxSize int
}

func NewGenerator(maxSize int) *Generator {
	return &Generator{maxSize: maxSize}
}

// Create writes <base>.thumb.jpg next to the original at path and returns
// the thumbnail path.
func (g *Generator) Create(path string) (string, error) {
	thumbPath := filepath.Join(filepath.Dir(path), models.ThumbnailName(filepath.Base(path)))
	if err := g.Write(path, thumbPath); err != nil {
		return "", err
	}
	return thumbPath, nil
}

// Write decodes the image at src and writes a JPEG to dst whose longer side
// is at most maxSize. Images already small enough are re-encoded at their
// own size. dst is not left behind on failure.
func (g *Generator) Write(src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("%w %s: %v", ErrDecode, filepath.Base(src), err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding %s: %w", src, err)
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("%w %s: %v", ErrDecode, filepath.Base(src), err)
	}

	bounds := img.Bounds()
	w, h := Fit(bounds.Dx(), bounds.Dy(), g.maxSize)

	// JPEG has no alpha; flatten onto white first.
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(out, out.Bounds(), img, bounds, draw.Over, nil)

	file, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating thumbnail: %w", err)
	}
	if err := jpeg.Encode(file, out, &jpeg.Options{Quality: jpegQuality}); err != nil {
		file.Close()
		os.Remove(dst)
		return fmt.Errorf("encoding thumbnail: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("closing thumbnail: %w", err)
	}
	return nil
}

// Fit scales (w, h) down so neither side exceeds limit, keeping the aspect
// ratio. It never scales up and never returns a zero side.
func Fit(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		nh := h * limit / w
		if nh < 1 {
			nh = 1
		}
		return limit, nh
	}
	nw := w * limit / h
	if nw < 1 {
		nw = 1
	}
	return nw, limit
}
