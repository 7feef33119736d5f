// Package album keeps albums as directories under an upload root. Each
// immediate subdirectory is one album; files inside are originals and
// their generated thumbnails.
package album

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"picfolio/internal/config"
	"picfolio/internal/logger"
	"picfolio/models"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidExtension = errors.New("file type not allowed")
	ErrInvalidName      = errors.New("invalid name")
	ErrNoFile           = errors.New("no file selected")
)

// Store is the album storage boundary used by the web layer.
type Store interface {
	ListAlbums(ctx context.Context) ([]models.Album, error)
	GetAlbum(ctx context.Context, name string) (*models.Album, error)
	Upload(ctx context.Context, req UploadRequest) (*models.Image, error)
	DeleteAlbum(ctx context.Context, name string) error
	DeleteImage(ctx context.Context, album, image string) error
}

// ThumbnailGenerator renders a preview of the image at src into dst.
type ThumbnailGenerator interface {
	Write(src, dst string) error
}

// UploadRequest describes one uploaded file.
type UploadRequest struct {
	Category string
	// Filename is the client-supplied file name; its extension is validated.
	Filename string
	// Name optionally replaces the base name, keeping the original extension.
	Name    string
	Content io.Reader
}

// FilesystemStore implements Store on a directory tree.
type FilesystemStore struct {
	root       string
	allowed    map[string]struct{}
	thumbnails ThumbnailGenerator

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewFilesystemStore(cfg *config.Config, thumbnails ThumbnailGenerator) (*FilesystemStore, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	allowed := make(map[string]struct{}, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(ext)] = struct{}{}
	}

	return &FilesystemStore{
		root:       cfg.UploadDir,
		allowed:    allowed,
		thumbnails: thumbnails,
		locks:      make(map[string]*sync.Mutex),
	}, nil
}

// Root is the upload directory served to browsers.
func (s *FilesystemStore) Root() string {
	return s.root
}

// lock serializes writers of one album within this process.
func (s *FilesystemStore) lock(name string) func() {
	s.mu.Lock()
	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// AllowedFile reports whether filename has an allowed extension.
func (s *FilesystemStore) AllowedFile(filename string) bool {
	if !strings.Contains(filename, ".") {
		return false
	}
	_, ok := s.allowed[Extension(filename)]
	return ok
}

// ListAlbums returns every album sorted by name with its thumbnails sorted by file name.
func (s *FilesystemStore) ListAlbums(ctx context.Context) ([]models.Album, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("reading upload directory: %w", err)
	}

	albums := make([]models.Album, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}
		files, err := s.readFiles(entry.Name())
		if err != nil {
			return nil, err
		}
		album := models.Album{Name: entry.Name(), Thumbnails: []string{}}
		for _, f := range files {
			if models.IsThumbnail(f) {
				album.Thumbnails = append(album.Thumbnails, entry.Name()+"/"+f)
			}
		}
		albums = append(albums, album)
	}
	return albums, nil
}

// GetAlbum returns one album with its originals paired to their thumbnails.
func (s *FilesystemStore) GetAlbum(ctx context.Context, name string) (*models.Album, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	files, err := s.readFiles(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("album %q: %w", name, ErrNotFound)
		}
		return nil, err
	}

	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f] = true
	}

	album := &models.Album{Name: name, Thumbnails: []string{}, Images: []models.Image{}}
	for _, f := range files {
		if models.IsThumbnail(f) {
			album.Thumbnails = append(album.Thumbnails, name+"/"+f)
			continue
		}
		img := models.Image{Album: name, Name: f}
		if thumb := models.ThumbnailName(f); present[thumb] {
			img.Thumbnail = thumb
		}
		album.Images = append(album.Images, img)
	}
	return album, nil
}

func (s *FilesystemStore) readFiles(album string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, album))
	if err != nil {
		return nil, fmt.Errorf("reading album %q: %w", album, err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		// Skip in-flight temp files.
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// Upload validates a file, generates its thumbnail, then stores both.
// Re-uploading the same name overwrites the previous image.
func (s *FilesystemStore) Upload(ctx context.Context, req UploadRequest) (*models.Image, error) {
	if req.Content == nil || req.Filename == "" {
		return nil, ErrNoFile
	}
	if !s.AllowedFile(req.Filename) {
		return nil, fmt.Errorf("%q: %w", req.Filename, ErrInvalidExtension)
	}

	category := SecureFilename(req.Category)
	if category == "" {
		return nil, fmt.Errorf("category %q: %w", req.Category, ErrInvalidName)
	}

	filename := SecureFilename(req.Filename)
	if req.Name != "" {
		filename = SecureFilename(req.Name + "." + Extension(req.Filename))
	}
	if !s.AllowedFile(filename) || models.IsThumbnail(filename) {
		return nil, fmt.Errorf("file name %q: %w", filename, ErrInvalidName)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unlock := s.lock(category)
	defer unlock()

	dir := filepath.Join(s.root, category)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating album %q: %w", category, err)
	}

	tmp, err := writeTemp(dir, req.Content)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp)

	// Both staged files stay hidden dotfiles until the thumbnail exists, so a
	// failed re-upload leaves the previous image and thumbnail in place.
	thumbTmp := tmp + models.ThumbnailSuffix
	defer os.Remove(thumbTmp)
	if err := s.thumbnails.Write(tmp, thumbTmp); err != nil {
		return nil, fmt.Errorf("creating thumbnail for %s/%s: %w", category, filename, err)
	}

	target := filepath.Join(dir, filename)
	if err := os.Rename(tmp, target); err != nil {
		return nil, fmt.Errorf("storing upload: %w", err)
	}
	thumbName := models.ThumbnailName(filename)
	if err := os.Rename(thumbTmp, filepath.Join(dir, thumbName)); err != nil {
		logger.Warn("failed to store thumbnail",
			zap.String("album", category), zap.String("image", filename), zap.Error(err))
		return nil, fmt.Errorf("storing thumbnail for %s/%s: %w", category, filename, err)
	}

	logger.Info("image uploaded", zap.String("album", category), zap.String("image", filename))
	return &models.Image{
		Album:     category,
		Name:      filename,
		Thumbnail: thumbName,
	}, nil
}

// writeTemp streams content into a hidden temp file in dir and returns its path.
func writeTemp(dir string, content io.Reader) (string, error) {
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}

	if _, err := io.Copy(tmp, content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("closing upload: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("setting upload permissions: %w", err)
	}
	return tmp.Name(), nil
}

// DeleteAlbum removes an album and everything in it.
func (s *FilesystemStore) DeleteAlbum(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}

	unlock := s.lock(name)
	defer unlock()

	dir := filepath.Join(s.root, name)
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("album %q: %w", name, ErrNotFound)
		}
		return fmt.Errorf("checking album %q: %w", name, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("album %q: %w", name, ErrNotFound)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("deleting album %q: %w", name, err)
	}
	logger.Info("album deleted", zap.String("album", name))
	return nil
}

// DeleteImage removes an original and its thumbnail. A missing thumbnail is ignored.
func (s *FilesystemStore) DeleteImage(ctx context.Context, album, image string) error {
	if err := validName(album); err != nil {
		return err
	}
	if err := validName(image); err != nil {
		return err
	}

	unlock := s.lock(album)
	defer unlock()

	imagePath := filepath.Join(s.root, album, image)
	if err := os.Remove(imagePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("image %q: %w", image, ErrNotFound)
		}
		return fmt.Errorf("deleting image %q: %w", image, err)
	}

	thumbPath := filepath.Join(s.root, album, models.ThumbnailName(image))
	if thumbPath != imagePath {
		if err := os.Remove(thumbPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("deleting thumbnail for %q: %w", image, err)
		}
	}

	logger.Info("image deleted", zap.String("album", album), zap.String("image", image))
	return nil
}

// validName accepts only names that SecureFilename leaves untouched, so
// request paths can never leave the upload root.
func validName(name string) error {
	if name == "" || SecureFilename(name) != name {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return nil
}
