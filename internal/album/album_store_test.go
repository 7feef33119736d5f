package album

import (
	"bytes"
	"context"
	"image"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"picfolio/internal/testutil"
	"picfolio/internal/thumbnail"
	"picfolio/models"
)

func newTestStore(t *testing.T) *FilesystemStore {
	t.Helper()
	cfg := testutil.GetTestConfig(t)
	store, err := NewFilesystemStore(cfg, thumbnail.NewGenerator(cfg.ThumbnailSize))
	require.NoError(t, err)
	return store
}

func upload(t *testing.T, store *FilesystemStore, category, filename, name string, content []byte) (*models.Image, error) {
	t.Helper()
	return store.Upload(context.Background(), UploadRequest{
		Category: category,
		Filename: filename,
		Name:     name,
		Content:  bytes.NewReader(content),
	})
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, _ := filepath.Rel(dir, path)
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

func TestFilesystemStore_Upload(t *testing.T) {
	store := newTestStore(t)

	t.Run("NamedJPEG", func(t *testing.T) {
		img, err := upload(t, store, "pets", "IMG_0001.JPG", "cat", testutil.JPEGBytes(t, 800, 600))
		require.NoError(t, err)
		assert.Equal(t, "pets", img.Album)
		assert.Equal(t, "cat.jpg", img.Name)
		assert.Equal(t, "cat.thumb.jpg", img.Thumbnail)

		assert.FileExists(t, filepath.Join(store.Root(), "pets", "cat.jpg"))
		thumb := filepath.Join(store.Root(), "pets", "cat.thumb.jpg")
		require.FileExists(t, thumb)

		f, err := os.Open(thumb)
		require.NoError(t, err)
		defer f.Close()
		cfg, _, err := image.DecodeConfig(f)
		require.NoError(t, err)
		assert.LessOrEqual(t, max(cfg.Width, cfg.Height), 200)
	})

	t.Run("KeepsSanitizedClientName", func(t *testing.T) {
		img, err := upload(t, store, "pets", "../../my dog.png", "", testutil.PNGBytes(t, 50, 50))
		require.NoError(t, err)
		assert.Equal(t, "my_dog.png", img.Name)
		assert.FileExists(t, filepath.Join(store.Root(), "pets", "my_dog.png"))
	})

	t.Run("GIFGetsJPEGThumbnail", func(t *testing.T) {
		img, err := upload(t, store, "fun", "party.gif", "", testutil.GIFBytes(t, 40, 40))
		require.NoError(t, err)
		assert.Equal(t, "party.thumb.jpg", img.Thumbnail)
	})

	t.Run("OverwritesSameName", func(t *testing.T) {
		_, err := upload(t, store, "over", "a.png", "", testutil.PNGBytes(t, 10, 10))
		require.NoError(t, err)
		second := testutil.PNGBytes(t, 20, 20)
		_, err = upload(t, store, "over", "a.png", "", second)
		require.NoError(t, err)

		got, err := os.ReadFile(filepath.Join(store.Root(), "over", "a.png"))
		require.NoError(t, err)
		assert.Equal(t, second, got)
		assert.ElementsMatch(t, []string{"a.png", "a.thumb.jpg"}, listFiles(t, filepath.Join(store.Root(), "over")))
	})

	t.Run("CategoryIsSanitized", func(t *testing.T) {
		img, err := upload(t, store, "../escape", "x.png", "", testutil.PNGBytes(t, 10, 10))
		require.NoError(t, err)
		assert.Equal(t, "escape", img.Album)
		assert.NoFileExists(t, filepath.Join(filepath.Dir(store.Root()), "escape", "x.png"))
	})
}

func TestFilesystemStore_UploadRejects(t *testing.T) {
	store := newTestStore(t)
	png := testutil.PNGBytes(t, 10, 10)

	tests := []struct {
		name     string
		category string
		filename string
		newName  string
		content  []byte
		wantErr  error
	}{
		{"NoFile", "pets", "", "", nil, ErrNoFile},
		{"BadExtension", "pets", "notes.txt", "", []byte("hello"), ErrInvalidExtension},
		{"NoExtension", "pets", "README", "", []byte("hello"), ErrInvalidExtension},
		{"DoubleExtensionTrick", "pets", "evil.png.exe", "", png, ErrInvalidExtension},
		{"EmptyCategory", "", "a.png", "", png, ErrInvalidName},
		{"UnsafeCategoryOnly", "../..", "a.png", "", png, ErrInvalidName},
		{"ThumbnailCollision", "pets", "cat.thumb.jpg", "", png, ErrInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := UploadRequest{Category: tt.category, Filename: tt.filename, Name: tt.newName}
			if tt.content != nil {
				req.Content = bytes.NewReader(tt.content)
			}
			_, err := store.Upload(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Empty(t, listFiles(t, store.Root()), "rejected uploads must not write files")
}

func TestFilesystemStore_UploadCorruptImage(t *testing.T) {
	store := newTestStore(t)

	_, err := upload(t, store, "pets", "broken.jpg", "", []byte("not really a jpeg"))
	assert.ErrorIs(t, err, thumbnail.ErrDecode)
	assert.NoFileExists(t, filepath.Join(store.Root(), "pets", "broken.jpg"))
	assert.NoFileExists(t, filepath.Join(store.Root(), "pets", "broken.thumb.jpg"))

	t.Run("OverwriteKeepsPrevious", func(t *testing.T) {
		original := testutil.JPEGBytes(t, 64, 48)
		_, err := upload(t, store, "pets", "x.jpg", "cat", original)
		require.NoError(t, err)
		thumbBefore, err := os.ReadFile(filepath.Join(store.Root(), "pets", "cat.thumb.jpg"))
		require.NoError(t, err)

		_, err = upload(t, store, "pets", "x.jpg", "cat", []byte("not really a jpeg"))
		assert.ErrorIs(t, err, thumbnail.ErrDecode)

		got, err := os.ReadFile(filepath.Join(store.Root(), "pets", "cat.jpg"))
		require.NoError(t, err)
		assert.Equal(t, original, got)
		thumbAfter, err := os.ReadFile(filepath.Join(store.Root(), "pets", "cat.thumb.jpg"))
		require.NoError(t, err)
		assert.Equal(t, thumbBefore, thumbAfter)

		// No staged dotfiles survive the failed upload.
		assert.ElementsMatch(t, []string{"cat.jpg", "cat.thumb.jpg"}, listFiles(t, filepath.Join(store.Root(), "pets")))

		album, err := store.GetAlbum(context.Background(), "pets")
		require.NoError(t, err)
		require.Len(t, album.Images, 1)
		assert.Equal(t, "cat.thumb.jpg", album.Images[0].Thumbnail)
	})
}

func TestFilesystemStore_ListAlbums(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	albums, err := store.ListAlbums(ctx)
	require.NoError(t, err)
	assert.Empty(t, albums)

	for _, up := range []struct{ category, name string }{
		{"trips", "rome"}, {"pets", "dog"}, {"pets", "cat"},
	} {
		_, err := upload(t, store, up.category, "x.jpg", up.name, testutil.JPEGBytes(t, 30, 30))
		require.NoError(t, err)
	}
	require.NoError(t, os.Mkdir(filepath.Join(store.Root(), "empty"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(store.Root(), "stray.txt"), []byte("x"), 0644))

	albums, err = store.ListAlbums(ctx)
	require.NoError(t, err)
	require.Len(t, albums, 3)

	byName := map[string][]string{}
	for _, a := range albums {
		byName[a.Name] = a.Thumbnails
	}
	assert.ElementsMatch(t, []string{"pets/cat.thumb.jpg", "pets/dog.thumb.jpg"}, byName["pets"])
	assert.Equal(t, []string{"trips/rome.thumb.jpg"}, byName["trips"])
	assert.Empty(t, byName["empty"])
}

func TestFilesystemStore_GetAlbum(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := upload(t, store, "pets", "x.png", "cat", testutil.PNGBytes(t, 30, 30))
	require.NoError(t, err)
	// An original whose thumbnail went missing is still listed.
	require.NoError(t, os.WriteFile(filepath.Join(store.Root(), "pets", "orphan.jpg"), testutil.JPEGBytes(t, 5, 5), 0644))

	album, err := store.GetAlbum(ctx, "pets")
	require.NoError(t, err)
	assert.Equal(t, []models.Image{
		{Album: "pets", Name: "cat.png", Thumbnail: "cat.thumb.jpg"},
		{Album: "pets", Name: "orphan.jpg"},
	}, album.Images)

	_, err = store.GetAlbum(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetAlbum(ctx, "../etc")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestFilesystemStore_DeleteAlbum(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := upload(t, store, "pets", "x.jpg", "cat", testutil.JPEGBytes(t, 30, 30))
	require.NoError(t, err)

	require.NoError(t, store.DeleteAlbum(ctx, "pets"))
	assert.NoDirExists(t, filepath.Join(store.Root(), "pets"))

	albums, err := store.ListAlbums(ctx)
	require.NoError(t, err)
	for _, a := range albums {
		assert.NotEqual(t, "pets", a.Name)
	}

	assert.ErrorIs(t, store.DeleteAlbum(ctx, "pets"), ErrNotFound)
	assert.ErrorIs(t, store.DeleteAlbum(ctx, ".."), ErrInvalidName)
	assert.DirExists(t, store.Root())
}

func TestFilesystemStore_DeleteImage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	dir := filepath.Join(store.Root(), "pets")

	_, err := upload(t, store, "pets", "x.jpg", "cat", testutil.JPEGBytes(t, 30, 30))
	require.NoError(t, err)
	_, err = upload(t, store, "pets", "x.jpg", "dog", testutil.JPEGBytes(t, 30, 30))
	require.NoError(t, err)

	t.Run("RemovesOriginalAndThumbnail", func(t *testing.T) {
		require.NoError(t, store.DeleteImage(ctx, "pets", "cat.jpg"))
		assert.ElementsMatch(t, []string{"dog.jpg", "dog.thumb.jpg"}, listFiles(t, dir))
	})

	t.Run("MissingThumbnailTolerated", func(t *testing.T) {
		require.NoError(t, os.Remove(filepath.Join(dir, "dog.thumb.jpg")))
		require.NoError(t, store.DeleteImage(ctx, "pets", "dog.jpg"))
		assert.Empty(t, listFiles(t, dir))
	})

	t.Run("MissingOriginal", func(t *testing.T) {
		assert.ErrorIs(t, store.DeleteImage(ctx, "pets", "ghost.jpg"), ErrNotFound)
		assert.ErrorIs(t, store.DeleteImage(ctx, "nowhere", "ghost.jpg"), ErrNotFound)
	})

	t.Run("TraversalRejected", func(t *testing.T) {
		assert.ErrorIs(t, store.DeleteImage(ctx, "pets", "../../test.db"), ErrInvalidName)
	})
}

func TestFilesystemStore_ConcurrentUploadsSameAlbum(t *testing.T) {
	store := newTestStore(t)
	content := testutil.JPEGBytes(t, 64, 64)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Upload(context.Background(), UploadRequest{
				Category: "burst",
				Filename: "shot.jpg",
				Name:     string(rune('a' + i)),
				Content:  bytes.NewReader(content),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	album, err := store.GetAlbum(context.Background(), "burst")
	require.NoError(t, err)
	assert.Len(t, album.Images, 8)
	assert.Len(t, album.Thumbnails, 8)
}
