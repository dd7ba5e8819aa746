package images

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testImage returns a w×h image with a horizontal gradient.
func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / max(w-1, 1)), G: 80, B: uint8(y * 255 / max(h-1, 1)), A: 255})
		}
	}
	return img
}

func setupTestStorage(t *testing.T) *Storage {
	s, err := NewStorage(filepath.Join(t.TempDir(), "covers"), 0)
	require.NoError(t, err)
	return s
}

func TestNewStorage(t *testing.T) {
	t.Run("creates directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "path")
		s, err := NewStorage(dir, 90)
		require.NoError(t, err)
		assert.Equal(t, 90, s.quality)
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("returns error for empty path", func(t *testing.T) {
		s, err := NewStorage("", 70)
		assert.Error(t, err)
		assert.Nil(t, s)
	})

	t.Run("out of range quality uses default", func(t *testing.T) {
		s, err := NewStorage(t.TempDir(), 101)
		require.NoError(t, err)
		assert.Equal(t, DefaultQuality, s.quality)
	})
}

func TestStorage(t *testing.T) {
	const name = "Bosch by Laurinda Dixon.jpeg"

	t.Run("write then read", func(t *testing.T) {
		s := setupTestStorage(t)
		require.NoError(t, s.Write(name, testImage(40, 60)))
		assert.True(t, s.Exists(name))

		img, err := s.Read(name)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 40, 60), img.Bounds())
	})

	t.Run("write overwrites", func(t *testing.T) {
		s := setupTestStorage(t)
		require.NoError(t, s.Write(name, testImage(40, 60)))
		require.NoError(t, s.Write(name, testImage(10, 10)))
		img, err := s.Read(name)
		require.NoError(t, err)
		assert.Equal(t, 10, img.Bounds().Dx())
	})

	t.Run("read missing", func(t *testing.T) {
		s := setupTestStorage(t)
		img, err := s.Read(name)
		assert.Error(t, err)
		assert.Nil(t, img)
	})

	t.Run("read corrupt", func(t *testing.T) {
		s := setupTestStorage(t)
		require.NoError(t, os.WriteFile(s.Path(name), []byte("not a jpeg"), 0o644))
		img, err := s.Read(name)
		assert.Error(t, err)
		assert.Nil(t, img)
	})

	t.Run("delete", func(t *testing.T) {
		s := setupTestStorage(t)
		require.NoError(t, s.Write(name, testImage(4, 4)))
		require.NoError(t, s.Delete(name))
		assert.False(t, s.Exists(name))
		// Already deleted, not an error.
		require.NoError(t, s.Delete(name))
	})

	t.Run("empty names", func(t *testing.T) {
		s := setupTestStorage(t)
		assert.Error(t, s.Write("", testImage(1, 1)))
		assert.Error(t, s.Write(name, nil))
		assert.Error(t, s.Delete(""))
		_, err := s.Read("")
		assert.Error(t, err)
		assert.False(t, s.Exists(""))
	})
}

func TestImport(t *testing.T) {
	t.Run("png is scaled to fit", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cover.png")
		f, err := os.Create(path)
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, testImage(200, 100)))
		require.NoError(t, f.Close())

		img, err := Import(path, 50)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 50, 25), img.Bounds())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Import(filepath.Join(t.TempDir(), "none.png"), 0)
		assert.Error(t, err)
	})

	t.Run("not an image", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cover.png")
		require.NoError(t, os.WriteFile(path, []byte("text"), 0o644))
		_, err := Import(path, 0)
		assert.Error(t, err)
	})
}

func TestFit(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		maxSize int
		want    image.Rectangle
	}{
		{"disabled", 300, 200, 0, image.Rect(0, 0, 300, 200)},
		{"already small", 30, 20, 64, image.Rect(0, 0, 30, 20)},
		{"landscape", 300, 150, 100, image.Rect(0, 0, 100, 50)},
		{"portrait", 150, 300, 100, image.Rect(0, 0, 50, 100)},
		{"sliver", 1000, 1, 10, image.Rect(0, 0, 10, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fit(testImage(tt.w, tt.h), tt.maxSize).Bounds())
		})
	}
}

func TestPlaceholder(t *testing.T) {
	small, err := Placeholder(testImage(16, 24))
	require.NoError(t, err)
	assert.NotEmpty(t, small)

	large, err := Placeholder(testImage(300, 400))
	require.NoError(t, err)
	assert.NotEmpty(t, large)
}
