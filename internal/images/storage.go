// Package images provides cover image decoding, encoding, and storage.
package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"os"
	"path/filepath"
	"sync"

	"github.com/maruel/readinglist/internal/jsonldb"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// DefaultQuality is the JPEG quality used for covers.
const DefaultQuality = 70

// Storage manages cover files in a directory.
// Thread-safe for concurrent operations.
type Storage struct {
	dir     string
	quality int
	mu      sync.RWMutex // Protects file operations
}

// NewStorage creates a Storage writing JPEG files of the given quality in dir.
// A quality outside [1, 100] uses DefaultQuality.
func NewStorage(dir string, quality int) (*Storage, error) {
	if dir == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for data directories
		return nil, fmt.Errorf("failed to create cover directory: %w", err)
	}
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}
	return &Storage{dir: dir, quality: quality}, nil
}

// Path returns the full filesystem path for a cover file name.
func (s *Storage) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Read decodes the cover stored under name.
func (s *Storage) Read(name string) (image.Image, error) {
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, err := os.Open(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to open cover: %w", err)
	}
	defer func() { _ = f.Close() }()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cover %q: %w", name, err)
	}
	return img, nil
}

// Write encodes img as JPEG and atomically replaces the file under name.
func (s *Storage) Write(name string, img image.Image) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if img == nil {
		return fmt.Errorf("image cannot be nil")
	}
	data, err := Encode(img, s.quality)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := jsonldb.WriteFileAtomic(s.Path(name), data); err != nil {
		return fmt.Errorf("failed to write cover: %w", err)
	}
	return nil
}

// Delete removes the file under name. A missing file is not an error.
func (s *Storage) Delete(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.Path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cover: %w", err)
	}
	return nil
}

// Exists checks if a cover file exists.
func (s *Storage) Exists(name string) bool {
	if name == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// Encode compresses img as JPEG with the given quality.
func Encode(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode cover: %w", err)
	}
	return buf.Bytes(), nil
}
