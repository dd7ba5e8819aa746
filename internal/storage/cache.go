package storage

import (
	"image"
	"log/slog"
	"sync"

	"github.com/maruel/ksid"
	"github.com/maruel/readinglist/internal/images"
	"github.com/maruel/readinglist/internal/models"
)

// ImageCache keeps decoded covers in memory, keyed by book identity, and
// mirrors changes to disk in the background.
//
// A nil entry records that the book has no cover, so the disk is checked at
// most once per book. The table is unbounded; entries are only removed when
// their book leaves the library.
type ImageCache struct {
	mu     sync.RWMutex
	images map[ksid.ID]image.Image

	storage *images.Storage
	worker  *worker
	logger  *slog.Logger
}

func newImageCache(s *images.Storage, w *worker, logger *slog.Logger) *ImageCache {
	return &ImageCache{
		images:  make(map[ksid.ID]image.Image),
		storage: s,
		worker:  w,
		logger:  logger,
	}
}

// Get returns the cover of book, or nil when it has none.
//
// On a miss the cover file is read and decoded synchronously. A missing file or
// any failure is remembered as absence.
func (c *ImageCache) Get(book *models.Book) image.Image {
	c.mu.RLock()
	img, ok := c.images[book.ID]
	c.mu.RUnlock()
	if ok {
		return img
	}

	if name := book.ImageName(); c.storage.Exists(name) {
		var err error
		if img, err = c.storage.Read(name); err != nil {
			c.logger.Warn("Unreadable cover", "book", book.ID, "name", name, "err", err)
			img = nil
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// A concurrent Set wins over what was read from disk.
	if cur, ok := c.images[book.ID]; ok {
		return cur
	}
	c.images[book.ID] = img
	return img
}

// Set replaces the cover of book. nil removes it.
//
// Memory is updated before returning; the file is written or deleted later.
func (c *ImageCache) Set(book *models.Book, img image.Image) {
	c.mu.Lock()
	c.images[book.ID] = img
	c.mu.Unlock()

	name := book.ImageName()
	if img == nil {
		c.worker.enqueue("delete "+name, func() error {
			return c.storage.Delete(name)
		})
		return
	}
	c.worker.enqueue("write "+name, func() error {
		return c.storage.Write(name, img)
	})
}

// Evict forgets the entry of id. The file on disk is left alone.
func (c *ImageCache) Evict(id ksid.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.images, id)
}

// Len returns the number of entries, including known absences.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// has reports whether id has an entry, present or absent.
func (c *ImageCache) has(id ksid.ID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.images[id]
	return ok
}
