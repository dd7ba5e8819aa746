// Package storage holds the reading list in memory and persists it to a data
// directory.
//
// Library is the only type collaborators need. It owns the canonical order of
// books, derives the sorted and sectioned projections, caches cover images,
// and writes every change to disk on a background goroutine.
package storage

import (
	"fmt"
	"image"
	"log/slog"
	"slices"
	"sync"

	"github.com/maruel/ksid"
	"github.com/maruel/readinglist/internal/errors"
	"github.com/maruel/readinglist/internal/images"
	"github.com/maruel/readinglist/internal/models"
)

// Options configures Open.
type Options struct {
	// Dir is the data directory holding Books.json and the cover files.
	Dir string
	// JPEGQuality is the quality of written covers. 0 uses images.DefaultQuality.
	JPEGQuality int
	// SortMode is the initial projection mode.
	SortMode models.SortMode
	// History, when set, records each saved version of Books.json.
	History Committer
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Library is the reading list.
//
// All methods are safe for concurrent use. Books returned by the library are
// copies; pass them back to identify the record to change.
type Library struct {
	logger  *slog.Logger
	worker  *worker
	persist *Persistence
	cache   *ImageCache

	mu        sync.Mutex
	books     []*models.Book
	mode      models.SortMode
	observers map[int]Observer
	nextObs   int
}

// Open loads the reading list from opts.Dir, falling back to the seed list when
// there is none yet.
func Open(opts Options) (*Library, error) {
	if opts.Dir == "" {
		return nil, errors.MissingField("dir")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	st, err := images.NewStorage(opts.Dir, opts.JPEGQuality)
	if err != nil {
		return nil, errors.Storage("failed to open cover storage", err)
	}
	w := newWorker(logger)
	p, err := newPersistence(opts.Dir, w, opts.History, logger)
	if err != nil {
		w.close()
		return nil, errors.Storage("failed to open reading list", err)
	}
	l := &Library{
		logger:    logger,
		worker:    w,
		persist:   p,
		cache:     newImageCache(st, w, logger),
		books:     p.Load(),
		mode:      opts.SortMode,
		observers: map[int]Observer{},
	}
	logger.Debug("Library opened", "path", p.Path(), "books", len(l.books))
	return l, nil
}

// Path returns the path of the reading list document.
func (l *Library) Path() string {
	return l.persist.Path()
}

// Flush blocks until all disk writes scheduled so far are done.
func (l *Library) Flush() {
	l.worker.flush()
}

// Close writes out pending changes and stops the background writer. Changes
// made after Close stay in memory only.
func (l *Library) Close() error {
	l.worker.close()
	return nil
}

// Subscribe registers obs and returns a function that unregisters it.
func (l *Library) Subscribe(obs Observer) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextObs
	l.nextObs++
	l.observers[id] = obs
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.observers, id)
	}
}

// AddNew puts book at the top of the library.
//
// A zero ID is replaced with a fresh one, written back to book. A non-nil img
// becomes the book's cover. The library keeps its own copy of book.
func (l *Library) AddNew(book *models.Book, img image.Image) error {
	if book == nil {
		return errors.Validation("book is required")
	}
	if err := book.Validate(); err != nil {
		return errors.Validation(err.Error())
	}
	if book.ID.IsZero() {
		book.ID = ksid.NewID()
	}
	b := book.Clone()

	l.mu.Lock()
	if l.indexLocked(b.ID) >= 0 {
		l.mu.Unlock()
		return errors.ErrDuplicate
	}
	l.books = slices.Insert(l.books, 0, b)
	if img != nil {
		l.cache.Set(b, img)
	}
	l.saveLocked()
	obs := l.observersLocked()
	l.mu.Unlock()

	l.notify(obs, Event{Kind: EventAdded, IDs: []ksid.ID{b.ID}})
	return nil
}

// Delete removes the books at indices.
//
// The indices address SectionedBooks()[*section] when section is set, else
// SortedBooks(), as computed in the current sort mode. Nothing is removed when
// any index is out of range. The cover files are kept on disk.
func (l *Library) Delete(indices []int, section *models.Section) error {
	if len(indices) == 0 {
		return nil
	}

	l.mu.Lock()
	var view []*models.Book
	if section != nil {
		if err := checkSection(*section); err != nil {
			l.mu.Unlock()
			return err
		}
		view = Sectioned(l.books, l.mode)[*section]
	} else {
		view = Sorted(l.books, l.mode)
	}
	doomed := make(map[ksid.ID]struct{}, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(view) {
			l.mu.Unlock()
			return errors.InvalidIndex(i, len(view))
		}
		doomed[view[i].ID] = struct{}{}
	}
	before := l.books
	l.books = slices.DeleteFunc(slices.Clone(before), func(b *models.Book) bool {
		_, ok := doomed[b.ID]
		return ok
	})
	removed := l.evictLocked(before)
	l.saveLocked()
	obs := l.observersLocked()
	l.mu.Unlock()

	l.notify(obs, Event{Kind: EventDeleted, IDs: removed})
	return nil
}

// Move reorders books within section, in manual mode only.
//
// oldIndices and newOffset address SectionedBooks()[section]. The books at
// oldIndices are moved, keeping their relative order, to just before the book
// at newOffset; len(section) moves them to the end. The books of the other
// section keep their positions.
func (l *Library) Move(oldIndices []int, newOffset int, section models.Section) error {
	if err := checkSection(section); err != nil {
		return err
	}

	l.mu.Lock()
	if l.mode != models.SortManual {
		l.mu.Unlock()
		return errors.ErrNotManual
	}
	var slots []int
	var view []*models.Book
	for i, b := range l.books {
		if b.Section() == section {
			slots = append(slots, i)
			view = append(view, b)
		}
	}
	moved, err := moveOffsets(view, oldIndices, newOffset)
	if err != nil {
		l.mu.Unlock()
		return err
	}
	// A move keeps every identity so no cache entry is evicted.
	l.books = slices.Clone(l.books)
	for k, slot := range slots {
		l.books[slot] = moved[k]
	}
	l.saveLocked()
	obs := l.observersLocked()
	l.mu.Unlock()

	ids := make([]ksid.ID, 0, len(oldIndices))
	for _, i := range oldIndices {
		ids = append(ids, view[i].ID)
	}
	l.notify(obs, Event{Kind: EventMoved, IDs: ids})
	return nil
}

// SortMode returns the current projection mode.
func (l *Library) SortMode() models.SortMode {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mode
}

// SetSortMode changes the projection mode. Nothing is written to disk.
func (l *Library) SetSortMode(mode models.SortMode) error {
	switch mode {
	case models.SortManual, models.SortTitle, models.SortAuthor:
	default:
		return errors.Validation(fmt.Sprintf("invalid sort mode %d", int(mode)))
	}
	l.mu.Lock()
	l.mode = mode
	obs := l.observersLocked()
	l.mu.Unlock()

	l.notify(obs, Event{Kind: EventSortMode, Mode: mode})
	return nil
}

// SetFinished marks book as finished or back to unread. Its position in the
// canonical order does not change.
func (l *Library) SetFinished(book *models.Book, finished bool) error {
	return l.update(book, func(b *models.Book) { b.Finished = finished })
}

// SetReview replaces the review of book.
func (l *Library) SetReview(book *models.Book, review string) error {
	return l.update(book, func(b *models.Book) { b.Review = review })
}

func (l *Library) update(book *models.Book, fn func(*models.Book)) error {
	if book == nil {
		return errors.ErrNotFound
	}
	l.mu.Lock()
	i := l.indexLocked(book.ID)
	if i < 0 {
		l.mu.Unlock()
		return errors.ErrNotFound
	}
	fn(l.books[i])
	l.saveLocked()
	obs := l.observersLocked()
	l.mu.Unlock()

	l.notify(obs, Event{Kind: EventUpdated, IDs: []ksid.ID{book.ID}})
	return nil
}

// SortedBooks returns the whole library in the current sort mode.
func (l *Library) SortedBooks() []*models.Book {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneAll(Sorted(l.books, l.mode))
}

// SectionedBooks returns the library in the current sort mode, split by
// section.
func (l *Library) SectionedBooks() Sections {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := Sectioned(l.books, l.mode)
	for i := range s {
		s[i] = cloneAll(s[i])
	}
	return s
}

// Books returns the canonical order.
func (l *Library) Books() []*models.Book {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneAll(l.books)
}

// Len returns the number of books.
func (l *Library) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.books)
}

// Lookup returns the book with the given ID.
func (l *Library) Lookup(id ksid.ID) (*models.Book, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexLocked(id); i >= 0 {
		return l.books[i].Clone(), true
	}
	return nil, false
}

// Image returns the cover of book, or nil when it has none or is not in the
// library. The first call for a book may read the disk.
func (l *Library) Image(book *models.Book) image.Image {
	if book == nil {
		return nil
	}
	l.mu.Lock()
	i := l.indexLocked(book.ID)
	var b *models.Book
	if i >= 0 {
		b = l.books[i].Clone()
	}
	l.mu.Unlock()
	if b == nil {
		return nil
	}
	img := l.cache.Get(b)

	// A concurrent Delete may have evicted the entry before Get filled it.
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.indexLocked(b.ID) < 0 {
		l.cache.Evict(b.ID)
		return nil
	}
	return img
}

// SetImage replaces the cover of book; nil removes it.
func (l *Library) SetImage(book *models.Book, img image.Image) error {
	if book == nil {
		return errors.ErrNotFound
	}
	l.mu.Lock()
	i := l.indexLocked(book.ID)
	if i < 0 {
		l.mu.Unlock()
		return errors.ErrNotFound
	}
	l.cache.Set(l.books[i].Clone(), img)
	obs := l.observersLocked()
	l.mu.Unlock()

	l.notify(obs, Event{Kind: EventImage, IDs: []ksid.ID{book.ID}})
	return nil
}

// CachedImages returns the number of image cache entries, including known
// absences.
func (l *Library) CachedImages() int {
	return l.cache.Len()
}

func (l *Library) indexLocked(id ksid.ID) int {
	return slices.IndexFunc(l.books, func(b *models.Book) bool { return b.ID == id })
}

// evictLocked drops the cache entries of books present in before but not in
// the current order, and returns their IDs.
func (l *Library) evictLocked(before []*models.Book) []ksid.ID {
	removed := DiffRemovals(before, l.books)
	for _, id := range removed {
		l.cache.Evict(id)
	}
	return removed
}

// saveLocked schedules a write of a snapshot of the canonical order.
func (l *Library) saveLocked() {
	l.persist.Save(models.ToDocument(l.books))
}

func (l *Library) observersLocked() []Observer {
	if len(l.observers) == 0 {
		return nil
	}
	ids := make([]int, 0, len(l.observers))
	for id := range l.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]Observer, len(ids))
	for i, id := range ids {
		out[i] = l.observers[id]
	}
	return out
}

func (l *Library) notify(obs []Observer, e Event) {
	for _, o := range obs {
		o.OnLibraryChange(e)
	}
}

func checkSection(s models.Section) error {
	if s != models.SectionUnread && s != models.SectionFinished {
		return errors.Validation(fmt.Sprintf("invalid section %d", int(s)))
	}
	return nil
}

// moveOffsets returns a copy of list with the items at offsets moved before
// the item at dst, dst being an index in list before removal. The moved items
// keep their relative order. Duplicate offsets are ignored.
func moveOffsets(list []*models.Book, offsets []int, dst int) ([]*models.Book, error) {
	if dst < 0 || dst > len(list) {
		return nil, errors.InvalidIndex(dst, len(list)+1)
	}
	selected := make([]bool, len(list))
	for _, o := range offsets {
		if o < 0 || o >= len(list) {
			return nil, errors.InvalidIndex(o, len(list))
		}
		selected[o] = true
	}
	var moved, kept []*models.Book
	insert := 0
	for i, b := range list {
		if selected[i] {
			moved = append(moved, b)
			continue
		}
		if i < dst {
			insert++
		}
		kept = append(kept, b)
	}
	out := make([]*models.Book, 0, len(list))
	out = append(out, kept[:insert]...)
	out = append(out, moved...)
	out = append(out, kept[insert:]...)
	return out, nil
}

func cloneAll(books []*models.Book) []*models.Book {
	out := make([]*models.Book, len(books))
	for i, b := range books {
		out[i] = b.Clone()
	}
	return out
}
