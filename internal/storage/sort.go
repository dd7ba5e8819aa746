package storage

import (
	"slices"
	"strings"

	"github.com/maruel/readinglist/internal/models"
	"github.com/maruel/readinglist/internal/names"
)

// Sections is a projection of the library split by reading status, indexed
// by models.Section.
type Sections [len(models.Sections)][]*models.Book

// Sorted returns books ordered for mode. The input is not modified.
//
// Manual mode returns the canonical order. The other modes are stable: ties
// keep their canonical order.
func Sorted(books []*models.Book, mode models.SortMode) []*models.Book {
	out := slices.Clone(books)
	switch mode {
	case models.SortTitle:
		sortByTitle(out)
	case models.SortAuthor:
		sortByAuthor(out)
	case models.SortManual:
	}
	return out
}

// Sectioned returns Sorted(books, mode) partitioned by section, preserving the
// relative order within each section.
func Sectioned(books []*models.Book, mode models.SortMode) Sections {
	var s Sections
	for _, sec := range models.Sections {
		s[sec] = []*models.Book{}
	}
	for _, b := range Sorted(books, mode) {
		sec := b.Section()
		s[sec] = append(s[sec], b)
	}
	return s
}

// titleKey folds title and drops one leading "a " or "the ".
func titleKey(title string) string {
	k := names.Fold(title)
	for _, article := range [...]string{"the ", "a "} {
		if rest, ok := strings.CutPrefix(k, article); ok {
			return rest
		}
	}
	return k
}

func sortByTitle(books []*models.Book) {
	keys := make(map[*models.Book]string, len(books))
	for _, b := range books {
		keys[b] = titleKey(b.Title)
	}
	slices.SortStableFunc(books, func(a, b *models.Book) int {
		return strings.Compare(keys[a], keys[b])
	})
}

type authorKey struct {
	name   names.Components
	parsed bool
	folded string
}

func (a authorKey) compare(b authorKey) int {
	if a.parsed && b.parsed {
		return a.name.Compare(b.name)
	}
	return strings.Compare(a.folded, b.folded)
}

func sortByAuthor(books []*models.Book) {
	keys := make(map[*models.Book]authorKey, len(books))
	for _, b := range books {
		c, ok := names.Parse(b.Author)
		keys[b] = authorKey{name: c, parsed: ok, folded: names.Fold(b.Author)}
	}
	slices.SortStableFunc(books, func(a, b *models.Book) int {
		return keys[a].compare(keys[b])
	})
}
