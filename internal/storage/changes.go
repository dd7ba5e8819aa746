package storage

import (
	"github.com/maruel/ksid"
	"github.com/maruel/readinglist/internal/models"
)

// DiffRemovals compares two orderings of the library and returns the
// identities in before that are no longer in after, in their order in before.
//
// Moves and insertions are not reported. It runs in linear time.
func DiffRemovals(before, after []*models.Book) []ksid.ID {
	present := make(map[ksid.ID]struct{}, len(after))
	for _, b := range after {
		present[b.ID] = struct{}{}
	}
	var removed []ksid.ID
	for _, b := range before {
		if _, ok := present[b.ID]; !ok {
			removed = append(removed, b.ID)
		}
	}
	return removed
}
