package storage

import (
	"github.com/maruel/ksid"
	"github.com/maruel/readinglist/internal/models"
)

// EventKind identifies which operation changed the library.
type EventKind int

const (
	// EventAdded follows AddNew.
	EventAdded EventKind = iota
	// EventDeleted follows Delete.
	EventDeleted
	// EventMoved follows Move.
	EventMoved
	// EventUpdated follows SetFinished and SetReview.
	EventUpdated
	// EventImage follows SetImage.
	EventImage
	// EventSortMode follows SetSortMode.
	EventSortMode
)

func (k EventKind) String() string {
	switch k {
	case EventAdded:
		return "added"
	case EventDeleted:
		return "deleted"
	case EventMoved:
		return "moved"
	case EventUpdated:
		return "updated"
	case EventImage:
		return "image"
	case EventSortMode:
		return "sort_mode"
	default:
		return "unknown"
	}
}

// Event describes a change to the library.
type Event struct {
	Kind EventKind
	// IDs are the books affected. Empty for EventSortMode.
	IDs  []ksid.ID
	Mode models.SortMode
}

// Observer is notified after every change to the library.
//
// It is called synchronously on the goroutine that made the change, with no
// lock held, so it may read from the library.
type Observer interface {
	OnLibraryChange(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// OnLibraryChange calls f(e).
func (f ObserverFunc) OnLibraryChange(e Event) {
	f(e)
}
