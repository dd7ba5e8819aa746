// Package models defines the core data structures used throughout the application.
package models

import (
	"fmt"
	"strings"

	"github.com/maruel/ksid"
)

// Book is a single entry of the reading list.
//
// Identity is the ID, never the fields: two books with the same title and
// author are distinct records. Title and Author are set at creation and not
// changed afterwards; the image file name is derived from them.
type Book struct {
	ID       ksid.ID
	Title    string
	Author   string
	Review   string
	Finished bool
}

// NewBook creates an unfinished book with a fresh identity.
func NewBook(title, author, review string) *Book {
	return &Book{
		ID:     ksid.NewID(),
		Title:  title,
		Author: author,
		Review: review,
	}
}

// Clone returns a copy of the book sharing its identity.
func (b *Book) Clone() *Book {
	c := *b
	return &c
}

// Section returns the section the book currently belongs to.
func (b *Book) Section() Section {
	if b.Finished {
		return SectionFinished
	}
	return SectionUnread
}

// ImageName is the file name of the book's cover, "<title> by <author>.jpeg".
//
// The name is used literally, without escaping.
func (b *Book) ImageName() string {
	return b.Title + " by " + b.Author + ".jpeg"
}

// Validate checks that the book is well-formed.
func (b *Book) Validate() error {
	if b.Title == "" {
		return fmt.Errorf("title is required")
	}
	if b.Author == "" {
		return fmt.Errorf("author is required")
	}
	return nil
}

// Section partitions the library by reading status.
type Section int

const (
	// SectionUnread holds books still to be read.
	SectionUnread Section = iota
	// SectionFinished holds books already read.
	SectionFinished
)

// Sections lists every section in display order.
var Sections = [...]Section{SectionUnread, SectionFinished}

func (s Section) String() string {
	switch s {
	case SectionUnread:
		return "unread"
	case SectionFinished:
		return "finished"
	default:
		return fmt.Sprintf("Section(%d)", int(s))
	}
}

// ParseSection converts "unread" or "finished" to a Section.
func ParseSection(s string) (Section, error) {
	switch strings.ToLower(s) {
	case "unread", "readme":
		return SectionUnread, nil
	case "finished":
		return SectionFinished, nil
	default:
		return 0, fmt.Errorf("invalid section %q (must be unread or finished)", s)
	}
}

// SortMode selects how the library is projected for display.
type SortMode int

const (
	// SortManual keeps the order the user arranged, split by section.
	SortManual SortMode = iota
	// SortTitle orders by title, ignoring a leading article.
	SortTitle
	// SortAuthor orders by the author's family name.
	SortAuthor
)

func (m SortMode) String() string {
	switch m {
	case SortManual:
		return "manual"
	case SortTitle:
		return "title"
	case SortAuthor:
		return "author"
	default:
		return fmt.Sprintf("SortMode(%d)", int(m))
	}
}

// ParseSortMode converts "manual", "title" or "author" to a SortMode.
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(s) {
	case "manual", "":
		return SortManual, nil
	case "title":
		return SortTitle, nil
	case "author":
		return SortAuthor, nil
	default:
		return 0, fmt.Errorf("invalid sort mode %q (must be manual, title or author)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m SortMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *SortMode) UnmarshalText(b []byte) error {
	v, err := ParseSortMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
