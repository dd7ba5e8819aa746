// Declares the on-disk schema of the reading list document.

package models

import (
	"encoding/json"
	"fmt"
)

// BookDocument is the persisted form of a Book.
//
// Identity is not persisted; a fresh ID is assigned on every load.
type BookDocument struct {
	Title    string `json:"title" jsonschema:"description=Book title"`
	Author   string `json:"author" jsonschema:"description=Author as written on the cover"`
	Review   string `json:"review" jsonschema:"description=Short free-text review, may be empty"`
	Finished bool   `json:"finished" jsonschema:"description=True once the book has been read"`
}

// Clone returns a copy of the document row.
func (d *BookDocument) Clone() *BookDocument {
	c := *d
	return &c
}

// Validate checks that the row is well-formed.
func (d *BookDocument) Validate() error {
	if d.Title == "" {
		return fmt.Errorf("title is required")
	}
	if d.Author == "" {
		return fmt.Errorf("author is required")
	}
	return nil
}

// UnmarshalJSON accepts the current schema and the older one, where the
// status was stored as "readMe" with the opposite meaning and the review was
// optional.
func (d *BookDocument) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title    string  `json:"title"`
		Author   string  `json:"author"`
		Review   *string `json:"review"`
		Finished *bool   `json:"finished"`
		ReadMe   *bool   `json:"readMe"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Title = raw.Title
	d.Author = raw.Author
	d.Review = ""
	if raw.Review != nil {
		d.Review = *raw.Review
	}
	switch {
	case raw.Finished != nil:
		d.Finished = *raw.Finished
	case raw.ReadMe != nil:
		d.Finished = !*raw.ReadMe
	default:
		d.Finished = false
	}
	return nil
}

// ToDocument converts the canonical order into its persisted form.
func ToDocument(books []*Book) []*BookDocument {
	out := make([]*BookDocument, len(books))
	for i, b := range books {
		out[i] = &BookDocument{
			Title:    b.Title,
			Author:   b.Author,
			Review:   b.Review,
			Finished: b.Finished,
		}
	}
	return out
}

// FromDocument rebuilds books from their persisted form, assigning new IDs.
func FromDocument(rows []*BookDocument) []*Book {
	out := make([]*Book, len(rows))
	for i, r := range rows {
		b := NewBook(r.Title, r.Author, r.Review)
		b.Finished = r.Finished
		out[i] = b
	}
	return out
}
