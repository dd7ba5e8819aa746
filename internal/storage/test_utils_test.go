package storage

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/maruel/readinglist/internal/jsonldb"
	"github.com/maruel/readinglist/internal/models"
	"github.com/stretchr/testify/require"
)

// fixture is the default content of test libraries:
// "Alpha"(unread), "Beta"(finished), "Gamma"(unread), "Delta"(finished).
var fixture = []*models.BookDocument{
	{Title: "Alpha", Author: "Ann Archer"},
	{Title: "Beta", Author: "Bob Baker", Review: "Good.", Finished: true},
	{Title: "Gamma", Author: "Cid Cole"},
	{Title: "Delta", Author: "Dee Dunn", Finished: true},
}

// writeDocument stores rows as the reading list of dir.
func writeDocument(t *testing.T, dir string, rows []*models.BookDocument) {
	t.Helper()
	doc, err := jsonldb.NewDocument[*models.BookDocument](filepath.Join(dir, DocumentName))
	require.NoError(t, err)
	require.NoError(t, doc.Replace(rows))
}

// setupTestLibrary opens a library in a fresh directory holding rows.
func setupTestLibrary(t *testing.T, rows []*models.BookDocument) (*Library, string) {
	t.Helper()
	dir := t.TempDir()
	if rows != nil {
		writeDocument(t, dir, rows)
	}
	l, err := Open(Options{Dir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l, dir
}

// readDocument returns the rows currently on disk for dir.
func readDocument(t *testing.T, dir string) []*models.BookDocument {
	t.Helper()
	doc, err := jsonldb.NewDocument[*models.BookDocument](filepath.Join(dir, DocumentName))
	require.NoError(t, err)
	rows, err := doc.Load()
	require.NoError(t, err)
	return rows
}

func titles(books []*models.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func byTitle(t *testing.T, l *Library, title string) *models.Book {
	t.Helper()
	for _, b := range l.Books() {
		if b.Title == title {
			return b
		}
	}
	t.Fatalf("no book titled %q", title)
	return nil
}

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	return img
}
