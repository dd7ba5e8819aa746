// Loads and saves the reading list document.

package storage

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/maruel/readinglist/internal/jsonldb"
	"github.com/maruel/readinglist/internal/models"
)

// DocumentName is the file name of the reading list inside the data directory.
const DocumentName = "Books.json"

// Committer records a new version of files in the data directory.
type Committer interface {
	Commit(ctx context.Context, message string, files ...string) error
}

// Persistence reads the reading list once at startup and rewrites it in the
// background after every change.
type Persistence struct {
	doc     *jsonldb.Document[*models.BookDocument]
	worker  *worker
	history Committer
	logger  *slog.Logger
}

func newPersistence(dir string, w *worker, history Committer, logger *slog.Logger) (*Persistence, error) {
	doc, err := jsonldb.NewDocument[*models.BookDocument](filepath.Join(dir, DocumentName))
	if err != nil {
		return nil, err
	}
	return &Persistence{doc: doc, worker: w, history: history, logger: logger}, nil
}

// Path returns the path of the reading list document.
func (p *Persistence) Path() string {
	return p.doc.Path()
}

// Load decodes the document. A missing or malformed document yields the seed
// list instead; Load never fails.
func (p *Persistence) Load() []*models.Book {
	rows, err := p.doc.Load()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			p.logger.Info("No reading list yet, starting from the seed list", "path", p.doc.Path())
		} else {
			p.logger.Warn("Reading list is unreadable, starting from the seed list", "path", p.doc.Path(), "err", err)
		}
		return Seed()
	}
	return models.FromDocument(rows)
}

// Save schedules a full overwrite of the document with rows.
//
// rows must not be modified by the caller afterwards.
func (p *Persistence) Save(rows []*models.BookDocument) {
	p.worker.enqueue("save "+DocumentName, func() error {
		if err := p.doc.Replace(rows); err != nil {
			return err
		}
		if p.history == nil {
			return nil
		}
		return p.history.Commit(context.Background(), "Update reading list", DocumentName)
	})
}

// Seed returns the reading list used on first run.
func Seed() []*models.Book {
	seed := []struct{ title, author, review string }{
		{"Ein Neues Land", "Shaun Tan", ""},
		{"Bosch", "Laurinda Dixon", "Earthily Delightful."},
		{"Dare to Lead", "Brené Brown", ""},
		{"Blasting for Optimum Health Recipe Book", "NutriBullet", "Blastastic!"},
		{"Drinking with the Saints", "Michael P. Foley", ""},
		{"A Guide to Tea", "Adagio Teas", ""},
		{"The Life and Complete Work of Francisco Goya", "P. Gassier & J Wilson", ""},
		{"Lady Cottington's Pressed Fairy Book", "Lady Cottington", ""},
		{"How to Draw Cats", "Janet Rancan", ""},
		{"Drawing People", "Barbara Bradley", ""},
		{"What to Say When You Talk to Yourself", "Shad Helmstetter", ""},
	}
	books := make([]*models.Book, len(seed))
	for i, s := range seed {
		books[i] = models.NewBook(s.title, s.author, s.review)
	}
	return books
}
