package main

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"strconv"

	"github.com/maruel/readinglist/internal/images"
	"github.com/maruel/readinglist/internal/jsonldb"
	"github.com/maruel/readinglist/internal/models"
	"github.com/maruel/readinglist/internal/storage"
	"github.com/spf13/cobra"
)

// bookView is a book as printed by list.
type bookView struct {
	Index    int    `json:"index"`
	Section  string `json:"section"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Review   string `json:"review,omitempty"`
	Finished bool   `json:"finished"`
}

func newListCommand(a *app) *cobra.Command {
	var section string
	var flat bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books in the current sort mode",
		Long: `List books in the current sort mode, grouped by section.

The index printed in front of each book is the one expected by the other
commands with the same --section. With --flat, books are not grouped and the
indices are the ones expected without --section.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sec, err := parseSection(section)
			if err != nil {
				return err
			}
			return printBooks(cmd.OutOrStdout(), a.opts.format, a.lib, sec, flat)
		},
	}
	cmd.Flags().StringVar(&section, "section", "", "only list this section (unread|finished)")
	cmd.Flags().BoolVar(&flat, "flat", false, "do not group by section")
	return cmd
}

func printBooks(w io.Writer, format string, lib *storage.Library, section *models.Section, flat bool) error {
	var views []bookView
	add := func(books []*models.Book) {
		for i, b := range books {
			views = append(views, bookView{
				Index:    i,
				Section:  b.Section().String(),
				Title:    b.Title,
				Author:   b.Author,
				Review:   b.Review,
				Finished: b.Finished,
			})
		}
	}
	if flat && section == nil {
		add(lib.SortedBooks())
	} else {
		s := lib.SectionedBooks()
		for _, sec := range models.Sections {
			if section == nil || *section == sec {
				add(s[sec])
			}
		}
	}

	if format == "json" {
		if views == nil {
			views = []bookView{}
		}
		return writeJSON(w, views)
	}
	last := ""
	for _, v := range views {
		if !flat && v.Section != last {
			_, _ = fmt.Fprintf(w, "%s:\n", v.Section)
			last = v.Section
		}
		mark := " "
		if v.Finished {
			mark = "x"
		}
		_, _ = fmt.Fprintf(w, "%3d [%s] %s by %s\n", v.Index, mark, v.Title, v.Author)
		if v.Review != "" {
			_, _ = fmt.Fprintf(w, "        %q\n", v.Review)
		}
	}
	return nil
}

func newAddCommand(a *app) *cobra.Command {
	var review, cover string
	var finished bool
	cmd := &cobra.Command{
		Use:   "add <title> <author>",
		Short: "Add a book at the top of the list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var img image.Image
			if cover != "" {
				var err error
				if img, err = images.Import(cover, a.cfg.CoverMaxSize); err != nil {
					return err
				}
			}
			b := models.NewBook(args[0], args[1], review)
			b.Finished = finished
			if err := a.lib.AddNew(b, img); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %s by %s\n", b.Title, b.Author)
			return nil
		},
	}
	cmd.Flags().StringVar(&review, "review", "", "review")
	cmd.Flags().StringVar(&cover, "cover", "", "cover image file (JPEG, PNG, GIF or WebP)")
	cmd.Flags().BoolVar(&finished, "finished", false, "the book was already read")
	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	var section string
	cmd := &cobra.Command{
		Use:   "delete <index>...",
		Short: "Delete books",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sec, err := parseSection(section)
			if err != nil {
				return err
			}
			indices, err := parseIndices(args)
			if err != nil {
				return err
			}
			before := a.lib.Len()
			if err := a.lib.Delete(indices, sec); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d book(s)\n", before-a.lib.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&section, "section", "", "indices address this section (unread|finished)")
	return cmd
}

func newMoveCommand(a *app) *cobra.Command {
	var section string
	var to int
	cmd := &cobra.Command{
		Use:   "move <index>... --to <offset>",
		Short: "Reorder books within a section (manual sort mode only)",
		Long: `Reorder books within a section, in manual sort mode only.

The books at the given indices are moved, keeping their relative order, in
front of the book currently at --to. Use the section size to move them last.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sec, err := models.ParseSection(section)
			if err != nil {
				return err
			}
			indices, err := parseIndices(args)
			if err != nil {
				return err
			}
			if err := a.lib.Move(indices, to, sec); err != nil {
				return err
			}
			return printBooks(cmd.OutOrStdout(), a.opts.format, a.lib, &sec, false)
		},
	}
	cmd.Flags().StringVar(&section, "section", "unread", "section to reorder (unread|finished)")
	cmd.Flags().IntVar(&to, "to", 0, "destination offset")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newFinishCommand(a *app, finished bool) *cobra.Command {
	var section string
	use, short := "finish <index>", "Mark a book as finished"
	if !finished {
		use, short = "unfinish <index>", "Mark a book as still to read"
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.resolve(args[0], section)
			if err != nil {
				return err
			}
			if err := a.lib.SetFinished(b, finished); err != nil {
				return err
			}
			b, _ = a.lib.Lookup(b.ID)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s by %s is now %s\n", b.Title, b.Author, b.Section())
			return nil
		},
	}
	cmd.Flags().StringVar(&section, "section", "", "index addresses this section (unread|finished)")
	return cmd
}

func newReviewCommand(a *app) *cobra.Command {
	var section string
	cmd := &cobra.Command{
		Use:   "review <index> <text>",
		Short: "Set the review of a book; an empty text clears it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.resolve(args[0], section)
			if err != nil {
				return err
			}
			return a.lib.SetReview(b, args[1])
		},
	}
	cmd.Flags().StringVar(&section, "section", "", "index addresses this section (unread|finished)")
	return cmd
}

func newCoverCommand(a *app) *cobra.Command {
	var section string
	var remove bool
	cmd := &cobra.Command{
		Use:   "cover <index> [image]",
		Short: "Show, set or remove the cover of a book",
		Long: `Show, set or remove the cover of a book.

Without an image, prints the cover size and its BlurHash placeholder.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.resolve(args[0], section)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			switch {
			case remove:
				return a.lib.SetImage(b, nil)
			case len(args) == 2:
				img, err := images.Import(args[1], a.cfg.CoverMaxSize)
				if err != nil {
					return err
				}
				return a.lib.SetImage(b, img)
			}
			img := a.lib.Image(b)
			if img == nil {
				_, _ = fmt.Fprintf(w, "%s has no cover\n", b.ImageName())
				return nil
			}
			hash, err := images.Placeholder(img)
			if err != nil {
				return err
			}
			if a.opts.format == "json" {
				return writeJSON(w, map[string]any{
					"name":        b.ImageName(),
					"width":       img.Bounds().Dx(),
					"height":      img.Bounds().Dy(),
					"placeholder": hash,
				})
			}
			_, _ = fmt.Fprintf(w, "%s %dx%d %s\n", b.ImageName(), img.Bounds().Dx(), img.Bounds().Dy(), hash)
			return nil
		},
	}
	cmd.Flags().StringVar(&section, "section", "", "index addresses this section (unread|finished)")
	cmd.Flags().BoolVar(&remove, "remove", false, "remove the cover")
	return cmd
}

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of " + storage.DocumentName,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := jsonldb.Schema[*models.BookDocument]()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), s)
		},
	}
}

func newHistoryCommand(a *app) *cobra.Command {
	var n int
	var show string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the saved versions of " + storage.DocumentName,
		Long: `List the saved versions of the reading list.

Versions are recorded when history is enabled in config.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.history == nil {
				return fmt.Errorf("history is disabled, set \"history: true\" in %s", a.dir)
			}
			w := cmd.OutOrStdout()
			ctx := cmd.Context()
			if show != "" {
				data, err := a.history.FileAt(ctx, show, storage.DocumentName)
				if err != nil {
					return err
				}
				_, err = w.Write(data)
				return err
			}
			commits, err := a.history.Log(ctx, storage.DocumentName, n)
			if err != nil {
				return err
			}
			if a.opts.format == "json" {
				return writeJSON(w, commits)
			}
			for _, c := range commits {
				_, _ = fmt.Fprintf(w, "%.12s %s %s\n", c.Hash, c.Date.Format("2006-01-02 15:04:05"), c.Message)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "count", "n", 20, "number of versions")
	cmd.Flags().StringVar(&show, "show", "", "print the reading list as of this commit")
	return cmd
}

// resolve returns the book at index in the current projection.
func (a *app) resolve(arg, section string) (*models.Book, error) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid index %q", arg)
	}
	sec, err := parseSection(section)
	if err != nil {
		return nil, err
	}
	var view []*models.Book
	if sec != nil {
		view = a.lib.SectionedBooks()[*sec]
	} else {
		view = a.lib.SortedBooks()
	}
	if i < 0 || i >= len(view) {
		return nil, fmt.Errorf("index %d out of range [0, %d)", i, len(view))
	}
	return view[i], nil
}

func parseSection(s string) (*models.Section, error) {
	if s == "" {
		return nil, nil
	}
	sec, err := models.ParseSection(s)
	if err != nil {
		return nil, err
	}
	return &sec, nil
}

func parseIndices(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, s := range args {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid index %q", s)
		}
		out[i] = v
	}
	return out, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
