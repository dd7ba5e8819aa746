package storage

import (
	"testing"

	"github.com/maruel/readinglist/internal/models"
	"github.com/stretchr/testify/assert"
)

func books(pairs ...string) []*models.Book {
	out := make([]*models.Book, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, models.NewBook(pairs[i], pairs[i+1], ""))
	}
	return out
}

func TestSortedByTitle(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"leading article", []string{"The Hobbit", "Animal Farm"}, []string{"Animal Farm", "The Hobbit"}},
		{"case insensitive", []string{"bravo", "Alpha", "charlie"}, []string{"Alpha", "bravo", "charlie"}},
		{"a is an article", []string{"A Zoo", "Middle"}, []string{"Middle", "A Zoo"}},
		{"only one article is stripped", []string{"The A Team", "Bees"}, []string{"The A Team", "Bees"}},
		{"article needs a space", []string{"Theory", "Tango"}, []string{"Tango", "Theory"}},
		{"stable", []string{"The Same", "same", "Same"}, []string{"The Same", "same", "Same"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in []*models.Book
			for _, title := range tt.in {
				in = append(in, models.NewBook(title, "Someone", ""))
			}
			orig := titles(in)
			assert.Equal(t, tt.want, titles(Sorted(in, models.SortTitle)))
			assert.Equal(t, orig, titles(in), "input was modified")
		})
	}
}

func TestTitleKey(t *testing.T) {
	assert.Equal(t, "hobbit", titleKey("The Hobbit"))
	assert.Equal(t, "guide to tea", titleKey("A Guide to Tea"))
	assert.Equal(t, "a team", titleKey("The A Team"))
	// One article only, unlike repeated stripping.
	assert.Equal(t, "the x", titleKey("A The X"))
	assert.Equal(t, "animal farm", titleKey("Animal Farm"))
}

func TestSortedByAuthor(t *testing.T) {
	t.Run("family name first", func(t *testing.T) {
		in := books("Saints", "Michael P. Foley", "Lead", "Brené Brown")
		assert.Equal(t, []string{"Lead", "Saints"}, titles(Sorted(in, models.SortAuthor)))
	})

	t.Run("given name breaks ties", func(t *testing.T) {
		in := books("1", "Zoe Smith", "2", "Adam Smith", "3", "smith")
		// A missing given name sorts last.
		assert.Equal(t, []string{"2", "1", "3"}, titles(Sorted(in, models.SortAuthor)))
	})

	t.Run("middle name breaks ties", func(t *testing.T) {
		in := books("1", "John Q. Public", "2", "John Public", "3", "John A. Public")
		assert.Equal(t, []string{"3", "1", "2"}, titles(Sorted(in, models.SortAuthor)))
	})

	t.Run("unparsable authors compare raw", func(t *testing.T) {
		in := books("1", "Smith & Jones", "2", "Adams & Baker")
		assert.Equal(t, []string{"2", "1"}, titles(Sorted(in, models.SortAuthor)))
	})

	t.Run("stable", func(t *testing.T) {
		in := books("1", "Ann Lee", "2", "ann lee", "3", "Ann Lee")
		assert.Equal(t, []string{"1", "2", "3"}, titles(Sorted(in, models.SortAuthor)))
	})
}

func TestSectioned(t *testing.T) {
	in := books("d", "X", "c", "X", "b", "X", "a", "X")
	in[0].Finished = true
	in[2].Finished = true

	t.Run("manual keeps canonical order", func(t *testing.T) {
		s := Sectioned(in, models.SortManual)
		assert.Equal(t, []string{"c", "a"}, titles(s[models.SectionUnread]))
		assert.Equal(t, []string{"d", "b"}, titles(s[models.SectionFinished]))
		assert.Equal(t, []string{"d", "c", "b", "a"}, titles(in))
	})

	t.Run("title", func(t *testing.T) {
		s := Sectioned(in, models.SortTitle)
		assert.Equal(t, []string{"a", "c"}, titles(s[models.SectionUnread]))
		assert.Equal(t, []string{"b", "d"}, titles(s[models.SectionFinished]))
	})

	t.Run("empty", func(t *testing.T) {
		s := Sectioned(nil, models.SortManual)
		assert.Empty(t, s[models.SectionUnread])
		assert.NotNil(t, s[models.SectionFinished])
	})
}
