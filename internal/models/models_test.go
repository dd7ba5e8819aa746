package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBook(t *testing.T) {
	t.Run("NewBook assigns distinct identities", func(t *testing.T) {
		a := NewBook("Bosch", "Laurinda Dixon", "")
		b := NewBook("Bosch", "Laurinda Dixon", "")
		assert.False(t, a.ID.IsZero())
		assert.NotEqual(t, a.ID, b.ID)
		assert.False(t, a.Finished)
	})

	t.Run("Clone shares identity", func(t *testing.T) {
		a := NewBook("Dare to Lead", "Brené Brown", "")
		c := a.Clone()
		c.Review = "changed"
		assert.Equal(t, a.ID, c.ID)
		assert.Empty(t, a.Review)
	})

	t.Run("Section", func(t *testing.T) {
		b := NewBook("Drawing People", "Barbara Bradley", "")
		assert.Equal(t, SectionUnread, b.Section())
		b.Finished = true
		assert.Equal(t, SectionFinished, b.Section())
	})

	t.Run("ImageName is literal", func(t *testing.T) {
		b := NewBook("Lady Cottington's Pressed Fairy Book", "Lady Cottington", "")
		assert.Equal(t, "Lady Cottington's Pressed Fairy Book by Lady Cottington.jpeg", b.ImageName())
	})

	t.Run("Validate", func(t *testing.T) {
		assert.NoError(t, NewBook("a", "b", "").Validate())
		assert.Error(t, NewBook("", "b", "").Validate())
		assert.Error(t, NewBook("a", "", "").Validate())
	})
}

func TestParse(t *testing.T) {
	t.Run("SortMode", func(t *testing.T) {
		tests := []struct {
			in      string
			want    SortMode
			wantErr bool
		}{
			{"manual", SortManual, false},
			{"", SortManual, false},
			{"Title", SortTitle, false},
			{"author", SortAuthor, false},
			{"rating", 0, true},
		}
		for _, tt := range tests {
			t.Run(tt.in, func(t *testing.T) {
				got, err := ParseSortMode(tt.in)
				if tt.wantErr {
					assert.Error(t, err)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				if tt.in != "" {
					assert.Equal(t, tt.want.String(), got.String())
				}
			})
		}
	})

	t.Run("Section", func(t *testing.T) {
		s, err := ParseSection("finished")
		require.NoError(t, err)
		assert.Equal(t, SectionFinished, s)
		s, err = ParseSection("unread")
		require.NoError(t, err)
		assert.Equal(t, SectionUnread, s)
		_, err = ParseSection("later")
		assert.Error(t, err)
	})
}

func TestDocument(t *testing.T) {
	t.Run("round trip keeps fields and order", func(t *testing.T) {
		books := []*Book{
			NewBook("Ein Neues Land", "Shaun Tan", ""),
			NewBook("Bosch", "Laurinda Dixon", "Earthily Delightful."),
		}
		books[1].Finished = true

		data, err := json.Marshal(ToDocument(books))
		require.NoError(t, err)
		var rows []*BookDocument
		require.NoError(t, json.Unmarshal(data, &rows))
		got := FromDocument(rows)

		require.Len(t, got, 2)
		for i := range books {
			assert.Equal(t, books[i].Title, got[i].Title)
			assert.Equal(t, books[i].Author, got[i].Author)
			assert.Equal(t, books[i].Review, got[i].Review)
			assert.Equal(t, books[i].Finished, got[i].Finished)
			assert.False(t, got[i].ID.IsZero())
		}
	})

	t.Run("field names", func(t *testing.T) {
		data, err := json.Marshal(&BookDocument{Title: "t", Author: "a"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"title":"t","author":"a","review":"","finished":false}`, string(data))
	})

	t.Run("legacy readMe field", func(t *testing.T) {
		tests := []struct {
			name string
			in   string
			want BookDocument
		}{
			{"readMe true means unread", `{"title":"t","author":"a","readMe":true}`, BookDocument{Title: "t", Author: "a"}},
			{"readMe false means finished", `{"title":"t","author":"a","readMe":false,"review":"ok"}`, BookDocument{Title: "t", Author: "a", Review: "ok", Finished: true}},
			{"finished wins", `{"title":"t","author":"a","readMe":true,"finished":true}`, BookDocument{Title: "t", Author: "a", Finished: true}},
			{"null review", `{"title":"t","author":"a","review":null}`, BookDocument{Title: "t", Author: "a"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				var got BookDocument
				require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
				assert.Equal(t, tt.want, got)
			})
		}
	})
}
