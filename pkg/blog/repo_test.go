package blog_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"blogclient/pkg/blog"
)

func TestReplaceAll(t *testing.T) {
	repo := blog.NewRepository()
	repo.ReplaceAll([]*blog.Post{{ID: "old"}})

	repo.ReplaceAll([]*blog.Post{{ID: "p1"}, {ID: "p2"}})

	assert.Equal(t, 2, repo.Len())
	_, ok := repo.Get("old")
	assert.False(t, ok)

	list := repo.List()
	assert.Equal(t, "p1", list[0].ID)
	assert.Equal(t, "p2", list[1].ID)
}

func TestReplaceAllSkipsDuplicateIDs(t *testing.T) {
	repo := blog.NewRepository()
	repo.ReplaceAll([]*blog.Post{{ID: "p1", Title: "first"}, {ID: "p1", Title: "dup"}})

	assert.Equal(t, 1, repo.Len())
	p, _ := repo.Get("p1")
	assert.Equal(t, "first", p.Title)
}

func TestUpsertReplacesWholesale(t *testing.T) {
	repo := blog.NewRepository()
	repo.ReplaceAll([]*blog.Post{
		{ID: "p1", Title: "Hello", Comments: []blog.Comment{{ID: "c9", Body: "stale"}}},
		{ID: "p2", Title: "Other"},
	})

	updated := &blog.Post{
		ID:       "p1",
		Title:    "Hello",
		Created:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Comments: []blog.Comment{{ID: "c1", Body: "nice"}},
	}
	repo.Upsert(updated)

	got, ok := repo.Get("p1")
	assert.True(t, ok)
	// the stored value is the response, nothing carried over
	assert.Equal(t, updated, got)
	assert.Len(t, got.Comments, 1)
	assert.Equal(t, "c1", got.Comments[0].ID)

	// position in the list is preserved
	assert.Equal(t, "p1", repo.List()[0].ID)
}

func TestUpsertAppendsUnknownID(t *testing.T) {
	repo := blog.NewRepository()
	repo.ReplaceAll([]*blog.Post{{ID: "p1"}})

	repo.Upsert(&blog.Post{ID: "p2"})

	list := repo.List()
	assert.Len(t, list, 2)
	assert.Equal(t, "p2", list[1].ID)
}

func TestRemove(t *testing.T) {
	repo := blog.NewRepository()
	repo.ReplaceAll([]*blog.Post{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}})

	repo.Remove("p2")

	assert.Equal(t, 2, repo.Len())
	_, ok := repo.Get("p2")
	assert.False(t, ok)

	list := repo.List()
	assert.Equal(t, "p1", list[0].ID)
	assert.Equal(t, "p3", list[1].ID)

	// removing an unknown id leaves everything alone
	repo.Remove("nope")
	assert.Equal(t, 2, repo.Len())
}
