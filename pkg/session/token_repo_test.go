package session_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"blogclient/internal/sqlite"
	"blogclient/pkg/session"
)

func newTokenRepo(t *testing.T) *session.SQLiteTokenRepo {
	t.Helper()
	db := sqlite.LoadDB(filepath.Join(t.TempDir(), "session.db"))
	t.Cleanup(func() { db.Close() })
	return session.NewSQLiteTokenRepo(db)
}

func TestTokenRepoRoundTrip(t *testing.T) {
	repo := newTokenRepo(t)

	_, err := repo.Load()
	assert.ErrorIs(t, err, session.ErrNoToken)

	assert.NoError(t, repo.Save("tok1"))

	token, err := repo.Load()
	assert.NoError(t, err)
	assert.Equal(t, "tok1", token)
}

func TestTokenRepoOverwrite(t *testing.T) {
	repo := newTokenRepo(t)

	assert.NoError(t, repo.Save("old"))
	assert.NoError(t, repo.Save("new"))

	token, err := repo.Load()
	assert.NoError(t, err)
	assert.Equal(t, "new", token)
}

func TestTokenRepoDelete(t *testing.T) {
	repo := newTokenRepo(t)

	assert.NoError(t, repo.Save("tok"))
	assert.NoError(t, repo.Delete())

	_, err := repo.Load()
	assert.ErrorIs(t, err, session.ErrNoToken)

	// deleting again is a no-op
	assert.NoError(t, repo.Delete())
}
