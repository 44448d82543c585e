package session

import (
	"database/sql"
	"errors"
)

const tokenKey = "token"

// SQLiteTokenRepo keeps the bearer token in a single-row key/value table in
// the client's local database.
type SQLiteTokenRepo struct {
	DB *sql.DB
}

func NewSQLiteTokenRepo(db *sql.DB) *SQLiteTokenRepo {
	return &SQLiteTokenRepo{DB: db}
}

func (r *SQLiteTokenRepo) Save(token string) error {
	_, err := r.DB.Exec(`
		INSERT INTO credentials (k, v) VALUES (?, ?)
		ON CONFLICT(k) DO UPDATE SET v = excluded.v
	`, tokenKey, token)
	return err
}

func (r *SQLiteTokenRepo) Load() (string, error) {
	var token string
	err := r.DB.QueryRow(
		"SELECT v FROM credentials WHERE k = ?",
		tokenKey,
	).Scan(&token)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNoToken
		}
		return "", err
	}

	return token, nil
}

func (r *SQLiteTokenRepo) Delete() error {
	_, err := r.DB.Exec("DELETE FROM credentials WHERE k = ?", tokenKey)
	return err
}
