package sqlite

import (
	"database/sql"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS credentials (
	k TEXT PRIMARY KEY,
	v TEXT NOT NULL
);`

// LoadDB opens the client's local database and makes sure the schema
// exists.
func LoadDB(path string) *sql.DB {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.Ping(); err != nil {
		log.Fatal("Cannot open local DB:", err)
	}
	if _, err := db.Exec(schema); err != nil {
		log.Fatal("Cannot create tables:", err)
	}
	return db
}
