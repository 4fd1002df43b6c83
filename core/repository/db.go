// Package repository is the optional Postgres persistence collaborator for
// jobs and reports.
package repository

import (
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/rotisserie/eris"
)

// DB wraps the database handle shared by all repositories
type DB struct {
	*sql.DB
}

// NewDB opens a connection to the database
func NewDB(databaseURL string) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "repository: open database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "repository: ping database")
	}
	return &DB{DB: db}, nil
}
