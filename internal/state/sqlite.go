package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	errs "github.com/Elieez/PricePilot/pkg/errors"
)

// SQLiteStore keeps all monitors' seen URLs in one embedded database
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, errs.NewState("sqlite", "failed to create state directory", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errs.NewState("sqlite", "failed to open database", err)
	}
	// single connection, embedded use
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS seen_urls (
		slug     TEXT    NOT NULL,
		position INTEGER NOT NULL,
		url      TEXT    NOT NULL,
		PRIMARY KEY (slug, url)
	)`)
	if err != nil {
		return errs.NewState("sqlite", "failed to migrate schema", err)
	}
	return nil
}

// LoadSeen reads the seen URLs for a slug in their recorded order
func (s *SQLiteStore) LoadSeen(slug string) ([]string, error) {
	rows, err := s.db.Query(`SELECT url FROM seen_urls WHERE slug = ? ORDER BY position`, slug)
	if err != nil {
		return nil, errs.NewState(slug, "failed to read state from sqlite", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, errs.NewState(slug, "failed to scan state row", err)
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewState(slug, "failed to iterate state rows", err)
	}
	return urls, nil
}

// SaveSeen rewrites the seen URLs for a slug in one transaction
func (s *SQLiteStore) SaveSeen(slug string, urls []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errs.NewState(slug, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM seen_urls WHERE slug = ?`, slug); err != nil {
		return errs.NewState(slug, "failed to clear state rows", err)
	}
	for i, u := range urls {
		if _, err := tx.Exec(`INSERT INTO seen_urls (slug, position, url) VALUES (?, ?, ?)`, slug, i, u); err != nil {
			return errs.NewState(slug, "failed to insert state row", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errs.NewState(slug, "failed to commit state", err)
	}
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
