package core

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// runIndex holds the per-run lookup state: the conversation index built from
// the conversations area, and the old-link → new-link map used by the
// substitution pass. It lives in an in-memory SQLite database for the
// duration of a single run; nothing is persisted.
type runIndex struct {
	db *sql.DB
}

func openRunIndex() (*runIndex, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Every pooled connection would see its own empty :memory: database.
	db.SetMaxOpenConns(1)
	if err := initRunSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &runIndex{db: db}, nil
}

func (ix *runIndex) Close() error {
	return ix.db.Close()
}

func initRunSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS conversations (
			id      TEXT PRIMARY KEY,
			title   TEXT NOT NULL,
			created TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS link_map (
			seq      INTEGER PRIMARY KEY AUTOINCREMENT,
			old_link TEXT NOT NULL UNIQUE,
			new_link TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// putConversation records the raw aliases value and creation time for a
// conversation id. A duplicate id overwrites the earlier record (last
// occurrence wins).
func (ix *runIndex) putConversation(id, title, created string) error {
	_, err := ix.db.Exec(
		`INSERT INTO conversations (id, title, created)
		 VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title=excluded.title,
		   created=excluded.created`,
		id, title, created,
	)
	return err
}

// conversation looks up the raw title and creation time for a conversation id.
func (ix *runIndex) conversation(id string) (title, created string, ok bool, err error) {
	row := ix.db.QueryRow("SELECT title, created FROM conversations WHERE id = ?", id)
	err = row.Scan(&title, &created)
	if err == sql.ErrNoRows {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, err
	}
	return title, created, true, nil
}

func (ix *runIndex) conversationCount() (int, error) {
	var n int
	err := ix.db.QueryRow("SELECT COUNT(*) FROM conversations").Scan(&n)
	return n, err
}

// LinkMapping is one old-path → new-path substitution pair. Paths are
// wikilink tokens without extension, always forward-slash separated.
type LinkMapping struct {
	Old string
	New string
}

// putMapping records a substitution pair. A duplicate old link keeps its
// original position in the application order but takes the new value.
func (ix *runIndex) putMapping(oldLink, newLink string) error {
	_, err := ix.db.Exec(
		`INSERT INTO link_map (old_link, new_link)
		 VALUES (?, ?)
		 ON CONFLICT(old_link) DO UPDATE SET new_link=excluded.new_link`,
		oldLink, newLink,
	)
	return err
}

// mappings returns all substitution pairs in insertion order.
func (ix *runIndex) mappings() ([]LinkMapping, error) {
	rows, err := ix.db.Query("SELECT old_link, new_link FROM link_map ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LinkMapping
	for rows.Next() {
		var m LinkMapping
		if err := rows.Scan(&m.Old, &m.New); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
