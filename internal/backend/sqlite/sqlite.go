// Package sqlite implements store.Provider on a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"todo/internal/task"
)

const schema = `CREATE TABLE IF NOT EXISTS tasks (
	id          INTEGER PRIMARY KEY,
	description TEXT    NOT NULL,
	completed   INTEGER NOT NULL DEFAULT 0
)`

// Provider stores the task collection as rows of the tasks table.
// Each Save rewrites the table inside one transaction.
type Provider struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and ensures the schema.
func Open(ctx context.Context, path string) (*Provider, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, task.Storage(err, "create db directory")
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=FULL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, task.Storage(err, "open %s", path)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, task.Storage(err, "init schema in %s", path)
	}

	return &Provider{db: db, path: path}, nil
}

// Path returns the database location.
func (p *Provider) Path() string {
	return p.path
}

// Close releases the database handle.
func (p *Provider) Close() error {
	return p.db.Close()
}

// Load reads every row of the tasks table.
func (p *Provider) Load(ctx context.Context) (task.Collection, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id, description, completed FROM tasks`)
	if err != nil {
		return nil, task.Storage(err, "query %s", p.path)
	}
	defer rows.Close()

	tasks := task.Collection{}
	for rows.Next() {
		var t task.Task
		if err := rows.Scan(&t.ID, &t.Description, &t.Completed); err != nil {
			return nil, task.Storage(err, "scan %s", p.path)
		}
		tasks[t.ID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, task.Storage(err, "read %s", p.path)
	}
	return tasks, nil
}

// Save replaces the table content with tasks.
func (p *Provider) Save(ctx context.Context, tasks task.Collection) (err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return task.Storage(err, "begin %s", p.path)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return task.Storage(err, "clear %s", p.path)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO tasks (id, description, completed) VALUES (?, ?, ?)`)
	if err != nil {
		return task.Storage(err, "prepare insert")
	}
	defer stmt.Close()

	for _, t := range tasks.Sorted() {
		if _, err = stmt.ExecContext(ctx, t.ID, t.Description, t.Completed); err != nil {
			return task.Storage(err, "insert task %d", t.ID)
		}
	}

	if err = tx.Commit(); err != nil {
		return task.Storage(err, "commit %s", p.path)
	}
	return nil
}
