// Package file implements store.Provider as a JSON document on local disk.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"todo/internal/task"
)

const (
	fileMode = 0600
	dirMode  = 0700
)

// Provider stores the task collection in a single JSON file.
// The document is an object keyed by task ID:
//
//	{"1":{"id":1,"description":"buy milk","completed":false}}
type Provider struct {
	path string
}

// New returns a provider for the file at path. The file need not exist.
func New(path string) *Provider {
	return &Provider{path: path}
}

// Path returns the data file location.
func (p *Provider) Path() string {
	return p.path
}

// Load reads the data file. A missing or empty file is an empty collection.
func (p *Provider) Load(ctx context.Context) (task.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, task.Storage(err, "read %s", p.path)
	}

	data, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return task.Collection{}, nil
	}
	if err != nil {
		return nil, task.Storage(err, "read %s", p.path)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return task.Collection{}, nil
	}

	tasks := task.Collection{}
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, task.Storage(err, "decode %s", p.path)
	}
	return tasks, nil
}

// Save replaces the data file with tasks.
// The document is written to a temporary file and renamed into place, so a
// reader sees either the old or the new content.
func (p *Provider) Save(ctx context.Context, tasks task.Collection) error {
	if err := ctx.Err(); err != nil {
		return task.Storage(err, "write %s", p.path)
	}
	if tasks == nil {
		tasks = task.Collection{}
	}

	data, err := json.Marshal(tasks)
	if err != nil {
		return task.Storage(err, "encode %s", p.path)
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return task.Storage(err, "create %s", dir)
	}

	if err := writeAtomic(p.path, data); err != nil {
		return task.Storage(err, "write %s", p.path)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
