package file

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	"todo/internal/store"
	"todo/internal/task"
)

var _ store.Provider = (*Provider)(nil)

func TestLoad_MissingFile(t *testing.T) {
	p := New(filepath.Join(t.TempDir(), "nope", "todo.json"))

	got, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Load()=%v, want empty", got)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.json")
	if err := os.WriteFile(path, []byte("\n"), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := New(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Load()=%v, want empty", got)
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.json")
	want := task.Collection{
		1: {ID: 1, Description: "buy milk", Completed: true},
		4: {ID: 4, Description: "line one\nline two"},
		9: {ID: 9, Description: "  padded  "},
	}

	if err := New(path).Save(context.Background(), want); err != nil {
		t.Fatalf("Save() err=%v", err)
	}

	got, err := New(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Load()=%+v, want %+v", got, want)
	}
}

func TestSave_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.json")
	tasks := task.Collection{
		2: {ID: 2, Description: "walk dog"},
		1: {ID: 1, Description: "buy milk", Completed: true},
	}
	if err := New(path).Save(context.Background(), tasks); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"1":{"id":1,"description":"buy milk","completed":true},"2":{"id":2,"description":"walk dog","completed":false}}`
	if string(data) != want {
		t.Fatalf("file content\n got %s\nwant %s", data, want)
	}
}

func TestLoad_LegacyDocument(t *testing.T) {
	// Whitespace and key order as another writer might produce them.
	doc := `{
  "3": {"completed": false, "description": "pay bills", "id": 3},
  "2": {"id": 2, "description": "walk dog", "completed": true}
}`
	path := filepath.Join(t.TempDir(), "todo.json")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := New(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}
	want := task.Collection{
		2: {ID: 2, Description: "walk dog", Completed: true},
		3: {ID: 3, Description: "pay bills"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Load()=%+v, want %+v", got, want)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"truncated", `{"1":{"id":1,`},
		{"array", `[{"id":1}]`},
		{"bad key", `{"one":{"id":1,"description":"x","completed":false}}`},
		{"wrong type", `{"1":{"id":"1","description":"x","completed":false}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "todo.json")
			if err := os.WriteFile(path, []byte(tt.doc), 0600); err != nil {
				t.Fatal(err)
			}
			_, err := New(path).Load(context.Background())
			if !task.IsStorage(err) {
				t.Fatalf("Load() err=%v, want storage error", err)
			}
		})
	}
}

func TestSave_ReplacesContentAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todo.json")
	p := New(path)
	ctx := context.Background()

	if err := p.Save(ctx, task.Collection{1: {ID: 1, Description: "a"}, 2: {ID: 2, Description: "b"}}); err != nil {
		t.Fatal(err)
	}
	if err := p.Save(ctx, task.Collection{2: {ID: 2, Description: "b"}}); err != nil {
		t.Fatal(err)
	}

	got, err := p.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("Load() len=%d, want 1", len(got))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("directory has %d entries, want only the data file", len(entries))
	}
}

func TestSave_CreatesParentDirAndMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "todo.json")
	if err := New(path).Save(context.Background(), nil); err != nil {
		t.Fatalf("Save() err=%v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Fatalf("mode=%v, want 0600", info.Mode().Perm())
	}

	data, _ := os.ReadFile(path)
	if string(data) != "{}" {
		t.Fatalf("content=%q, want {}", data)
	}
}

func TestSave_Unwritable(t *testing.T) {
	dir := t.TempDir()
	// A regular file where the parent directory should be.
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0600); err != nil {
		t.Fatal(err)
	}

	err := New(filepath.Join(blocker, "todo.json")).Save(context.Background(), task.Collection{})
	if !task.IsStorage(err) {
		t.Fatalf("Save() err=%v, want storage error", err)
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := New(filepath.Join(t.TempDir(), "todo.json"))

	if err := p.Save(ctx, task.Collection{}); !task.IsStorage(err) {
		t.Fatalf("Save() err=%v, want storage error", err)
	}
	if _, err := p.Load(ctx); !task.IsStorage(err) {
		t.Fatalf("Load() err=%v, want storage error", err)
	}
}

func TestStoreOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.json")
	ctx := context.Background()

	s, err := store.Open(ctx, New(path))
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range []string{"buy milk", "walk dog"} {
		if _, err := s.Add(ctx, d); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Delete(ctx, 1); err != nil {
		t.Fatal(err)
	}

	reopened, err := store.Open(ctx, New(path))
	if err != nil {
		t.Fatal(err)
	}
	id, err := reopened.Add(ctx, "pay bills")
	if err != nil {
		t.Fatal(err)
	}
	if id != 3 {
		t.Fatalf("Add() after reopen id=%d, want 3", id)
	}
}
