// Package store owns the in-memory task collection and keeps it in step
// with a persistence Provider.
package store

import (
	"context"
	"errors"
	"io"
	"strings"

	"todo/internal/task"
)

// ErrProviderNil is returned by Open when no provider is given.
var ErrProviderNil = errors.New("persistence provider is nil")

// Provider persists the whole task collection as one unit.
// Backends never see individual mutations, only complete snapshots.
type Provider interface {
	// Save replaces the stored collection with tasks.
	Save(ctx context.Context, tasks task.Collection) error

	// Load returns the stored collection.
	// A location that does not exist yet yields an empty collection.
	Load(ctx context.Context) (task.Collection, error)
}

// Store is the single authority over task identity, validation and mutation.
// After every successful call the in-memory collection equals the persisted one.
// A failed save rolls the in-memory change back before the error is returned.
//
// Store is not safe for concurrent use.
type Store struct {
	provider Provider
	tasks    task.Collection
	nextID   int
}

// Open loads the persisted collection from p and returns a ready store.
func Open(ctx context.Context, p Provider) (*Store, error) {
	if p == nil {
		return nil, ErrProviderNil
	}

	tasks, err := p.Load(ctx)
	if err != nil {
		return nil, asStorage(err, "load tasks")
	}
	if tasks == nil {
		tasks = task.Collection{}
	}
	if err := tasks.Validate(); err != nil {
		return nil, err
	}

	return &Store{
		provider: p,
		tasks:    tasks,
		nextID:   tasks.MaxID() + 1,
	}, nil
}

// Add creates a task and returns its ID.
func (s *Store) Add(ctx context.Context, description string) (int, error) {
	if strings.TrimSpace(description) == "" {
		return 0, task.Validationf("description cannot be empty")
	}

	id := s.nextID
	s.tasks[id] = task.Task{ID: id, Description: description}
	s.nextID++

	if err := s.save(ctx); err != nil {
		delete(s.tasks, id)
		s.nextID = id
		return 0, err
	}
	return id, nil
}

// Complete marks a task completed. Completing a completed task is a no-op
// that still persists.
func (s *Store) Complete(ctx context.Context, id int) error {
	t, ok := s.tasks[id]
	if !ok {
		return notFound(id)
	}

	prev := t
	t.Completed = true
	s.tasks[id] = t

	if err := s.save(ctx); err != nil {
		s.tasks[id] = prev
		return err
	}
	return nil
}

// Delete removes a task. Its ID is never issued again.
func (s *Store) Delete(ctx context.Context, id int) error {
	t, ok := s.tasks[id]
	if !ok {
		return notFound(id)
	}

	delete(s.tasks, id)

	if err := s.save(ctx); err != nil {
		s.tasks[id] = t
		return err
	}
	return nil
}

// Get returns a single task.
func (s *Store) Get(id int) (task.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return task.Task{}, notFound(id)
	}
	return t, nil
}

// List returns a copy of all tasks in ascending ID order.
func (s *Store) List() []task.Task {
	return s.tasks.Sorted()
}

// NextID returns the ID the next successful Add will assign.
func (s *Store) NextID() int {
	return s.nextID
}

// Close releases the provider when it holds resources, such as a database handle.
func (s *Store) Close() error {
	if c, ok := s.provider.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// save hands a snapshot to the provider so it cannot retain our map.
func (s *Store) save(ctx context.Context) error {
	if err := s.provider.Save(ctx, s.tasks.Clone()); err != nil {
		return asStorage(err, "save tasks")
	}
	return nil
}

func notFound(id int) error {
	return task.NotFoundf("task not found: %d", id)
}

// asStorage passes provider storage errors through and wraps anything else.
func asStorage(err error, msg string) error {
	if task.IsStorage(err) {
		return err
	}
	return task.Storage(err, "%s", msg)
}
