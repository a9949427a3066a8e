// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"todo/internal/task"
)

// FakeProvider is an in-memory implementation of store.Provider for testing.
// It keeps the last saved collection and counts calls.
type FakeProvider struct {
	mu    sync.Mutex
	tasks task.Collection
	saved bool

	// Error injection for testing
	LoadErr error
	SaveErr error

	Loads int
	Saves int
}

// NewFakeProvider creates an empty FakeProvider, as on a first run.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{}
}

// NewFakeProviderWith creates a FakeProvider that already holds tasks.
func NewFakeProviderWith(tasks ...task.Task) *FakeProvider {
	f := &FakeProvider{tasks: make(task.Collection), saved: true}
	for _, t := range tasks {
		f.tasks[t.ID] = t
	}
	return f
}

// Load implements store.Provider.
func (f *FakeProvider) Load(ctx context.Context) (task.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Loads++
	if f.LoadErr != nil {
		return nil, f.LoadErr
	}
	if !f.saved {
		return task.Collection{}, nil
	}
	return f.tasks.Clone(), nil
}

// Save implements store.Provider.
func (f *FakeProvider) Save(ctx context.Context, tasks task.Collection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Saves++
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.tasks = tasks.Clone()
	f.saved = true
	return nil
}

// Stored returns a copy of the last saved collection.
func (f *FakeProvider) Stored() task.Collection {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tasks.Clone()
}
