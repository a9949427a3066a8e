// Package task defines the task model shared by the store and its backends.
package task

import "sort"

// Task represents a single to-do item.
type Task struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Collection maps task IDs to tasks.
// Keys always equal the ID of the task they hold.
type Collection map[int]Task

// Clone returns an independent copy of the collection.
// A nil collection clones to an empty one.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for id, t := range c {
		out[id] = t
	}
	return out
}

// Sorted returns the tasks ordered by ascending ID.
func (c Collection) Sorted() []Task {
	tasks := make([]Task, 0, len(c))
	for _, t := range c {
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks
}

// MaxID returns the largest ID in the collection, or 0 if it is empty.
func (c Collection) MaxID() int {
	highest := 0
	for id := range c {
		if id > highest {
			highest = id
		}
	}
	return highest
}

// Validate checks the structural invariants of a loaded collection:
// every ID is positive and matches its key.
func (c Collection) Validate() error {
	for key, t := range c {
		if key <= 0 {
			return Storage(nil, "invalid task id: %d", key)
		}
		if t.ID != key {
			return Storage(nil, "task id mismatch: key %d holds task %d", key, t.ID)
		}
	}
	return nil
}
