// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todo/internal/task"
)

const (
	// DoneMark marks completed tasks.
	DoneMark = "✓"

	// OpenMark marks open tasks.
	OpenMark = " "
)

// FormatTask formats a task line.
// Format: "{ID}. [{mark}] {DESCRIPTION}\n"
func FormatTask(w io.Writer, t task.Task) {
	fmt.Fprintf(w, "%d. [%s] %s\n", t.ID, Mark(t), normalizeDescription(t.Description))
}

// FormatTasks formats tasks in the order given.
func FormatTasks(w io.Writer, tasks []task.Task) {
	for _, t := range tasks {
		FormatTask(w, t)
	}
}

// Mark returns the completion marker for t.
func Mark(t task.Task) string {
	if t.Completed {
		return DoneMark
	}
	return OpenMark
}

// OpenOnly returns the tasks that are not completed, keeping their order.
func OpenOnly(tasks []task.Task) []task.Task {
	var open []task.Task
	for _, t := range tasks {
		if !t.Completed {
			open = append(open, t)
		}
	}
	return open
}

// normalizeDescription normalizes a description for single-line display.
// - Newlines are replaced with spaces
// - Whitespace-only descriptions become "(untitled)"
func normalizeDescription(desc string) string {
	desc = strings.ReplaceAll(desc, "\r\n", " ")
	desc = strings.ReplaceAll(desc, "\r", " ")
	desc = strings.ReplaceAll(desc, "\n", " ")

	if strings.TrimSpace(desc) == "" {
		return "(untitled)"
	}
	return desc
}
