// Package exitcode defines exit codes for the CLI.
package exitcode

import "todo/internal/task"

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, invalid input, unknown task).
	UserError = 1

	// AuthError indicates an auth/config error.
	AuthError = 2

	// StorageError indicates the task data could not be read or written.
	StorageError = 3
)

// For maps a store error to an exit code.
func For(err error) int {
	switch task.KindOf(err) {
	case 0:
		if err == nil {
			return Success
		}
		return StorageError
	case task.KindValidation, task.KindNotFound:
		return UserError
	default:
		return StorageError
	}
}
