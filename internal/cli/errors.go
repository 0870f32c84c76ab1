package cli

import (
	"errors"

	"taskorium-cli/internal/mutate"
	"taskorium-cli/internal/store"
)

// Exit codes returned by the binary.
const (
	ExitOK         = 0
	ExitError      = 1
	ExitValidation = 2
	ExitNotFound   = 3
)

var errNoCurrentProject = errors.New("no current project; pass a project id or run `taskorium projects use <project-id>`")

// ExitCode classifies err for the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case mutate.IsNotFound(err):
		return ExitNotFound
	case mutate.IsValidation(err), errors.Is(err, store.ErrDoctorIssuesFound):
		return ExitValidation
	default:
		return ExitError
	}
}

func errNotFound(kind, id string) error {
	return mutate.NotFoundError{Kind: kind, ID: id}
}
