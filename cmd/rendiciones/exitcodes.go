package main

import (
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/rendiciones/rendiciones/pkg/lock"
	"github.com/rendiciones/rendiciones/pkg/serrors"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitFailure    = 1
	exitValidation = 2
	exitUsage      = 3
	exitStorage    = 4
	exitPermission = 5
	exitNotFound   = 6
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	switch {
	case errors.Is(err, serrors.ErrValidation), errors.Is(err, serrors.ErrInvalidAssignee):
		return exitValidation
	case errors.Is(err, serrors.ErrPermissionDenied):
		return exitPermission
	case errors.Is(err, serrors.ErrNotFound):
		return exitNotFound
	case errors.Is(err, serrors.ErrStorage),
		errors.Is(err, lock.ErrNotAcquired),
		errors.Is(err, lock.ErrLost):
		return exitStorage
	}
	return exitFailure
}

// exactArgs is cobra.ExactArgs with the usage exit code.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		return withCode(exitUsage, cobra.ExactArgs(n)(cmd, a))
	}
}
