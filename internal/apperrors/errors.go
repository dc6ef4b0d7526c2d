// Package apperrors defines the failure taxonomy shared by the planner,
// processor and dispatcher. Classification decides retry behavior: a
// configuration or not-found error is terminal for the job it occurred in,
// while provider and persistence errors are retried up to the queue's
// attempt budget.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a missing newsletter, company, section or queue item.
	ErrNotFound = errors.New("not found")

	// ErrConfiguration marks a missing or invalid section-type template.
	ErrConfiguration = errors.New("configuration error")

	// ErrTransientProvider marks timeouts, rate-limit responses and empty
	// generation output from the content provider.
	ErrTransientProvider = errors.New("transient provider error")

	// ErrPersistence marks a store write failure.
	ErrPersistence = errors.New("persistence error")

	// ErrSectionsIncomplete marks a dispatch attempt on a newsletter whose
	// sections have not all completed.
	ErrSectionsIncomplete = errors.New("newsletter sections incomplete")
)

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
}

func Configurationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConfiguration}, args...)...)
}

func Transientf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrTransientProvider}, args...)...)
}

func Persistencef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrPersistence}, args...)...)
}

// IsTerminal reports whether err must fail its job permanently, with no
// further automatic retry regardless of attempts remaining.
func IsTerminal(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrConfiguration)
}
