package service

import (
	"errors"
	"fmt"

	"github.com/garyjia/invoice-labeler/internal/voucher"
)

// Kind classifies service errors
type Kind int

const (
	// KindUserInput means the request cannot be served as given; state is untouched
	KindUserInput Kind = iota + 1
	// KindCollaborator means a text layer, importer or similar collaborator failed
	KindCollaborator
)

func (k Kind) String() string {
	switch k {
	case KindUserInput:
		return "user_input"
	case KindCollaborator:
		return "collaborator"
	default:
		return "unknown"
	}
}

var (
	ErrNoDocument          = errors.New("no document selected")
	ErrGuidelinesNotLoaded = errors.New("no guidelines imported; confirm to continue with default cost center and group")
	ErrNoRecords           = voucher.ErrNoRecords
	ErrNoAnnotatedDocument = errors.New("no annotated document; process an invoice first")
	ErrSessionNotFound     = errors.New("session not found")
)

// Error carries the kind and the failed operation
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func userInputError(op string, err error) error {
	return &Error{Kind: KindUserInput, Op: op, Err: err}
}

func collaboratorError(op string, err error) error {
	return &Error{Kind: KindCollaborator, Op: op, Err: err}
}

// KindOf returns the kind of a service error, or 0 for other errors
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}
