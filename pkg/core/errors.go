package core

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Common errors.
var (
	ErrReadOnly          = errors.New("board is in read-only mode")
	ErrNoteNotFound      = errors.New("note not found")
	ErrInvalidZoom       = errors.New("zoom factor must be a finite positive number")
	ErrInvalidMove       = errors.New("move must keep the note at a finite position")
	ErrNilNote           = errors.New("note is nil")
	ErrDuplicateNoteID   = errors.New("note id already on the board")
	ErrGestureState      = errors.New("pointer event not valid in current gesture state")
	ErrDocumentNotFound  = errors.New("board document does not exist")
	ErrUnsupportedFormat = errors.New("unsupported board document format")
)

// InvalidTagError is returned when a tag is not part of the board palette.
type InvalidTagError struct {
	Tag Tag
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("invalid tag %q", string(e.Tag))
}

// TooManyBulletsError is returned when an edit carries more bullets than a note holds.
type TooManyBulletsError struct {
	Count int
	Max   int
}

func (e *TooManyBulletsError) Error() string {
	return fmt.Sprintf("too many bullets: %d (max %d)", e.Count, e.Max)
}

// InvalidRecordError describes a single persisted note record that failed validation.
// Index is the position of the record in the document, or -1 when unknown.
type InvalidRecordError struct {
	Index  int
	Field  string
	Reason string
}

func (e *InvalidRecordError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid record: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid record %d: %s: %s", e.Index, e.Field, e.Reason)
}

// InvalidDocumentError reports a board document that could not be loaded.
// Errs holds the underlying failures, usually one *InvalidRecordError per bad record.
type InvalidDocumentError struct {
	Errs []error
}

// NewInvalidDocumentError flattens err (which may be a multierr aggregate) into an InvalidDocumentError.
func NewInvalidDocumentError(err error) *InvalidDocumentError {
	return &InvalidDocumentError{Errs: multierr.Errors(err)}
}

func (e *InvalidDocumentError) Error() string {
	if len(e.Errs) == 0 {
		return "invalid document"
	}
	msgs := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		msgs = append(msgs, err.Error())
	}
	return "invalid document: " + strings.Join(msgs, "; ")
}

func (e *InvalidDocumentError) Unwrap() []error {
	return e.Errs
}
