package wire

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedDocument  = errors.New("malformed document")
	ErrIncompleteDocument = errors.New("incomplete document")
	ErrClosed             = errors.New("closed")
)

// MalformedDocumentError reports a buffer that is not exactly one framed
// document.
type MalformedDocumentError struct {
	Declared int // declared length, -1 if unreadable
	Actual   int
	Reason   string
}

func (e *MalformedDocumentError) Error() string {
	if e.Declared < 0 {
		return fmt.Sprintf("malformed document (%d bytes): %s", e.Actual, e.Reason)
	}
	return fmt.Sprintf("malformed document (declared %d, actual %d bytes): %s", e.Declared, e.Actual, e.Reason)
}

func (e *MalformedDocumentError) Is(target error) bool {
	return target == ErrMalformedDocument
}

var ErrMisplaced = errors.New("misplaced write")
