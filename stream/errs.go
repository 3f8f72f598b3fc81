package stream

import (
	"errors"
	"fmt"

	"github.com/signadot/go-bsonmap/wire"
)

var (
	ErrTruncatedStream = errors.New("truncated stream")
	ErrClosed          = errors.New("splitter closed")

	ErrMalformedDocument = wire.ErrMalformedDocument
)

type MalformedDocumentError = wire.MalformedDocumentError

// TruncatedStreamError reports bytes left over when a stream ends inside
// a document.
type TruncatedStreamError struct {
	Residual int
	Declared int // declared length of the pending document, 0 if unknown
}

func (e *TruncatedStreamError) Error() string {
	if e.Declared > 0 {
		return fmt.Sprintf("truncated stream: %d of %d bytes of the last document received", e.Residual, e.Declared)
	}
	return fmt.Sprintf("truncated stream: %d bytes of an incomplete length prefix", e.Residual)
}

func (e *TruncatedStreamError) Is(target error) bool {
	return target == ErrTruncatedStream
}
