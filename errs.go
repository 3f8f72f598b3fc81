package bsonmap

import (
	"errors"
	"fmt"

	"github.com/signadot/go-bsonmap/serde"
	"github.com/signadot/go-bsonmap/stream"
	"github.com/signadot/go-bsonmap/wire"
)

var (
	ErrSerialization   = errors.New("serialization failed")
	ErrDeserialization = errors.New("deserialization failed")

	ErrUnsupportedType   = serde.ErrUnsupportedType
	ErrMalformedDocument = wire.ErrMalformedDocument
	ErrTruncatedStream   = stream.ErrTruncatedStream
)

type (
	UnsupportedTypeError   = serde.UnsupportedTypeError
	MalformedDocumentError = wire.MalformedDocumentError
	TruncatedStreamError   = stream.TruncatedStreamError
)

// SerializationError reports a failure of a resolved serializer.
type SerializationError struct {
	Type serde.Type
	Err  error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serializing %s: %v", e.Type, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

func (e *SerializationError) Is(target error) bool {
	return target == ErrSerialization
}

// DeserializationError reports a failure to rebuild a value from a well
// framed document.
type DeserializationError struct {
	Type serde.Type
	Err  error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("deserializing %s: %v", e.Type, e.Err)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

func (e *DeserializationError) Is(target error) bool {
	return target == ErrDeserialization
}
