package wire

import (
	"encoding/binary"
	"math"
)

const (
	// MinDocumentSize is the size of the empty document: a length prefix
	// and the terminator.
	MinDocumentSize = 5
	// DefaultMaxDocumentSize is the largest document a MongoDB server
	// accepts on the wire.
	DefaultMaxDocumentSize = 16*1024*1024 + 16*1024

	// NullMarker is written in place of a document for an absent value.
	NullMarker byte = 0x0A
)

// ReadLength returns the declared length of the document starting at
// b, and false if fewer than 4 bytes are available.
func ReadLength(b []byte) (int, bool) {
	if len(b) < 4 {
		return 0, false
	}
	n := binary.LittleEndian.Uint32(b)
	if n > math.MaxInt32 {
		return -1, true
	}
	return int(n), true
}

// PutLength writes n as the length prefix of b.
func PutLength(b []byte, n int) {
	binary.LittleEndian.PutUint32(b, uint32(n))
}

// CheckFrame verifies that b holds exactly one framed document.
func CheckFrame(b []byte) error {
	n, ok := ReadLength(b)
	if !ok {
		return &MalformedDocumentError{Declared: -1, Actual: len(b), Reason: "shorter than a length prefix"}
	}
	switch {
	case n < MinDocumentSize:
		return &MalformedDocumentError{Declared: n, Actual: len(b), Reason: "declared length below minimum"}
	case n != len(b):
		return &MalformedDocumentError{Declared: n, Actual: len(b), Reason: "declared length does not match buffer"}
	case b[n-1] != 0:
		return &MalformedDocumentError{Declared: n, Actual: len(b), Reason: "missing terminator"}
	}
	return nil
}

// IsNullMarker reports whether b is the binary encoding of an absent value.
func IsNullMarker(b []byte) bool {
	return len(b) == 1 && b[0] == NullMarker
}
