package encode

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/signadot/go-bsonmap/ir"
)

// cborMode encodes under core deterministic encoding (RFC 8949 §4.2)
// with datetimes as tag 1 epoch values.
var cborMode cbor.EncMode

func init() {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeUnixDynamic
	opts.TimeTag = cbor.EncTagRequired
	var err error
	cborMode, err = opts.EncMode()
	if err != nil {
		panic("encode: CBOR encoder initialization failed: " + err.Error())
	}
}

// MarshalCBOR returns the CBOR encoding of node. Object keys are sorted,
// binary values become byte strings and datetimes tagged times.
func MarshalCBOR(node *ir.Node) ([]byte, error) {
	d, err := cborMode.Marshal(ir.ToAny(node))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return d, nil
}

func encodeCBOR(node *ir.Node, w io.Writer) error {
	d, err := MarshalCBOR(node)
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}

func encodeCBORDiag(node *ir.Node, w io.Writer) error {
	d, err := MarshalCBOR(node)
	if err != nil {
		return err
	}
	diag, err := cbor.Diagnose(d)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return writeString(w, diag+"\n")
}
