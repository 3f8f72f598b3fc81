package encode

import (
	"fmt"
	"strings"
)

type Format int

const (
	JSONFormat Format = iota
	YAMLFormat
	CBORFormat
	// CBORDiagFormat is the RFC 8949 diagnostic notation of the CBOR
	// encoding.
	CBORDiagFormat
)

func (f Format) String() string {
	switch f {
	case JSONFormat:
		return "json"
	case YAMLFormat:
		return "yaml"
	case CBORFormat:
		return "cbor"
	case CBORDiagFormat:
		return "cbor-diag"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Format) UnmarshalText(d []byte) error {
	ff, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = ff
	return nil
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json", "j":
		return JSONFormat, nil
	case "yaml", "yml", "y":
		return YAMLFormat, nil
	case "cbor", "c":
		return CBORFormat, nil
	case "cbor-diag", "diag", "d":
		return CBORDiagFormat, nil
	}
	return 0, fmt.Errorf("%w: unknown format %q", ErrEncoding, s)
}

// IsText reports whether output in f is printable.
func (f Format) IsText() bool {
	return f != CBORFormat
}

// Suffix returns the file extension for f.
func (f Format) Suffix() string {
	switch f {
	case YAMLFormat:
		return ".yaml"
	case CBORFormat:
		return ".cbor"
	case CBORDiagFormat:
		return ".diag"
	default:
		return ".json"
	}
}
