package parse

import (
	"errors"
	"fmt"
)

var (
	ErrParse       = errors.New("parse error")
	ErrUnsupported = fmt.Errorf("%w: unsupported construct", ErrParse)
	ErrNoDocument  = fmt.Errorf("%w: no document", ErrParse)
)
