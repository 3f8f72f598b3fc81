package treecodec

import "errors"

var (
	ErrIncomplete = errors.New("incomplete tree")
	ErrMisplaced  = errors.New("misplaced write")
)
