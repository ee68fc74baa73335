package contract

import "errors"

var (
	ErrUnknownStandard  = errors.New("unknown standard")
	ErrUnknownExtension = errors.New("unknown extension")
	ErrUnknownFile      = errors.New("unknown output file")
)
