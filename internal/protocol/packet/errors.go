package packet

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated      = errors.New("packet: truncated data")
	ErrReservedLength = errors.New("packet: reserved length encoding")
	ErrPartialLength  = fmt.Errorf("%w: partial body length", ErrReservedLength)
	ErrMalformed      = errors.New("packet: malformed packet")
	ErrTagRange       = errors.New("packet: tag out of range for header format")
)

// DecodeError reports where in the buffer a walk failed. Tag is only
// meaningful when Format is set.
type DecodeError struct {
	Offset int
	Format Format
	Tag    Tag
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Format == FormatUnknown {
		return fmt.Sprintf("offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("offset %d (tag %d, %s format): %v", e.Offset, e.Tag, e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
