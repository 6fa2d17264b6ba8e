package audio

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument   = errors.New("audio: invalid argument")
	ErrResourceExhausted = errors.New("audio: resource exhausted")
	ErrClosed            = errors.New("audio: manager closed")

	errNilVoice = errors.New("voice factory returned nil voice")
)

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func resourceExhausted(err error) error {
	return fmt.Errorf("%w: %w", ErrResourceExhausted, err)
}
