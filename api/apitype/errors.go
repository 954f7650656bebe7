package apitype

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("cache entry not found")
	ErrUnknownFormat = errors.New("unknown image format")
	ErrNoFrames      = errors.New("image has no frames")
)

// DecodeError is returned when bytes can't be turned into frames with the
// given format.
type DecodeError struct {
	Format string
	Err    error
}

func NewDecodeError(format string, err error) *DecodeError {
	return &DecodeError{Format: format, Err: err}
}

func (s *DecodeError) Error() string {
	if s.Format == "" {
		return fmt.Sprintf("decode: %s", s.Err)
	}
	return fmt.Sprintf("decode %s: %s", s.Format, s.Err)
}

func (s *DecodeError) Unwrap() error {
	return s.Err
}

// IoError wraps file system failures of source files, the cache directory and
// the cache index.
type IoError struct {
	Op   string
	Path string
	Err  error
}

func NewIoError(op string, path string, err error) *IoError {
	return &IoError{Op: op, Path: path, Err: err}
}

func (s *IoError) Error() string {
	return fmt.Sprintf("%s '%s': %s", s.Op, s.Path, s.Err)
}

func (s *IoError) Unwrap() error {
	return s.Err
}

func IsDecodeError(err error) bool {
	var decodeError *DecodeError
	return errors.As(err, &decodeError)
}

func IsIoError(err error) bool {
	var ioError *IoError
	return errors.As(err, &ioError)
}
