package frame

import (
	"errors"
	"fmt"
	"io"
)

var (
	ErrTruncated = errors.New("frame: truncated")
	ErrTooLarge  = errors.New("frame: payload too large")
	ErrIO        = errors.New("frame: read failed")
)

type ParseErrorKind uint8

const (
	// KindTruncated marks a partial trailing header or payload. Callers scanning a
	// log treat it as end-of-stream: it is what an interrupted append leaves behind.
	KindTruncated ParseErrorKind = iota
	KindTooLarge
	KindIO
)

func (k ParseErrorKind) String() string {
	switch k {
	case KindTruncated:
		return "truncated"
	case KindTooLarge:
		return "too_large"
	case KindIO:
		return "io_error"
	default:
		return "unknown"
	}
}

type ParseError struct {
	Kind ParseErrorKind
	// Offset is the starting byte offset of the frame (at the length header).
	Offset      int64
	DeclaredLen uint32
	Want        int
	Have        int
	Err         error
}

func (e *ParseError) Error() string {
	cause := "<nil>"
	if e.Err != nil {
		cause = e.Err.Error()
	}
	return fmt.Sprintf("frame parse error kind=%s offset=%d len=%d want=%d have=%d: %s",
		e.Kind.String(), e.Offset, e.DeclaredLen, e.Want, e.Have, cause)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	switch target {
	case ErrTruncated:
		return e.Kind == KindTruncated
	case ErrTooLarge:
		return e.Kind == KindTooLarge
	case ErrIO:
		return e.Kind == KindIO
	}
	return false
}

func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

func IsCleanEOF(err error) bool {
	return errors.Is(err, io.EOF)
}

func IsTruncation(err error) bool {
	return errors.Is(err, ErrTruncated)
}
