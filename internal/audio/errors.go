package audio

import "fmt"

type Kind int

const (
	KindInvalidSampleRate Kind = iota
	KindInvalidChannels
	KindInvalidBufferSize
	KindFailedToCreateBackend
	KindFailedToStartBackend
)

// Error provides detailed, typed error context for audio operations.
type Error struct {
	Op      string
	Kind    Kind
	Details string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("audio %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("audio %s failed: %s", e.Op, e.Details)
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(op string, kind Kind, details string) *Error {
	return &Error{Op: op, Kind: kind, Details: details}
}

func wrapErr(op string, kind Kind, details string, err error) *Error {
	return &Error{Op: op, Kind: kind, Details: details, Err: err}
}
