package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a pipeline failure by the stage that produced it.
type Kind string

const (
	KindAcquisition   Kind = "acquisition"
	KindNormalization Kind = "normalization"
	KindTranscription Kind = "transcription"
	KindSynthesis     Kind = "synthesis"
	KindPersistence   Kind = "persistence"
)

// Error implements the error interface so a bare Kind can be used as an errors.Is target.
func (k Kind) Error() string {
	return string(k) + " error"
}

// Pipeline error kinds, usable with errors.Is.
var (
	ErrAcquisition   error = KindAcquisition
	ErrNormalization error = KindNormalization
	ErrTranscription error = KindTranscription
	ErrSynthesis     error = KindSynthesis
	ErrPersistence   error = KindPersistence
)

// Common error types
var (
	ErrMissingAPIKey = New("API key is required")
	ErrInvalidConfig = New("invalid configuration")

	ErrEmptyAudio        = New("audio stream is empty")
	ErrUnsupportedFormat = New("unsupported audio format")
	ErrEmptyTranscript   = New("transcription returned empty text")
	ErrEmptyCompletion   = New("completion returned empty text")
	ErrInvalidTimestamp  = New("invalid record timestamp")
)

// Error represents a standardized error
type Error struct {
	kind    Kind
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// NewKind creates an error of the given kind without an underlying cause.
func NewKind(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: message,
		cause:   err,
	}
}

// WrapKind wraps err and tags it with a pipeline kind. A nil err yields nil.
func WrapKind(kind Kind, err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		kind:    kind,
		message: message,
		cause:   err,
	}
}

// EnsureKind tags err with kind unless it already carries one.
func EnsureKind(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != "" {
		return err
	}
	return &Error{kind: kind, message: string(kind) + " failed", cause: err}
}

// KindOf returns the outermost pipeline kind found in the chain of err, or "".
func KindOf(err error) Kind {
	for err != nil {
		var e *Error
		if !stderrors.As(err, &e) {
			return ""
		}
		if e.kind != "" {
			return e.kind
		}
		err = e.cause
	}
	return ""
}

// Kind returns the pipeline kind of the error, if any.
func (e *Error) Kind() Kind {
	return e.kind
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Kind:
		return e.kind != "" && e.kind == t
	case *Error:
		return e.message == t.message
	default:
		return false
	}
}
