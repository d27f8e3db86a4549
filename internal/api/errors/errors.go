package errors

import (
	"net/http"

	apperrors "github.com/aken1023/care-sch/internal/app/errors"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindInternal   ErrorKind = "internal"
	KindBadRequest ErrorKind = "bad_request"
	KindBadGateway ErrorKind = "bad_gateway"
)

// APIError represents a structured API error response
type APIError struct {
	Kind      ErrorKind         `json:"kind"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Code      string            `json:"code,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindBadRequest:
		return http.StatusBadRequest
	case KindBadGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error with field details
func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Message: message,
		Details: fields,
	}
}

func NewInternalError(message string) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Message: message,
	}
}

func NewBadRequestError(message string) *APIError {
	return &APIError{
		Kind:    KindBadRequest,
		Message: message,
	}
}

// FromPipeline maps a pipeline failure onto an API error. The stage kind is
// carried in Code; the message is the raw error text.
func FromPipeline(err error) *APIError {
	if err == nil {
		return nil
	}
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}

	kind := apperrors.KindOf(err)
	apiErr := &APIError{Message: err.Error(), Code: string(kind)}

	switch kind {
	case apperrors.KindAcquisition, apperrors.KindNormalization:
		apiErr.Kind = KindBadRequest
	case apperrors.KindTranscription, apperrors.KindSynthesis:
		apiErr.Kind = KindBadGateway
	default:
		apiErr.Kind = KindInternal
	}
	return apiErr
}
