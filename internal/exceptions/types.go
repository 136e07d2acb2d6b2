package exceptions

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("already exists")
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized covers bad credentials and missing or invalid tokens
	ErrUnauthorized = errors.New("invalid credentials")

	ErrDuplicateTag        = errors.New("tags must be unique")
	ErrDuplicateIngredient = errors.New("ingredients must be unique")
	ErrSelfSubscription    = errors.New("cannot subscribe to yourself")

	// ErrExhaustedIdentifierSpace means no free short-link token was found within the retry budget
	ErrExhaustedIdentifierSpace = errors.New("exhausted short link identifier space")
)

type ConflictError struct {
	Resource string
	Id       string
}

func (ce *ConflictError) Error() string {
	return fmt.Sprintf("%s %s already exists", ce.Resource, ce.Id)
}

func (ce *ConflictError) Unwrap() error {
	return ErrConflict
}

func Conflict(resource string, id any) *ConflictError {
	return &ConflictError{
		Resource: resource,
		Id:       fmt.Sprint(id),
	}
}

type NotFoundError struct {
	Resource string
	Id       string
}

func (nfe *NotFoundError) Error() string {
	return fmt.Sprintf("could not find a %s with id: %s", nfe.Resource, nfe.Id)
}

func (nfe *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func NotFound(resource string, id any) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Id:       fmt.Sprint(id),
	}
}

// FieldError is a single field-level validation failure
type FieldError struct {
	Field   string
	Message string
	Err     error
}

// ValidationError collects every field failure of one request
type ValidationError struct {
	Fields []FieldError
}

func (ve *ValidationError) Error() string {
	parts := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes the sentinel causes so errors.Is(err, ErrDuplicateTag) holds
func (ve *ValidationError) Unwrap() []error {
	var errs []error
	for _, f := range ve.Fields {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errs
}

// Add records a failure for field
func (ve *ValidationError) Add(field, message string) {
	ve.Fields = append(ve.Fields, FieldError{Field: field, Message: message})
}

// AddErr records a failure whose message comes from a sentinel error
func (ve *ValidationError) AddErr(field string, err error) {
	ve.Fields = append(ve.Fields, FieldError{Field: field, Message: err.Error(), Err: err})
}

// ErrOrNil returns nil when nothing was recorded
func (ve *ValidationError) ErrOrNil() error {
	if len(ve.Fields) == 0 {
		return nil
	}
	return ve
}

// FieldMap groups messages per field for response bodies
func (ve *ValidationError) FieldMap() map[string][]string {
	out := make(map[string][]string, len(ve.Fields))
	for _, f := range ve.Fields {
		out[f.Field] = append(out[f.Field], f.Message)
	}
	for k := range out {
		sort.Strings(out[k])
	}
	return out
}

// Invalid builds a single-field validation error
func Invalid(field string, err error) *ValidationError {
	ve := &ValidationError{}
	ve.AddErr(field, err)
	return ve
}

// Status maps an error to the HTTP status it should surface as
func Status(err error) int {
	var ve *ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
