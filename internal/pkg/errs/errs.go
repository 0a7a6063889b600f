package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValueIsRequired         = errors.New("value is required")
	ErrValueIsInvalid          = errors.New("value is invalid")
	ErrObjectNotFound          = errors.New("object not found")
	ErrConflict                = errors.New("conflict")
	ErrUnsupportedAdapter      = errors.New("unsupported delivery adapter")
	ErrMissingExternalID       = errors.New("external job id is missing")
	ErrInvalidSignature        = errors.New("invalid webhook signature")
	ErrMissingSignatureHeader  = errors.New("missing webhook signature header")
	ErrAdapterHTTPRequestError = errors.New("adapter http request failed")
)

// sanitize flattens newlines so error messages stay single-line in logs.
func sanitize(v any) string {
	return strings.ReplaceAll(fmt.Sprintf("%s", v), "\n", " ")
}

// ValueIsRequiredError indicates a required value was not provided.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, sanitize(e.ParamName), sanitize(e.Cause))
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, sanitize(e.ParamName))
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ValueIsInvalidError indicates a provided value failed validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, sanitize(e.ParamName), sanitize(e.Cause))
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, sanitize(e.ParamName))
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ObjectNotFoundError indicates an entity lookup produced no result.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, sanitize(e.ParamName), sanitize(e.ID), sanitize(e.Cause))
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, sanitize(e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ConflictError indicates the operation is not allowed in the current state,
// e.g. submitting an order after the slot's cutoff has passed. Never retried.
type ConflictError struct {
	Reason string
	Cause  error
}

func NewConflictError(reason string) *ConflictError {
	return &ConflictError{Reason: reason}
}

func NewConflictErrorWithCause(reason string, cause error) *ConflictError {
	return &ConflictError{Reason: reason, Cause: cause}
}

func (e *ConflictError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrConflict, sanitize(e.Reason), sanitize(e.Cause))
	}
	return fmt.Sprintf("%s: %s", ErrConflict, sanitize(e.Reason))
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// UnsupportedAdapterError indicates the requested adapter name is not
// registered or not configured.
type UnsupportedAdapterError struct {
	Name string
}

func NewUnsupportedAdapterError(name string) *UnsupportedAdapterError {
	return &UnsupportedAdapterError{Name: name}
}

func (e *UnsupportedAdapterError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnsupportedAdapter, sanitize(e.Name))
}

func (e *UnsupportedAdapterError) Unwrap() error {
	return ErrUnsupportedAdapter
}

// MissingExternalIDError indicates a provider violated its contract by
// omitting the external job identifier.
type MissingExternalIDError struct {
	Provider string
}

func NewMissingExternalIDError(provider string) *MissingExternalIDError {
	return &MissingExternalIDError{Provider: provider}
}

func (e *MissingExternalIDError) Error() string {
	return fmt.Sprintf("%s: provider is: %s", ErrMissingExternalID, sanitize(e.Provider))
}

func (e *MissingExternalIDError) Unwrap() error {
	return ErrMissingExternalID
}

// InvalidSignatureError indicates a webhook body did not match its HMAC
// signature. Treated as a potential security event, never retried.
type InvalidSignatureError struct {
	Provider string
}

func NewInvalidSignatureError(provider string) *InvalidSignatureError {
	return &InvalidSignatureError{Provider: provider}
}

func (e *InvalidSignatureError) Error() string {
	return fmt.Sprintf("%s: provider is: %s", ErrInvalidSignature, sanitize(e.Provider))
}

func (e *InvalidSignatureError) Unwrap() error {
	return ErrInvalidSignature
}

// MissingSignatureHeaderError indicates the provider-specific signature
// header was absent from a webhook request.
type MissingSignatureHeaderError struct {
	Provider string
	Header   string
}

func NewMissingSignatureHeaderError(provider, header string) *MissingSignatureHeaderError {
	return &MissingSignatureHeaderError{Provider: provider, Header: header}
}

func (e *MissingSignatureHeaderError) Error() string {
	return fmt.Sprintf("%s: provider is: %s, header is: %s",
		ErrMissingSignatureHeader, sanitize(e.Provider), sanitize(e.Header))
}

func (e *MissingSignatureHeaderError) Unwrap() error {
	return ErrMissingSignatureHeader
}

// AdapterHTTPError wraps every transport failure from an outbound provider
// call. Status is zero when no response was received (network-level error).
// Retryable reports whether the retry policy may re-attempt the call.
type AdapterHTTPError struct {
	Provider  string
	Message   string
	Status    int
	Retryable bool
	Details   string
	Cause     error
}

func NewAdapterHTTPError(provider, message string, status int, retryable bool) *AdapterHTTPError {
	return &AdapterHTTPError{
		Provider:  provider,
		Message:   message,
		Status:    status,
		Retryable: retryable,
	}
}

func NewAdapterHTTPErrorWithCause(provider, message string, cause error) *AdapterHTTPError {
	return &AdapterHTTPError{
		Provider:  provider,
		Message:   message,
		Retryable: true, // no response received
		Cause:     cause,
	}
}

func (e *AdapterHTTPError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s (cause: %s)", e.Provider, sanitize(e.Message), sanitize(e.Cause))
	}
	if e.Status != 0 {
		return fmt.Sprintf("[%s] %s (status: %d)", e.Provider, sanitize(e.Message), e.Status)
	}
	return fmt.Sprintf("[%s] %s", e.Provider, sanitize(e.Message))
}

func (e *AdapterHTTPError) Unwrap() error {
	return ErrAdapterHTTPRequestError
}

// IsRetryableAdapterError reports whether err is an AdapterHTTPError marked
// retryable. It is the ShouldRetry predicate shared by all adapters.
func IsRetryableAdapterError(err error) bool {
	var adapterErr *AdapterHTTPError
	if !errors.As(err, &adapterErr) {
		return false
	}
	return adapterErr.Retryable
}
