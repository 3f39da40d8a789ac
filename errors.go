package endpointreg

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by [Collector.Collect], [Client.Register]
// and [Client.RegisterAgent] matches exactly one of these with [errors.Is].
var (
	// ErrCollection marks a failure to read the host identity. No request
	// was sent.
	ErrCollection = errors.New("host identity collection failed")

	// ErrAPI marks a registration the server answered with a non-success status.
	ErrAPI = errors.New("registration rejected by server")

	// ErrInternal marks a registration that could not complete the HTTP
	// exchange or whose success response could not be understood.
	ErrInternal = errors.New("registration failed")
)

// Sentinel causes wrapped by the typed errors below.
var (
	ErrMissingAssetID  = errors.New("response has no asset_id")
	ErrNilIdentity     = errors.New("host identity is nil")
	ErrMissingBaseURL  = errors.New("base url is empty")
	ErrUnknownVariant  = errors.New("unknown registration variant")
	ErrEmptyHostname   = errors.New("hostname is empty")
	ErrInvalidBaseURL  = errors.New("base url must be an absolute http or https url")
	ErrMissingAPIToken = errors.New("api token is empty")
)

// unknownErrorMessage replaces the body of a failed response that could not be read.
const unknownErrorMessage = "Unknown error"

// Components reported by CollectionError.
const (
	ComponentHostname              = "hostname"
	ComponentInterfaces            = "interfaces"
	ComponentExternalReference     = "external_reference"
	ComponentInstallationDirectory = "installation_directory"
)

// CollectionError records a host identity facility that was unavailable.
// Use [errors.As] to extract the component from wrapped errors.
type CollectionError struct {
	Component string // one of the Component* constants
	Err       error  // underlying error
}

// Error returns a human-readable description of the collection failure.
func (e *CollectionError) Error() string {
	return fmt.Sprintf("collecting %s: %v", e.Component, e.Err)
}

// Unwrap returns the underlying error.
func (e *CollectionError) Unwrap() error {
	return e.Err
}

// Is reports whether target is [ErrCollection].
func (e *CollectionError) Is(target error) bool {
	return target == ErrCollection
}

// APIError is a non-success HTTP response from the registration endpoint.
type APIError struct {
	StatusCode int    // HTTP status code
	Body       string // raw response body, or "Unknown error" if unreadable
}

// Error returns the status and the server-provided body.
func (e *APIError) Error() string {
	return fmt.Sprintf("registration api error (status %d): %s", e.StatusCode, e.Body)
}

// Is reports whether target is [ErrAPI].
func (e *APIError) Is(target error) bool {
	return target == ErrAPI
}

// InternalError records a transport or protocol failure.
type InternalError struct {
	Op  string // "encode", "send" or "decode"
	Err error  // underlying error
}

// Error returns a human-readable description of the failure.
func (e *InternalError) Error() string {
	return fmt.Sprintf("registration %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is reports whether target is [ErrInternal].
func (e *InternalError) Is(target error) bool {
	return target == ErrInternal
}
