package endpointreg

import (
	"errors"
	"fmt"
	"testing"
)

func TestCollectionErrorMessage(t *testing.T) {
	inner := fmt.Errorf("route ip+net: netlinkrib: permission denied")
	err := &CollectionError{Component: ComponentInterfaces, Err: inner}

	want := "collecting interfaces: route ip+net: netlinkrib: permission denied"
	if err.Error() != want {
		t.Errorf("CollectionError.Error() = %q, want %q", err.Error(), want)
	}

	if err.Unwrap() != inner {
		t.Error("CollectionError.Unwrap() did not return inner error")
	}
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{StatusCode: 403, Body: "forbidden"}

	want := "registration api error (status 403): forbidden"
	if err.Error() != want {
		t.Errorf("APIError.Error() = %q, want %q", err.Error(), want)
	}
}

func TestInternalErrorMessage(t *testing.T) {
	inner := fmt.Errorf("dial tcp 10.0.0.1:443: connect: connection refused")
	err := &InternalError{Op: "send", Err: inner}

	want := "registration send: dial tcp 10.0.0.1:443: connect: connection refused"
	if err.Error() != want {
		t.Errorf("InternalError.Error() = %q, want %q", err.Error(), want)
	}
}

// TestErrorKinds checks every error type matches exactly its own kind,
// including through wrapping.
func TestErrorKinds(t *testing.T) {
	kinds := []error{ErrCollection, ErrAPI, ErrInternal}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"collection", &CollectionError{Component: ComponentHostname, Err: errors.New("x")}, ErrCollection},
		{"api", &APIError{StatusCode: 500, Body: "x"}, ErrAPI},
		{"internal", &InternalError{Op: "send", Err: errors.New("x")}, ErrInternal},
		{"wrapped api", fmt.Errorf("attempt 1: %w", &APIError{StatusCode: 401}), ErrAPI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, kind := range kinds {
				if got := errors.Is(tt.err, kind); got != (kind == tt.want) {
					t.Errorf("errors.Is(%v, %v) = %v", tt.err, kind, got)
				}
			}
		})
	}
}
