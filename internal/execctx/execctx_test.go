package execctx

import (
	"errors"
	"os/user"
	"testing"

	"github.com/slashdevops/endpointreg"
)

// stubPlatform swaps the platform seams for the duration of a test.
func stubPlatform(t *testing.T, interactive, admin bool, u *user.User, userErr error, env map[string]string) {
	t.Helper()

	origInteractive, origElevated, origUser, origEnv := isInteractive, isElevated, currentUser, lookupEnv
	t.Cleanup(func() {
		isInteractive, isElevated, currentUser, lookupEnv = origInteractive, origElevated, origUser, origEnv
	})

	isInteractive = func() bool { return interactive }
	isElevated = func() (bool, error) { return admin, nil }
	currentUser = func() (*user.User, error) { return u, userErr }
	lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name        string
		interactive bool
		admin       bool
		want        endpointreg.ExecutionContext
	}{
		{
			name:        "interactive user session",
			interactive: true,
			want: endpointreg.ExecutionContext{
				ExecutedByUser:   "alice",
				InstallationMode: "session-user",
				ServiceName:      "openaev-agent",
			},
		},
		{
			name:  "elevated service",
			admin: true,
			want: endpointreg.ExecutionContext{
				IsService:        true,
				IsElevated:       true,
				ExecutedByUser:   "alice",
				InstallationMode: "session-user",
				ServiceName:      "openaev-agent",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubPlatform(t, tt.interactive, tt.admin, &user.User{Username: "alice"}, nil, nil)

			got, err := Detect("openaev-agent", "session-user")
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Detect() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDetectUserFallsBackToEnvironment(t *testing.T) {
	stubPlatform(t, true, false, nil, errors.New("user: Current requires cgo"), map[string]string{"USERNAME": "bob"})

	got, err := Detect("", "service")
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if got.ExecutedByUser != "bob" {
		t.Errorf("ExecutedByUser = %q, want bob", got.ExecutedByUser)
	}
}

func TestDetectUnknownUser(t *testing.T) {
	lookupErr := errors.New("user: unknown userid 1001")
	stubPlatform(t, true, false, nil, lookupErr, nil)

	_, err := Detect("", "service")
	if !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("Detect() error = %v, want ErrUnknownUser", err)
	}
	if !errors.Is(err, lookupErr) {
		t.Errorf("Detect() error should wrap the lookup failure, got %v", err)
	}

	stubPlatform(t, true, false, &user.User{}, nil, nil)
	if _, err := Detect("", "service"); !errors.Is(err, ErrUnknownUser) {
		t.Errorf("Detect() with blank username error = %v, want ErrUnknownUser", err)
	}
}

func TestDetectElevationFailure(t *testing.T) {
	stubPlatform(t, true, false, &user.User{Username: "alice"}, nil, nil)
	isElevated = func() (bool, error) { return false, errors.New("token query failed") }

	if _, err := Detect("", "service"); err == nil {
		t.Error("Detect() should fail when elevation cannot be determined")
	}
}
