// Package execctx detects how the agent process is running.
package execctx

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/kardianos/service"

	"github.com/slashdevops/endpointreg"
)

// ErrUnknownUser is returned when neither the account database nor the
// environment names the current user.
var ErrUnknownUser = errors.New("cannot determine current user")

// Platform seams, replaced in tests.
var (
	isInteractive = service.Interactive
	isElevated    = elevated
	currentUser   = user.Current
	lookupEnv     = os.LookupEnv
)

// Detect builds the execution context of the current process. The service
// name and installation mode come from the agent configuration.
func Detect(serviceName, installationMode string) (endpointreg.ExecutionContext, error) {
	username, err := username()
	if err != nil {
		return endpointreg.ExecutionContext{}, err
	}

	admin, err := isElevated()
	if err != nil {
		return endpointreg.ExecutionContext{}, fmt.Errorf("checking elevation: %w", err)
	}

	return endpointreg.ExecutionContext{
		IsService:        !isInteractive(),
		IsElevated:       admin,
		ExecutedByUser:   username,
		InstallationMode: installationMode,
		ServiceName:      serviceName,
	}, nil
}

func username() (string, error) {
	u, err := currentUser()
	if err == nil && strings.TrimSpace(u.Username) != "" {
		return u.Username, nil
	}

	// cgo-less builds cannot always resolve the account; fall back to the
	// login environment.
	for _, key := range []string{"USER", "USERNAME", "LOGNAME"} {
		if v, ok := lookupEnv(key); ok && strings.TrimSpace(v) != "" {
			return v, nil
		}
	}

	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnknownUser, err)
	}

	return "", ErrUnknownUser
}
