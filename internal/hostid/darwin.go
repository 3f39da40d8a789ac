//go:build darwin

package hostid

import (
	"context"
	"fmt"
)

// collectIdentifiers gathers macOS machine identifiers.
func collectIdentifiers(ctx context.Context, p *Provider, diag *DiagnosticInfo) []string {
	var identifiers []string

	identifiers = appendIdentifierIfValid(identifiers, func() (string, error) {
		return macOSPlatformUUID(ctx, p.commandExecutor)
	}, "uuid:", diag, ComponentPlatformUUID, p.logger)

	return identifiers
}

// macOSPlatformUUID reads IOPlatformUUID from ioreg, falling back to system_profiler.
func macOSPlatformUUID(ctx context.Context, executor CommandExecutor) (string, error) {
	output, err := executeCommand(ctx, executor, "ioreg", "-rd1", "-c", "IOPlatformExpertDevice")
	if err == nil {
		if uuid, parseErr := parseIORegUUID(output); parseErr == nil {
			return uuid, nil
		}
	}

	spOutput, spErr := executeCommand(ctx, executor, "system_profiler", "SPHardwareDataType", "-json")
	if spErr != nil {
		return "", fmt.Errorf("%w: ioreg: %w, system_profiler: %w", ErrAllMethodsFailed, errOrNotFound(err), spErr)
	}

	return parseSystemProfilerUUID(spOutput)
}

// errOrNotFound keeps error messages meaningful when the first method ran but
// produced unparseable output.
func errOrNotFound(err error) error {
	if err != nil {
		return err
	}

	return ErrNotFound
}
