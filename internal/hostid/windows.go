//go:build windows

package hostid

import (
	"context"
	"fmt"

	"golang.org/x/sys/windows/registry"
)

const (
	regKeyCryptography  = `SOFTWARE\Microsoft\Cryptography`
	regValueMachineGUID = `MachineGuid`
)

// collectIdentifiers gathers Windows machine identifiers.
func collectIdentifiers(ctx context.Context, p *Provider, diag *DiagnosticInfo) []string {
	var identifiers []string

	identifiers = appendIdentifierIfValid(identifiers, func() (string, error) {
		return windowsMachineGUID(ctx, p.commandExecutor)
	}, "guid:", diag, ComponentMachineGUID, p.logger)

	return identifiers
}

// windowsMachineGUID reads MachineGuid from the registry, falling back to the
// SMBIOS product UUID reported by PowerShell.
func windowsMachineGUID(ctx context.Context, executor CommandExecutor) (string, error) {
	guid, err := registryMachineGUID()
	if err == nil && guid != "" {
		return guid, nil
	}
	if err == nil {
		err = ErrEmptyValue
	}

	output, psErr := executeCommand(ctx, executor, "powershell", "-NoProfile", "-Command",
		"(Get-CimInstance -ClassName Win32_ComputerSystemProduct).UUID")
	if psErr != nil {
		return "", fmt.Errorf("%w: registry: %w, powershell: %w", ErrAllMethodsFailed, err, psErr)
	}

	return parsePowerShellValue(output)
}

func registryMachineGUID() (string, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, regKeyCryptography, registry.QUERY_VALUE|registry.WOW64_64KEY)
	if err != nil {
		return "", fmt.Errorf("opening registry key %q: %w", regKeyCryptography, err)
	}
	defer key.Close()

	guid, _, err := key.GetStringValue(regValueMachineGUID)
	if err != nil {
		return "", fmt.Errorf("reading registry value %q: %w", regValueMachineGUID, err)
	}

	return guid, nil
}
