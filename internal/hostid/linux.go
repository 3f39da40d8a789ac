//go:build linux

package hostid

import "context"

// machineIDLocations lists where systemd and dbus store the machine id.
var machineIDLocations = []string{
	"/etc/machine-id",
	"/var/lib/dbus/machine-id",
}

// collectIdentifiers gathers Linux machine identifiers.
func collectIdentifiers(_ context.Context, p *Provider, diag *DiagnosticInfo) []string {
	var identifiers []string

	identifiers = appendIdentifierIfValid(identifiers, linuxMachineID, "machine:", diag, ComponentMachineID, p.logger)

	return identifiers
}

// linuxMachineID retrieves the systemd machine ID.
func linuxMachineID() (string, error) {
	return readFirstValidFromLocations(machineIDLocations, isValidMachineID)
}
