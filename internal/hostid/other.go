//go:build !linux && !darwin && !windows

package hostid

import "context"

var hostIDLocations = []string{"/etc/hostid"}

// collectIdentifiers gathers identifiers on BSD and other unix systems.
func collectIdentifiers(_ context.Context, p *Provider, diag *DiagnosticInfo) []string {
	var identifiers []string

	identifiers = appendIdentifierIfValid(identifiers, func() (string, error) {
		return readFirstValidFromLocations(hostIDLocations, isValidUUID)
	}, "hostid:", diag, ComponentHostID, p.logger)

	return identifiers
}
