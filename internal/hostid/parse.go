package hostid

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var ioregUUIDRe = regexp.MustCompile(`"IOPlatformUUID"\s*=\s*"([^"]+)"`)

// spHardwareDataType represents the JSON output of `system_profiler SPHardwareDataType -json`.
type spHardwareDataType struct {
	SPHardwareDataType []struct {
		PlatformUUID string `json:"platform_UUID"`
	} `json:"SPHardwareDataType"`
}

// readFirstValidFromLocations reads from multiple locations until a valid value is found.
func readFirstValidFromLocations(locations []string, validator func(string) bool) (string, error) {
	for _, location := range locations {
		data, err := os.ReadFile(location)
		if err != nil {
			continue
		}

		value := strings.TrimSpace(string(data))
		if validator(value) {
			return value, nil
		}
	}

	return "", fmt.Errorf("%w in %s", ErrNotFound, strings.Join(locations, ", "))
}

// isValidMachineID rejects empty ids and the systemd first-boot placeholder.
func isValidMachineID(id string) bool {
	return id != "" && id != "uninitialized"
}

// isValidUUID checks if UUID is valid (not empty or null)
func isValidUUID(uuid string) bool {
	return uuid != "" && uuid != "00000000-0000-0000-0000-000000000000"
}

// parseIORegUUID extracts IOPlatformUUID from ioreg output.
func parseIORegUUID(output string) (string, error) {
	match := ioregUUIDRe.FindStringSubmatch(output)
	if len(match) < 2 || !isValidUUID(match[1]) {
		return "", &ParseError{Source: "ioreg output", Err: ErrNotFound}
	}

	return match[1], nil
}

// parseSystemProfilerUUID extracts the platform UUID from system_profiler JSON.
func parseSystemProfilerUUID(jsonOutput string) (string, error) {
	var data spHardwareDataType
	if err := json.Unmarshal([]byte(jsonOutput), &data); err != nil {
		return "", &ParseError{Source: "system_profiler JSON", Err: err}
	}

	for _, entry := range data.SPHardwareDataType {
		if isValidUUID(entry.PlatformUUID) {
			return entry.PlatformUUID, nil
		}
	}

	return "", &ParseError{Source: "system_profiler JSON", Err: ErrNotFound}
}

// parsePowerShellValue returns the first non-empty line of PowerShell output.
func parsePowerShellValue(output string) (string, error) {
	for line := range strings.SplitSeq(output, "\n") {
		value := strings.TrimSpace(line)
		if isValidUUID(value) {
			return value, nil
		}
	}

	return "", &ParseError{Source: "powershell output", Err: ErrNotFound}
}
