package endpointreg

import (
	"path/filepath"
	"unicode"
	"unicode/utf8"
)

const (
	osMacOS         = "macos"
	osMacOSBranded  = "MacOS"
	archAArch64     = "aarch64"
	archARM64Vendor = "arm64"
)

// goosNames maps runtime.GOOS values to the names the registrar has always received.
var goosNames = map[string]string{
	"darwin": osMacOS,
}

// goarchNames maps runtime.GOARCH values to the names the registrar has always received.
var goarchNames = map[string]string{
	"amd64":    "x86_64",
	"arm64":    archAArch64,
	"386":      "x86",
	"ppc64":    "powerpc64",
	"ppc64le":  "powerpc64",
	"loong64":  "loongarch64",
	"mips64le": "mips64",
}

// OperatingSystem returns the display name for a raw lower-case OS identifier.
// "macos" becomes "MacOS"; anything else has its first letter upper-cased.
func OperatingSystem(raw string) string {
	if raw == osMacOS {
		return osMacOSBranded
	}

	return capitalize(raw)
}

// Arch returns the architecture name sent to the registrar. "aarch64" is
// reported as "arm64"; every other value passes through.
func Arch(raw string) string {
	if raw == archAArch64 {
		return archARM64Vendor
	}

	return raw
}

// capitalize upper-cases the first rune of s and leaves the rest unchanged.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return ""
	}
	if r == utf8.RuneError && size == 1 {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}

func rawOS(goos string) string {
	if name, ok := goosNames[goos]; ok {
		return name
	}

	return goos
}

func rawArch(goarch string) string {
	if name, ok := goarchNames[goarch]; ok {
		return name
	}

	return goarch
}

// executableDir returns the directory holding the running executable.
func executableDir(executable func() (string, error)) (string, error) {
	path, err := executable()
	if err != nil {
		return "", err
	}

	return filepath.Dir(path), nil
}
