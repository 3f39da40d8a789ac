package endpointreg

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestOperatingSystem(t *testing.T) {
	tests := map[string]string{
		"macos":   "MacOS",
		"linux":   "Linux",
		"windows": "Windows",
		"freebsd": "Freebsd",
		"Linux":   "Linux",
		"ios":     "Ios",
		"":        "",
		"é-os":    "É-os",
		"\xffabc": "\xffabc",
	}

	for raw, want := range tests {
		if got := OperatingSystem(raw); got != want {
			t.Errorf("OperatingSystem(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestArch(t *testing.T) {
	tests := map[string]string{
		"aarch64": "arm64",
		"x86_64":  "x86_64",
		"x86":     "x86",
		"arm64":   "arm64",
		"riscv64": "riscv64",
		"":        "",
	}

	for raw, want := range tests {
		if got := Arch(raw); got != want {
			t.Errorf("Arch(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestRuntimeNames(t *testing.T) {
	tests := []struct {
		goos, goarch string
		wantOS       string
		wantArch     string
	}{
		{"darwin", "arm64", "MacOS", "arm64"},
		{"darwin", "amd64", "MacOS", "x86_64"},
		{"linux", "amd64", "Linux", "x86_64"},
		{"linux", "arm64", "Linux", "arm64"},
		{"windows", "386", "Windows", "x86"},
		{"freebsd", "riscv64", "Freebsd", "riscv64"},
	}

	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			if got := OperatingSystem(rawOS(tt.goos)); got != tt.wantOS {
				t.Errorf("OperatingSystem(rawOS(%q)) = %q, want %q", tt.goos, got, tt.wantOS)
			}
			if got := Arch(rawArch(tt.goarch)); got != tt.wantArch {
				t.Errorf("Arch(rawArch(%q)) = %q, want %q", tt.goarch, got, tt.wantArch)
			}
		})
	}
}

func TestExecutableDir(t *testing.T) {
	exe := filepath.Join("opt", "agent", "bin", "agent")

	got, err := executableDir(func() (string, error) { return exe, nil })
	if err != nil {
		t.Fatalf("executableDir() error = %v", err)
	}

	if got != filepath.Join("opt", "agent", "bin") {
		t.Errorf("executableDir() = %q", got)
	}

	boom := errors.New("boom")
	if _, err := executableDir(func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Errorf("executableDir() error = %v, want %v", err, boom)
	}
}
