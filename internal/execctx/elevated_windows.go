//go:build windows

package execctx

import "golang.org/x/sys/windows"

// elevated reports whether the process token is elevated (UAC admin).
func elevated() (bool, error) {
	return windows.GetCurrentProcessToken().IsElevated(), nil
}
