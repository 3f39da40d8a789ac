//go:build !windows

package execctx

import "os"

// elevated reports whether the process runs with effective UID 0.
func elevated() (bool, error) {
	return os.Geteuid() == 0, nil
}
