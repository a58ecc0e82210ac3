//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly && !windows

package cli

// IsTerminal always reports false where terminal detection is unsupported.
func IsTerminal(fd uintptr) bool {
	return false
}
