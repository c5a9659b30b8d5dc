//go:build windows

package bridge

// Windows has no process umask; named pipe and AF_UNIX socket ACLs
// default to the owner. Listen still chmods after binding.
func setUmask(mask int) int {
	return 0
}
