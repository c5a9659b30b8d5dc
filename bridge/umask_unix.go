//go:build !windows

package bridge

import "syscall"

func setUmask(mask int) int {
	return syscall.Umask(mask)
}
