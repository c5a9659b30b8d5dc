package bridge

import (
	"fmt"
	"os"
	"path/filepath"
)

func runtimeDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir
	}
	return os.TempDir()
}

// SocketPath is the default rendezvous socket for this user.
func SocketPath() string {
	return filepath.Join(runtimeDir(), fmt.Sprintf("voz-ibus-%d.sock", os.Getuid()))
}

// CapsPath is the capability side-channel file for this user.
func CapsPath() string {
	return filepath.Join(runtimeDir(), fmt.Sprintf("voz-ibus-caps-%d", os.Getuid()))
}
