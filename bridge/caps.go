package bridge

import (
	"os"
	"strings"
)

const (
	capsSurrounding = "surrounding"
	capsBasic       = "basic"
)

// WriteCaps rewrites the capability side-channel file. Failures are
// swallowed: the file only feeds an optional producer-side optimization
// and must never take the engine down.
func WriteCaps(path string, caps Capabilities) {
	val := capsBasic
	if caps.SurroundingText {
		val = capsSurrounding
	}
	_ = os.WriteFile(path, []byte(val+"\n"), 0600)
}

// ReadCaps reports the last negotiated target capabilities. A missing or
// unreadable file means "unknown"; producers assume basic.
func ReadCaps(path string) Capabilities {
	data, err := os.ReadFile(path)
	if err != nil {
		return Capabilities{}
	}
	return Capabilities{
		SurroundingText: strings.TrimSpace(string(data)) == capsSurrounding,
	}
}
