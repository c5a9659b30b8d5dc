package audio

import (
	"fmt"
	"strings"
)

// WAVHeaderSize is the canonical RIFF header length for the PCM files the
// fake context replays.
const WAVHeaderSize = 44

// DataCallback receives one chunk of mono 16-bit samples from the capture
// thread. It must not block; heavy work belongs on another goroutine.
type DataCallback func(samples []int16)

type Config struct {
	SampleRate int
}

type DeviceInfo struct {
	ID   string // opaque platform-specific identifier
	Name string
}

// Context is a handle to the platform audio backend.
type Context interface {
	Devices() ([]DeviceInfo, error)
	NewCapture(device *DeviceInfo, config Config) (CaptureDevice, error)
	Close()
}

type CaptureDevice interface {
	Start() error
	Stop()
	Close()
	SetCallback(cb DataCallback)
	ClearCallback()
}

// FindDevice resolves a device by case-insensitive substring match on its
// name. Empty query means the system default (nil device).
func FindDevice(ctx Context, query string) (*DeviceInfo, error) {
	if query == "" {
		return nil, nil
	}
	devices, err := ctx.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerating devices: %w", err)
	}
	q := strings.ToLower(query)
	for i, d := range devices {
		if strings.Contains(strings.ToLower(d.Name), q) {
			return &devices[i], nil
		}
	}
	return nil, fmt.Errorf("no capture device matching %q (try -list-devices)", query)
}

var btKeywords = []string{
	"airpods", "beats", "bose", "wh-1000", "wf-1000",
	"jabra", "galaxy buds", "pixel buds",
	"bluetooth", " bt ", " bt)", " bt]",
}

// IsBluetooth guesses whether a device name is a bluetooth headset. The
// hands-free profile drops capture to 8-16kHz narrowband, which hurts
// recognition accuracy enough to be worth a warning.
func IsBluetooth(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range btKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
