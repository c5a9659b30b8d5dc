package doctor

import (
	"fmt"
	"os"
	"time"

	"voz/audio"
	"voz/bridge"
	"voz/ibus"
	"voz/model"
)

// Run executes system diagnostics and returns an exit code (0=all pass,
// 1=any fail). Checks are ordered from the engine side outward: a broken
// IBus setup makes every later check moot.
func Run(modelName, cacheDir, socketPath string) int {
	fmt.Println("voz doctor - system diagnostics")
	fmt.Println("===============================")

	allPass := true

	if !checkIBus() {
		allPass = false
	}
	if !checkEngineSocket(socketPath) {
		allPass = false
	}
	checkModel(modelName, cacheDir)
	if !checkMicrophone() {
		allPass = false
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Println("Some checks failed. See details above.")
	return 1
}

func checkIBus() bool {
	fmt.Println()
	fmt.Println("[1/4] IBus daemon")

	bus, err := ibus.Connect()
	if err != nil {
		fmt.Printf("  FAIL: cannot reach the IBus daemon: %v\n", err)
		fmt.Println("  Is ibus-daemon running in this session?")
		return false
	}
	bus.Close()
	fmt.Println("  PASS: IBus daemon reachable")
	return true
}

func checkEngineSocket(socketPath string) bool {
	fmt.Println()
	fmt.Println("[2/4] Engine rendezvous socket")

	if _, err := os.Stat(socketPath); err != nil {
		fmt.Printf("  FAIL: no socket at %s\n", socketPath)
		fmt.Println("  Start the bridge with `voz engine`.")
		return false
	}
	client, err := bridge.DialClient(socketPath)
	if err != nil {
		fmt.Printf("  FAIL: socket exists but refuses connections: %v\n", err)
		fmt.Println("  A previous engine may have crashed; restart `voz engine`.")
		return false
	}
	client.Close()

	caps := bridge.ReadCaps(bridge.CapsPath())
	label := "basic (no focused client yet, or a terminal)"
	if caps.SurroundingText {
		label = "surrounding text"
	}
	fmt.Printf("  PASS: engine reachable, last client caps: %s\n", label)
	return true
}

// checkModel is informational: an uncached model downloads on first run,
// so its absence is not a failure.
func checkModel(modelName, cacheDir string) {
	fmt.Println()
	fmt.Println("[3/4] Recognition model")

	info, err := model.Lookup(modelName)
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return
	}
	if model.Cached(modelName, cacheDir) {
		fmt.Printf("  PASS: %s cached in %s\n", modelName, cacheDir)
		return
	}
	fmt.Printf("  INFO: %s not cached, first run downloads ~%dMB\n", modelName, info.SizeMB)
}

func checkMicrophone() bool {
	fmt.Println()
	fmt.Println("[4/4] Microphone")

	ctx, err := audio.NewContext()
	if err != nil {
		fmt.Printf("  FAIL: cannot connect to audio: %v\n", err)
		return false
	}
	defer ctx.Close()

	devices, err := ctx.Devices()
	if err != nil {
		fmt.Printf("  FAIL: cannot list devices: %v\n", err)
		return false
	}
	if len(devices) == 0 {
		fmt.Println("  FAIL: no capture devices found")
		return false
	}
	for _, d := range devices {
		note := ""
		if audio.IsBluetooth(d.Name) {
			note = "  (bluetooth: lower audio quality)"
		}
		fmt.Printf("  device: %s%s\n", d.Name, note)
	}

	capture, err := ctx.NewCapture(nil, audio.Config{SampleRate: 16000})
	if err != nil {
		fmt.Printf("  FAIL: cannot open default device: %v\n", err)
		return false
	}
	defer capture.Close()

	fmt.Print("  Sampling 3s from the default device...")
	peakCh := make(chan int16, 64)
	capture.SetCallback(func(samples []int16) {
		var peak int16
		for _, s := range samples {
			if s < 0 {
				s = -s
			}
			if s > peak {
				peak = s
			}
		}
		select {
		case peakCh <- peak:
		default:
		}
	})
	if err := capture.Start(); err != nil {
		fmt.Printf("\n  FAIL: capture start: %v\n", err)
		return false
	}

	var peak int16
	deadline := time.After(3 * time.Second)
sample:
	for {
		select {
		case p := <-peakCh:
			if p > peak {
				peak = p
			}
		case <-deadline:
			break sample
		}
	}
	capture.Stop()
	fmt.Println(" done")

	if peak == 0 {
		fmt.Println("  WARN: captured pure silence; the device may be muted")
	} else {
		fmt.Printf("  PASS: audio flowing (peak level %.0f%%)\n", float64(peak)/32768*100)
	}
	return true
}
