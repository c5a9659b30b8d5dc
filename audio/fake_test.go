package audio

import (
	"sync"
	"testing"
	"time"
)

func TestFakeCaptureDeliversAllSamples(t *testing.T) {
	pcm := make([]int16, 4000)
	for i := range pcm {
		pcm[i] = int16(i)
	}
	ctx := NewFakeContextFromSamples(pcm, false)
	dev, err := ctx.NewCapture(nil, Config{SampleRate: 16000})
	if err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var got []int16
	dev.SetCallback(func(samples []int16) {
		mu.Lock()
		got = append(got, samples...)
		mu.Unlock()
	})

	if err := dev.Start(); err != nil {
		t.Fatal(err)
	}
	fake := dev.(*FakeCapture)
	select {
	case <-fake.AudioDone():
	case <-time.After(2 * time.Second):
		t.Fatal("AudioDone never closed")
	}
	dev.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(got) < len(pcm) {
		t.Fatalf("delivered %d samples, want at least %d", len(got), len(pcm))
	}
	for i := range pcm {
		if got[i] != pcm[i] {
			t.Fatalf("sample %d = %d, want %d", i, got[i], pcm[i])
		}
	}
	// Everything past the recording must be silence.
	for i := len(pcm); i < len(got); i++ {
		if got[i] != 0 {
			t.Fatalf("trailing sample %d = %d, want silence", i, got[i])
		}
	}
}

func TestFakeCaptureStopWithoutStart(t *testing.T) {
	ctx := NewFakeContextFromSamples(nil, false)
	dev, err := ctx.NewCapture(nil, Config{SampleRate: 16000})
	if err != nil {
		t.Fatal(err)
	}
	dev.Stop() // must not panic
}

type listContext struct {
	devices []DeviceInfo
}

func (l *listContext) Devices() ([]DeviceInfo, error) { return l.devices, nil }
func (l *listContext) Close()                         {}

func (l *listContext) NewCapture(*DeviceInfo, Config) (CaptureDevice, error) {
	return nil, nil
}

func TestFindDevice(t *testing.T) {
	ctx := &listContext{devices: []DeviceInfo{
		{ID: "1", Name: "Built-in Audio Analog Stereo"},
		{ID: "2", Name: "Blue Yeti USB Microphone"},
	}}

	d, err := FindDevice(ctx, "yeti")
	if err != nil {
		t.Fatal(err)
	}
	if d.ID != "2" {
		t.Errorf("matched %+v, want the Yeti", d)
	}

	if d, err := FindDevice(ctx, ""); err != nil || d != nil {
		t.Errorf("empty query = (%+v, %v), want system default (nil, nil)", d, err)
	}

	if _, err := FindDevice(ctx, "shure"); err == nil {
		t.Error("expected error for unmatched device query")
	}
}

func TestIsBluetooth(t *testing.T) {
	for name, want := range map[string]bool{
		"AirPods Pro":                  true,
		"Jabra Elite 85t":              true,
		"Headset (Bluetooth)":          true,
		"Built-in Audio Analog Stereo": false,
		"Blue Yeti USB Microphone":     false,
	} {
		if got := IsBluetooth(name); got != want {
			t.Errorf("IsBluetooth(%q) = %v, want %v", name, got, want)
		}
	}
}
