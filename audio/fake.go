package audio

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"
	"time"
)

const fakeChunkFrames = 1600 // 100ms at 16kHz

// FakeContext replays a 16-bit mono WAV file as if it were a microphone.
// Used by tests and the -fake producer mode so the whole pipeline can run
// without audio hardware.
type FakeContext struct {
	pcm      []int16
	rate     int
	realtime bool
}

// NewFakeContext loads PCM from wavPath. With realtime set, playback is
// paced at the capture rate; otherwise the whole file is delivered as fast
// as the callback can take it, followed by paced silence.
func NewFakeContext(wavPath string, realtime bool) (*FakeContext, error) {
	data, err := os.ReadFile(wavPath)
	if err != nil {
		return nil, err
	}
	if len(data) <= WAVHeaderSize {
		return nil, fmt.Errorf("%s: too short to hold PCM data", wavPath)
	}
	data = data[WAVHeaderSize:]
	pcm := make([]int16, len(data)/2)
	for i := range pcm {
		pcm[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return &FakeContext{pcm: pcm, realtime: realtime}, nil
}

// NewFakeContextFromSamples wraps raw samples directly, for tests.
func NewFakeContextFromSamples(pcm []int16, realtime bool) *FakeContext {
	return &FakeContext{pcm: pcm, realtime: realtime}
}

func (f *FakeContext) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{{ID: "fake", Name: "fake"}}, nil
}

func (f *FakeContext) Close() {}

func (f *FakeContext) NewCapture(_ *DeviceInfo, config Config) (CaptureDevice, error) {
	return &FakeCapture{
		pcm:       f.pcm,
		rate:      config.SampleRate,
		realtime:  f.realtime,
		audioDone: make(chan struct{}),
	}, nil
}

// FakeCapture feeds the loaded PCM to the callback and then keeps feeding
// silence until stopped, like a microphone in a quiet room. AudioDone
// closes once the recorded audio has been fully delivered, which lets the
// -fake mode wait for trailing-silence endpointing to finish before exit.
type FakeCapture struct {
	pcm       []int16
	rate      int
	realtime  bool
	audioDone chan struct{}

	mu       sync.Mutex
	cb       DataCallback
	stopCh   chan struct{}
	feedDone chan struct{}
}

func (f *FakeCapture) AudioDone() <-chan struct{} { return f.audioDone }

func (f *FakeCapture) SetCallback(cb DataCallback) {
	f.mu.Lock()
	f.cb = cb
	f.mu.Unlock()
}

func (f *FakeCapture) ClearCallback() {
	f.mu.Lock()
	f.cb = nil
	f.mu.Unlock()
}

func (f *FakeCapture) callback() DataCallback {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cb
}

func (f *FakeCapture) Start() error {
	f.stopCh = make(chan struct{})
	f.feedDone = make(chan struct{})

	interval := time.Duration(fakeChunkFrames) * time.Second / time.Duration(f.rate)
	go func() {
		defer close(f.feedDone)
		silence := make([]int16, fakeChunkFrames)
		pos := 0
		finished := false

		for {
			select {
			case <-f.stopCh:
				return
			default:
			}

			cb := f.callback()
			if cb == nil {
				time.Sleep(time.Millisecond)
				continue
			}

			if pos < len(f.pcm) {
				end := min(pos+fakeChunkFrames, len(f.pcm))
				chunk := make([]int16, end-pos)
				copy(chunk, f.pcm[pos:end])
				cb(chunk)
				pos = end
				if !f.realtime {
					// Fast path: no pacing until the recording runs out.
					continue
				}
			} else {
				if !finished {
					finished = true
					close(f.audioDone)
				}
				cb(silence)
			}

			select {
			case <-f.stopCh:
				return
			case <-time.After(interval):
			}
		}
	}()

	return nil
}

func (f *FakeCapture) Stop() {
	if f.stopCh == nil {
		return
	}
	select {
	case <-f.stopCh:
	default:
		close(f.stopCh)
	}
	<-f.feedDone
}

func (f *FakeCapture) Close() {
	f.Stop()
}
