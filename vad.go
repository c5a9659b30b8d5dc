package main

import (
	"encoding/binary"
	"sync"
	"time"

	webrtcvad "github.com/maxhawkins/go-webrtcvad"
)

const (
	vadMode     = 3  // most aggressive: fewest false positives
	vadFrameMs  = 20 // webrtcvad accepts 10/20/30ms frames
	vadDebounce = 3  // consecutive speech frames to confirm voice
)

// speechDetector runs WebRTC VAD over the capture stream, independent of
// the recognizer. It answers two questions the recognizer can't: "has the
// user said anything at all since we started" (for the dead-microphone
// warning) and "was there speech in the last tick" (for the status line).
type speechDetector struct {
	vad        *webrtcvad.VAD
	sampleRate int
	frameBytes int

	mu            sync.Mutex
	buf           []byte
	voiceDetected bool
	lastVoiceTime time.Time
	speechRun     int
	totalFrames   int
	speechFrames  int
	tickTotal     int
	tickSpeech    int
}

func newSpeechDetector(sampleRate int) (*speechDetector, error) {
	v, err := webrtcvad.New()
	if err != nil {
		return nil, err
	}
	if err := v.SetMode(vadMode); err != nil {
		return nil, err
	}
	return &speechDetector{
		vad:        v,
		sampleRate: sampleRate,
		frameBytes: sampleRate * vadFrameMs / 1000 * 2,
	}, nil
}

// Process accumulates samples and classifies every complete frame.
func (p *speechDetector) Process(samples []int16) {
	p.mu.Lock()
	defer p.mu.Unlock()

	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}
	p.buf = append(p.buf, data...)

	for len(p.buf) >= p.frameBytes {
		frame := p.buf[:p.frameBytes]
		p.buf = p.buf[p.frameBytes:]

		active, err := p.vad.Process(p.sampleRate, frame)
		if err != nil {
			continue
		}
		p.totalFrames++
		if active {
			p.speechFrames++
			p.speechRun++
			if p.voiceDetected {
				p.lastVoiceTime = time.Now()
			} else if p.speechRun >= vadDebounce {
				p.voiceDetected = true
				p.lastVoiceTime = time.Now()
			}
		} else {
			p.speechRun = 0
		}
	}
}

// VoiceDetected reports whether confirmed speech has been heard since the
// last Reset.
func (p *speechDetector) VoiceDetected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.voiceDetected
}

func (p *speechDetector) LastVoiceTime() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastVoiceTime
}

const speechThreshold = 0.10 // fraction of frames in a tick that counts as "speaking"

// HasSpeechTick reports whether speech dominated the frames classified
// since the previous call.
func (p *speechDetector) HasSpeechTick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	t := p.totalFrames - p.tickTotal
	s := p.speechFrames - p.tickSpeech
	p.tickTotal, p.tickSpeech = p.totalFrames, p.speechFrames
	if t == 0 {
		return false
	}
	return float64(s)/float64(t) >= speechThreshold
}

func (p *speechDetector) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buf = p.buf[:0]
	p.voiceDetected = false
	p.lastVoiceTime = time.Time{}
	p.speechRun = 0
}
