package stt

import "math"

const (
	// fakeStepSec is how much audio one fake decode step consumes.
	fakeStepSec = 0.2
	// fakeSpeechLevel is the normalized amplitude treated as speech.
	fakeSpeechLevel = 0.05
)

// FakeDecoder is a deterministic decoder for tests and the -fake producer
// mode: no model, no cgo. Audio with amplitude above a small threshold
// counts as speech and walks through the scripted hypotheses one decode
// step at a time; the endpoint rules are reproduced exactly as the real
// recognizer applies them.
type FakeDecoder struct {
	ep     *endpointState
	script []string

	idx       int
	pending   int
	carrySec  float64
	sawSpeech bool
	text      string
}

func NewFakeDecoder(cfg EndpointConfig, script []string) *FakeDecoder {
	return &FakeDecoder{ep: newEndpointState(cfg), script: script}
}

func (d *FakeDecoder) AcceptWaveform(sampleRate int, samples []float32) {
	if sampleRate <= 0 {
		return
	}
	hasSpeech := false
	for _, s := range samples {
		if math.Abs(float64(s)) >= fakeSpeechLevel {
			hasSpeech = true
			break
		}
	}
	dur := float64(len(samples)) / float64(sampleRate)
	d.ep.observe(dur, hasSpeech)
	if hasSpeech {
		d.sawSpeech = true
	}
	d.carrySec += dur
	for d.carrySec >= fakeStepSec {
		d.carrySec -= fakeStepSec
		d.pending++
	}
}

func (d *FakeDecoder) IsReady() bool { return d.pending > 0 }

func (d *FakeDecoder) Decode() {
	if d.pending == 0 {
		return
	}
	d.pending--
	if d.sawSpeech && d.idx < len(d.script) {
		d.text = d.script[d.idx]
		d.idx++
		d.sawSpeech = false
	}
}

func (d *FakeDecoder) Text() string { return d.text }

func (d *FakeDecoder) IsEndpoint() bool { return d.ep.fired() }

func (d *FakeDecoder) Reset() {
	d.ep.reset()
	d.text = ""
	d.idx = 0
	d.pending = 0
	d.carrySec = 0
	d.sawSpeech = false
}

func (d *FakeDecoder) Close() {}
