package stt

import "testing"

// scriptedDecoder gives tests direct control over readiness, results and
// endpoint state.
type scriptedDecoder struct {
	readyPerChunk int
	pending       int
	decodes       int
	lastSamples   []float32
	text          string
	endpoint      bool
	resets        int
}

func (d *scriptedDecoder) AcceptWaveform(_ int, samples []float32) {
	d.lastSamples = samples
	d.pending += d.readyPerChunk
}
func (d *scriptedDecoder) IsReady() bool { return d.pending > 0 }
func (d *scriptedDecoder) Decode() {
	d.pending--
	d.decodes++
}
func (d *scriptedDecoder) Text() string     { return d.text }
func (d *scriptedDecoder) IsEndpoint() bool { return d.endpoint }
func (d *scriptedDecoder) Reset() {
	d.resets++
	d.text = ""
	d.endpoint = false
}
func (d *scriptedDecoder) Close() {}

func TestFeedWithoutDecoder(t *testing.T) {
	s := NewSession(nil, 16000)
	if got := s.Feed([]int16{1, 2, 3}); got != "" {
		t.Errorf("Feed before init = %q, want empty", got)
	}
	if ep, _ := s.CheckEndpoint(); ep {
		t.Error("CheckEndpoint before init reported an endpoint")
	}
	s.Reset() // must not panic
}

func TestFeedDrainsReadiness(t *testing.T) {
	dec := &scriptedDecoder{readyPerChunk: 3}
	s := NewSession(dec, 16000)

	s.Feed(make([]int16, 320))
	if dec.decodes != 3 {
		t.Errorf("decodes = %d, want 3 (readiness must be drained fully)", dec.decodes)
	}
	if dec.pending != 0 {
		t.Errorf("pending = %d after Feed, want 0", dec.pending)
	}
}

func TestFeedNormalizesSamples(t *testing.T) {
	dec := &scriptedDecoder{}
	s := NewSession(dec, 16000)

	s.Feed([]int16{16384, -32768, 0})
	want := []float32{0.5, -1.0, 0}
	if len(dec.lastSamples) != len(want) {
		t.Fatalf("got %d samples, want %d", len(dec.lastSamples), len(want))
	}
	for i, w := range want {
		if dec.lastSamples[i] != w {
			t.Errorf("sample[%d] = %v, want %v", i, dec.lastSamples[i], w)
		}
	}
}

func TestFeedTrimsWhitespace(t *testing.T) {
	dec := &scriptedDecoder{text: "  hello world \n"}
	s := NewSession(dec, 16000)
	if got := s.Feed(nil); got != "hello world" {
		t.Errorf("Feed = %q, want %q", got, "hello world")
	}
}

func TestCheckEndpointCapturesTextBeforeReset(t *testing.T) {
	dec := &scriptedDecoder{text: " so long ", endpoint: true}
	s := NewSession(dec, 16000)

	ep, final := s.CheckEndpoint()
	if !ep {
		t.Fatal("expected endpoint")
	}
	// Reset clears the decoder's text; the session must have read it first.
	if final != "so long" {
		t.Errorf("final = %q, want %q", final, "so long")
	}
	if dec.resets != 1 {
		t.Errorf("resets = %d, want 1", dec.resets)
	}
	if ep, _ := s.CheckEndpoint(); ep {
		t.Error("endpoint reported twice for one utterance")
	}
}

func TestResetIdempotent(t *testing.T) {
	dec := &scriptedDecoder{}
	s := NewSession(dec, 16000)
	s.Reset()
	s.Reset()
	if dec.resets != 2 {
		t.Errorf("resets = %d, want 2", dec.resets)
	}
	// Still usable after reset with no pending audio.
	if got := s.Feed(nil); got != "" {
		t.Errorf("Feed after reset = %q, want empty", got)
	}
}

func TestCloseDetachesDecoder(t *testing.T) {
	dec := &scriptedDecoder{text: "x"}
	s := NewSession(dec, 16000)
	s.Close()
	if got := s.Feed([]int16{1}); got != "" {
		t.Errorf("Feed after Close = %q, want empty", got)
	}
}
