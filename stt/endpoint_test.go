package stt

import "testing"

const testRate = 16000

func speechChunk(ms int) []int16 {
	n := testRate * ms / 1000
	chunk := make([]int16, n)
	for i := range chunk {
		chunk[i] = 8000
	}
	return chunk
}

func silenceChunk(ms int) []int16 {
	return make([]int16, testRate*ms/1000)
}

func fakeSession(script ...string) (*Session, *FakeDecoder) {
	dec := NewFakeDecoder(DefaultEndpointConfig(), script)
	return NewSession(dec, testRate), dec
}

func feedFor(t *testing.T, s *Session, chunk func(int) []int16, totalMs int) (endpoints int, lastFinal, lastPartial string) {
	t.Helper()
	for fed := 0; fed < totalMs; fed += 100 {
		lastPartial = s.Feed(chunk(100))
		if ep, final := s.CheckEndpoint(); ep {
			endpoints++
			lastFinal = final
		}
	}
	return endpoints, lastFinal, lastPartial
}

func TestNoEndpointBelowSilenceThreshold(t *testing.T) {
	s, _ := fakeSession()
	if n, _, _ := feedFor(t, s, silenceChunk, 2000); n != 0 {
		t.Errorf("got %d endpoints from 2.0s of silence, want 0", n)
	}
}

func TestRule1SilenceOnlyEndpoint(t *testing.T) {
	s, _ := fakeSession()
	n, final, _ := feedFor(t, s, silenceChunk, 2600)
	if n != 1 {
		t.Fatalf("got %d endpoints from 2.6s of silence, want 1", n)
	}
	if final != "" {
		t.Errorf("final = %q for a speechless utterance, want empty", final)
	}
}

func TestRule2TrailingSilenceAfterSpeech(t *testing.T) {
	s, _ := fakeSession("hello", "hello there")

	n, _, partial := feedFor(t, s, speechChunk, 1000)
	if n != 0 {
		t.Fatalf("endpoint during continuous speech after %d checks", n)
	}
	if partial != "hello there" {
		t.Errorf("partial = %q, want %q", partial, "hello there")
	}

	// 1.2s of trailing silence ends the utterance; 2.4s of dead air is
	// not required once speech was seen.
	n, final, _ := feedFor(t, s, silenceChunk, 1400)
	if n != 1 {
		t.Fatalf("got %d endpoints after trailing silence, want 1", n)
	}
	if final != "hello there" {
		t.Errorf("final = %q, want %q", final, "hello there")
	}

	// Fresh utterance: empty partial until new speech arrives.
	if got := s.Feed(silenceChunk(100)); got != "" {
		t.Errorf("partial after endpoint = %q, want empty", got)
	}
}

func TestRule3HardCapDuringSpeech(t *testing.T) {
	s, _ := fakeSession("a", "b", "c")
	n, _, _ := feedFor(t, s, speechChunk, 21000)
	if n == 0 {
		t.Fatal("no endpoint from 21s of continuous speech, want forced endpoint")
	}
}

func TestEndpointFiresExactlyOnce(t *testing.T) {
	s, _ := fakeSession("hi")
	feedFor(t, s, speechChunk, 600)
	n, _, _ := feedFor(t, s, silenceChunk, 1300)
	if n != 1 {
		t.Fatalf("got %d endpoints, want exactly 1", n)
	}
	// Continued silence after the reset belongs to the next utterance and
	// must not immediately re-fire rule 2.
	for fed := 0; fed < 1000; fed += 100 {
		s.Feed(silenceChunk(100))
		if ep, _ := s.CheckEndpoint(); ep {
			t.Fatal("endpoint re-fired right after reset")
		}
	}
}

func TestEndpointStateThresholds(t *testing.T) {
	cfg := DefaultEndpointConfig()

	t.Run("rule1 boundary", func(t *testing.T) {
		e := newEndpointState(cfg)
		e.observe(2.3, false)
		if e.fired() {
			t.Error("fired at 2.3s of silence")
		}
		e.observe(0.1, false)
		if !e.fired() {
			t.Error("not fired at 2.4s of silence")
		}
	})

	t.Run("rule2 boundary", func(t *testing.T) {
		e := newEndpointState(cfg)
		e.observe(1.0, true)
		e.observe(1.1, false)
		if e.fired() {
			t.Error("fired at 1.1s trailing silence")
		}
		e.observe(0.1, false)
		if !e.fired() {
			t.Error("not fired at 1.2s trailing silence")
		}
	})

	t.Run("speech resets trailing silence", func(t *testing.T) {
		e := newEndpointState(cfg)
		e.observe(1.0, true)
		e.observe(1.1, false)
		e.observe(0.1, true)
		e.observe(1.1, false)
		if e.fired() {
			t.Error("fired although silence never reached 1.2s in a row")
		}
	})

	t.Run("rule3 ignores silence state", func(t *testing.T) {
		e := newEndpointState(cfg)
		for i := 0; i < 200; i++ {
			e.observe(0.1, true)
		}
		if !e.fired() {
			t.Error("not fired at 20s utterance length")
		}
	})

	t.Run("reset clears everything", func(t *testing.T) {
		e := newEndpointState(cfg)
		e.observe(5.0, false)
		e.reset()
		if e.fired() {
			t.Error("fired immediately after reset")
		}
	})
}
