package stt

import "strings"

// Session turns raw PCM16 chunks into streaming partial text and
// endpoint-delimited final text.
//
// Not safe for concurrent use: Feed, CheckEndpoint and Reset must all be
// called from the same goroutine. The session carries no locks on
// purpose — the producer pipeline drives it from a single worker, and
// that worker is the synchronization.
type Session struct {
	dec        Decoder
	sampleRate int
}

// NewSession wraps dec. The sample rate is fixed for the session's
// lifetime; chunks are assumed to match it.
func NewSession(dec Decoder, sampleRate int) *Session {
	return &Session{dec: dec, sampleRate: sampleRate}
}

// SampleRate returns the rate chunks are interpreted at.
func (s *Session) SampleRate() int { return s.sampleRate }

// Feed appends one PCM16 mono chunk and returns the current partial
// hypothesis. Feeding before a decoder is attached is a defensive no-op
// returning empty text. The decode loop drains readiness fully; a chunk
// may trigger zero, one, or many decode steps before the hypothesis is
// read.
func (s *Session) Feed(chunk []int16) string {
	if s.dec == nil {
		return ""
	}

	samples := make([]float32, len(chunk))
	for i, v := range chunk {
		samples[i] = float32(v) / 32768.0
	}
	s.dec.AcceptWaveform(s.sampleRate, samples)

	for s.dec.IsReady() {
		s.dec.Decode()
	}

	return strings.TrimSpace(s.dec.Text())
}

// CheckEndpoint reports whether the current utterance ended. On true the
// final text is captured first and the stream is reset as a side effect;
// the order matters, a reset discards the result.
func (s *Session) CheckEndpoint() (bool, string) {
	if s.dec == nil {
		return false, ""
	}
	if !s.dec.IsEndpoint() {
		return false, ""
	}
	final := strings.TrimSpace(s.dec.Text())
	s.dec.Reset()
	return true, final
}

// Reset forces a fresh utterance regardless of endpoint state. Safe to
// call repeatedly and with no audio pending.
func (s *Session) Reset() {
	if s.dec == nil {
		return
	}
	s.dec.Reset()
}

// Close releases the underlying decoder.
func (s *Session) Close() {
	if s.dec != nil {
		s.dec.Close()
		s.dec = nil
	}
}
