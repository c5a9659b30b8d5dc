package stt

// Decoder is the seam between the session and the underlying streaming
// recognizer. One decoder holds one decoding stream; Reset discards that
// stream and allocates a fresh one for the next utterance.
//
// Implementations return raw hypothesis text from Text; the session owns
// the one place where results are normalized (trimmed, never nil-ish),
// callers never see decoder-shaped output.
type Decoder interface {
	// AcceptWaveform appends normalized samples in [-1, 1] to the
	// current stream.
	AcceptWaveform(sampleRate int, samples []float32)
	// IsReady reports whether at least one decode step can run. A single
	// chunk may make the decoder ready zero, one, or many times.
	IsReady() bool
	// Decode runs one decode step.
	Decode()
	// Text returns the current best hypothesis for this utterance.
	Text() string
	// IsEndpoint reports whether the decoder has declared the utterance
	// complete. It does not reset anything by itself.
	IsEndpoint() bool
	// Reset discards the current stream and starts a fresh utterance.
	Reset()
	// Close releases the decoder's resources.
	Close()
}
