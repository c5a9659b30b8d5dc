package stt

// EndpointConfig holds the three utterance-boundary rules. They are OR'd;
// whichever fires first ends the utterance.
type EndpointConfig struct {
	// Rule1MinTrailingSilence ends the utterance when this much silence
	// accumulates and no speech was ever detected.
	Rule1MinTrailingSilence float64
	// Rule2MinTrailingSilence ends the utterance when speech was detected
	// and this much trailing silence follows it.
	Rule2MinTrailingSilence float64
	// Rule3MinUtteranceLength force-ends the utterance at this length,
	// silence or not.
	Rule3MinUtteranceLength float64
}

// DefaultEndpointConfig matches the streaming zipformer defaults:
// 2.4s of dead air, 1.2s of pause after speech, 20s hard cap.
func DefaultEndpointConfig() EndpointConfig {
	return EndpointConfig{
		Rule1MinTrailingSilence: 2.4,
		Rule2MinTrailingSilence: 1.2,
		Rule3MinUtteranceLength: 20.0,
	}
}

// endpointState reproduces the decoder's endpoint policy for decoders
// that don't implement it themselves (the fake). Real recognizers apply
// the same three rules internally.
type endpointState struct {
	cfg EndpointConfig

	utteranceSec float64
	trailingSec  float64
	speechSeen   bool
}

func newEndpointState(cfg EndpointConfig) *endpointState {
	return &endpointState{cfg: cfg}
}

// observe accounts for one audio span of dur seconds.
func (e *endpointState) observe(dur float64, hasSpeech bool) {
	e.utteranceSec += dur
	if hasSpeech {
		e.speechSeen = true
		e.trailingSec = 0
	} else {
		e.trailingSec += dur
	}
}

// fired reports whether any rule declares the utterance over.
func (e *endpointState) fired() bool {
	if !e.speechSeen && e.trailingSec >= e.cfg.Rule1MinTrailingSilence {
		return true
	}
	if e.speechSeen && e.trailingSec >= e.cfg.Rule2MinTrailingSilence {
		return true
	}
	return e.utteranceSec >= e.cfg.Rule3MinUtteranceLength
}

func (e *endpointState) reset() {
	e.utteranceSec = 0
	e.trailingSec = 0
	e.speechSeen = false
}
