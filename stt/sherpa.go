package stt

import (
	"fmt"
	"os"

	sherpa "github.com/k2-fsa/sherpa-onnx-go/sherpa_onnx"
)

// SherpaConfig configures the streaming transducer recognizer.
type SherpaConfig struct {
	Encoder string
	Decoder string
	Joiner  string
	Tokens  string

	SampleRate int
	FeatureDim int
	NumThreads int

	Endpoint EndpointConfig
}

// SherpaDecoder wraps a sherpa-onnx online recognizer. Endpoint detection
// runs inside the recognizer with the configured rules; this type only
// adapts its surface to the Decoder seam.
type SherpaDecoder struct {
	recognizer *sherpa.OnlineRecognizer
	stream     *sherpa.OnlineStream
}

// NewSherpaDecoder loads the transducer model. Missing model files are a
// startup error — there is no per-chunk recovery from an absent model.
func NewSherpaDecoder(cfg SherpaConfig) (*SherpaDecoder, error) {
	for _, f := range []struct{ label, path string }{
		{"encoder", cfg.Encoder},
		{"decoder", cfg.Decoder},
		{"joiner", cfg.Joiner},
		{"tokens", cfg.Tokens},
	} {
		if _, err := os.Stat(f.path); err != nil {
			return nil, fmt.Errorf("model %s: %w", f.label, err)
		}
	}

	if cfg.NumThreads <= 0 {
		cfg.NumThreads = 2
	}
	if cfg.FeatureDim <= 0 {
		cfg.FeatureDim = 80
	}

	config := sherpa.OnlineRecognizerConfig{}
	config.FeatConfig = sherpa.FeatureConfig{
		SampleRate: cfg.SampleRate,
		FeatureDim: cfg.FeatureDim,
	}
	config.ModelConfig.Transducer = sherpa.OnlineTransducerModelConfig{
		Encoder: cfg.Encoder,
		Decoder: cfg.Decoder,
		Joiner:  cfg.Joiner,
	}
	config.ModelConfig.Tokens = cfg.Tokens
	config.ModelConfig.NumThreads = cfg.NumThreads
	config.DecodingMethod = "greedy_search"
	config.EnableEndpoint = 1
	config.Rule1MinTrailingSilence = float32(cfg.Endpoint.Rule1MinTrailingSilence)
	config.Rule2MinTrailingSilence = float32(cfg.Endpoint.Rule2MinTrailingSilence)
	config.Rule3MinUtteranceLength = float32(cfg.Endpoint.Rule3MinUtteranceLength)

	recognizer := sherpa.NewOnlineRecognizer(&config)
	if recognizer == nil {
		return nil, fmt.Errorf("create online recognizer (model %s)", cfg.Encoder)
	}

	return &SherpaDecoder{
		recognizer: recognizer,
		stream:     sherpa.NewOnlineStream(recognizer),
	}, nil
}

func (d *SherpaDecoder) AcceptWaveform(sampleRate int, samples []float32) {
	d.stream.AcceptWaveform(sampleRate, samples)
}

func (d *SherpaDecoder) IsReady() bool {
	return d.recognizer.IsReady(d.stream)
}

func (d *SherpaDecoder) Decode() {
	d.recognizer.Decode(d.stream)
}

func (d *SherpaDecoder) Text() string {
	result := d.recognizer.GetResult(d.stream)
	if result == nil {
		return ""
	}
	return result.Text
}

func (d *SherpaDecoder) IsEndpoint() bool {
	return d.recognizer.IsEndpoint(d.stream)
}

// Reset discards the current decoding stream and allocates a fresh one.
// Callers must read the final text before calling this.
func (d *SherpaDecoder) Reset() {
	sherpa.DeleteOnlineStream(d.stream)
	d.stream = sherpa.NewOnlineStream(d.recognizer)
}

func (d *SherpaDecoder) Close() {
	if d.stream != nil {
		sherpa.DeleteOnlineStream(d.stream)
		d.stream = nil
	}
	if d.recognizer != nil {
		sherpa.DeleteOnlineRecognizer(d.recognizer)
		d.recognizer = nil
	}
}
