package model

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Info describes one downloadable streaming transducer model.
type Info struct {
	Name    string
	URL     string
	Dir     string // directory name inside the tarball
	Encoder string
	Decoder string
	Joiner  string
	Tokens  string
	SizeMB  int
}

var registry = map[string]Info{
	"zipformer-en": {
		Name:    "zipformer-en",
		URL:     "https://github.com/k2-fsa/sherpa-onnx/releases/download/asr-models/sherpa-onnx-streaming-zipformer-en-2023-06-26.tar.bz2",
		Dir:     "sherpa-onnx-streaming-zipformer-en-2023-06-26",
		Encoder: "encoder-epoch-99-avg-1-chunk-16-left-128.onnx",
		Decoder: "decoder-epoch-99-avg-1-chunk-16-left-128.onnx",
		Joiner:  "joiner-epoch-99-avg-1-chunk-16-left-128.onnx",
		Tokens:  "tokens.txt",
		SizeMB:  80,
	},
	"zipformer-en-20M": {
		Name:    "zipformer-en-20M",
		URL:     "https://github.com/k2-fsa/sherpa-onnx/releases/download/asr-models/sherpa-onnx-streaming-zipformer-en-20M-2023-02-17.tar.bz2",
		Dir:     "sherpa-onnx-streaming-zipformer-en-20M-2023-02-17",
		Encoder: "encoder-epoch-99-avg-1.onnx",
		Decoder: "decoder-epoch-99-avg-1.onnx",
		Joiner:  "joiner-epoch-99-avg-1.onnx",
		Tokens:  "tokens.txt",
		SizeMB:  20,
	},
}

// Names lists the registered model names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves a model name.
func Lookup(name string) (Info, error) {
	info, ok := registry[name]
	if !ok {
		return Info{}, fmt.Errorf("unknown model %q (available: %v)", name, Names())
	}
	return info, nil
}

// Paths are the on-disk model files a recognizer needs.
type Paths struct {
	Encoder string
	Decoder string
	Joiner  string
	Tokens  string
}

func (i Info) paths(cacheDir string) Paths {
	dir := filepath.Join(cacheDir, i.Dir)
	return Paths{
		Encoder: filepath.Join(dir, i.Encoder),
		Decoder: filepath.Join(dir, i.Decoder),
		Joiner:  filepath.Join(dir, i.Joiner),
		Tokens:  filepath.Join(dir, i.Tokens),
	}
}

// cached reports whether the model is already extracted. tokens.txt is
// the sentinel: it is written last during extraction, so its presence
// means the archive unpacked completely.
func (i Info) cached(cacheDir string) bool {
	_, err := os.Stat(filepath.Join(cacheDir, i.Dir, i.Tokens))
	return err == nil
}

// Cached reports whether the named model is already extracted.
func Cached(name, cacheDir string) bool {
	info, err := Lookup(name)
	return err == nil && info.cached(cacheDir)
}

// DefaultCacheDir is where model weights live unless overridden.
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "voz")
}

// Ensure returns the model paths, downloading and extracting the weights
// on first use.
func Ensure(name, cacheDir string) (Paths, error) {
	info, err := Lookup(name)
	if err != nil {
		return Paths{}, err
	}
	if !info.cached(cacheDir) {
		if err := download(info, cacheDir); err != nil {
			return Paths{}, err
		}
		if !info.cached(cacheDir) {
			return Paths{}, fmt.Errorf("model %s extracted but %s missing", name, info.Tokens)
		}
	}
	return info.paths(cacheDir), nil
}
