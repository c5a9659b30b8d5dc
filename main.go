package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"voz/audio"
	"voz/bridge"
	"voz/doctor"
	"voz/log"
	"voz/model"
	"voz/shutdown"
	"voz/stt"
)

var version = "dev"

const sampleRate = 16000

var shutdownOnce sync.Once

func gracefulShutdown(cancel context.CancelFunc) {
	shutdownOnce.Do(func() {
		cancel()
		tuiMu.Lock()
		p := tuiProgram
		tuiMu.Unlock()
		if p != nil {
			p.Quit()
		}
	})
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "engine":
			runEngine(os.Args[2:])
			return
		case "doctor":
			os.Exit(runDoctor(os.Args[2:]))
		}
	}
	runProducer()
}

func runDoctor(args []string) int {
	fs := flag.NewFlagSet("voz doctor", flag.ExitOnError)
	modelFlag := fs.String("model", "zipformer-en", "model to check")
	cacheFlag := fs.String("cache", model.DefaultCacheDir(), "model cache directory")
	socketFlag := fs.String("socket", bridge.SocketPath(), "engine rendezvous socket path")
	fs.Parse(args)
	return doctor.Run(*modelFlag, *cacheFlag, *socketFlag)
}

func runProducer() {
	modelFlag := flag.String("model", "zipformer-en", fmt.Sprintf("recognition model: %v", model.Names()))
	cacheFlag := flag.String("cache", model.DefaultCacheDir(), "model cache directory")
	socketFlag := flag.String("socket", bridge.SocketPath(), "engine rendezvous socket path")
	deviceFlag := flag.String("device", "", "capture device (substring match, empty = system default)")
	listFlag := flag.Bool("list-devices", false, "list capture devices and exit")
	tuiFlag := flag.Bool("tui", true, "run with terminal UI")
	wavFlag := flag.String("wav", "", "read audio from a 16kHz mono WAV file instead of the microphone")
	realtimeFlag := flag.Bool("realtime", false, "pace WAV playback at capture speed")
	fakeFlag := flag.Bool("fake", false, "use a scripted decoder instead of a real model")
	threadsFlag := flag.Int("threads", 0, "decoder threads (0 = default)")
	rule1Flag := flag.Float64("rule1", 2.4, "endpoint: seconds of silence with no speech")
	rule2Flag := flag.Float64("rule2", 1.2, "endpoint: seconds of trailing silence after speech")
	rule3Flag := flag.Float64("rule3", 20.0, "endpoint: hard utterance length cap in seconds")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location)")
	debugFlag := flag.Bool("debug", false, "log per-chunk diagnostics")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("voz %s\n", version)
		os.Exit(0)
	}

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	log.SetDebug(*debugFlag)
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	audioCtx, fakeAudio, err := newAudioContext(*wavFlag, *realtimeFlag)
	if err != nil {
		log.Errorf("audio context init: %v", err)
		fmt.Fprintf(os.Stderr, "Error initializing audio: %v\n", err)
		os.Exit(1)
	}
	defer audioCtx.Close()

	if *listFlag {
		devices, err := audioCtx.Devices()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		for _, d := range devices {
			bt := ""
			if audio.IsBluetooth(d.Name) {
				bt = "  (bluetooth: lower audio quality)"
			}
			fmt.Printf("%s%s\n", d.Name, bt)
		}
		os.Exit(0)
	}

	client, err := bridge.DialClient(*socketFlag)
	if err != nil {
		log.Errorf("dial engine: %v", err)
		fmt.Fprintf(os.Stderr, "Error: cannot reach the voz engine at %s\n", *socketFlag)
		fmt.Fprintln(os.Stderr, "Start it with `voz engine` and select the voz input method in IBus.")
		os.Exit(1)
	}
	defer client.Close()

	caps := bridge.ReadCaps(bridge.CapsPath())
	capsLabel := "basic"
	if caps.SurroundingText {
		capsLabel = "surrounding"
	}

	endpoint := stt.EndpointConfig{
		Rule1MinTrailingSilence: *rule1Flag,
		Rule2MinTrailingSilence: *rule2Flag,
		Rule3MinUtteranceLength: *rule3Flag,
	}
	dec, modelLabel, err := newDecoder(*fakeFlag, *modelFlag, *cacheFlag, *threadsFlag, endpoint)
	if err != nil {
		log.Errorf("decoder init: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	session := stt.NewSession(dec, sampleRate)
	defer session.Close()

	log.SessionStart(modelLabel, sampleRate)
	log.Infof("engine caps: %s", capsLabel)

	detector, err := newSpeechDetector(sampleRate)
	if err != nil {
		log.Warnf("vad init: %v", err)
		detector = nil
	}

	device, err := audio.FindDevice(audioCtx, *deviceFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	capture, err := audioCtx.NewCapture(device, audio.Config{SampleRate: sampleRate})
	if err != nil {
		log.Errorf("capture init: %v", err)
		fmt.Fprintf(os.Stderr, "Error initializing capture device: %v\n", err)
		os.Exit(1)
	}
	defer capture.Close()

	if device != nil && audio.IsBluetooth(device.Name) {
		log.Warn("bluetooth capture device, expect reduced accuracy")
	}

	pipe := newPipeline(session, client, detector)
	capture.SetCallback(pipe.Capture)
	if err := capture.Start(); err != nil {
		log.Errorf("capture start: %v", err)
		fmt.Fprintf(os.Stderr, "Error starting capture: %v\n", err)
		os.Exit(1)
	}
	defer capture.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	useTUI := *tuiFlag && *wavFlag == ""
	if useTUI {
		tuiMu.Lock()
		tuiProgram = NewTUIProgram(fmt.Sprintf("[%s | %dkHz | %s]", modelLabel, sampleRate/1000, capsLabel))
		tuiMu.Unlock()
		go func() {
			if _, err := tuiProgram.Run(); err != nil {
				log.Errorf("tui: %v", err)
			}
			gracefulShutdown(cancel)
		}()
	} else {
		fmt.Fprintf(os.Stderr, "voz %s listening (model %s, caps %s)\n", version, modelLabel, capsLabel)
	}

	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	go func() {
		<-sigChan
		log.Info("signal, shutting down")
		gracefulShutdown(cancel)
	}()

	// Replayed audio: once the recording has been fully delivered, give
	// trailing-silence endpointing time to flush the last utterance, then
	// stop on its behalf.
	if fakeAudio != nil {
		if fc, ok := capture.(*audio.FakeCapture); ok {
			go func() {
				<-fc.AudioDone()
				time.Sleep(time.Duration((*rule2Flag + 1.0) * float64(time.Second)))
				gracefulShutdown(cancel)
			}()
		}
	}

	pipe.Run(ctx)
	log.Info("producer stopped")
}

// newAudioContext picks the real backend or a WAV replay.
func newAudioContext(wavPath string, realtime bool) (audio.Context, *audio.FakeContext, error) {
	if wavPath == "" {
		ctx, err := audio.NewContext()
		return ctx, nil, err
	}
	fake, err := audio.NewFakeContext(wavPath, realtime)
	if err != nil {
		return nil, nil, err
	}
	return fake, fake, nil
}

// newDecoder builds the recognizer: a scripted fake or a sherpa streaming
// transducer, downloading model weights on first use.
func newDecoder(fake bool, modelName, cacheDir string, threads int, endpoint stt.EndpointConfig) (stt.Decoder, string, error) {
	if fake {
		return stt.NewFakeDecoder(endpoint, []string{
			"hello", "hello world", "hello world this is voz",
		}), "fake", nil
	}
	paths, err := model.Ensure(modelName, cacheDir)
	if err != nil {
		return nil, "", err
	}
	dec, err := stt.NewSherpaDecoder(stt.SherpaConfig{
		Encoder:    paths.Encoder,
		Decoder:    paths.Decoder,
		Joiner:     paths.Joiner,
		Tokens:     paths.Tokens,
		SampleRate: sampleRate,
		NumThreads: threads,
		Endpoint:   endpoint,
	})
	if err != nil {
		return nil, "", err
	}
	return dec, modelName, nil
}
