package main

import (
	"context"
	"time"

	"voz/bridge"
	"voz/log"
	"voz/stt"
)

const chunkQueueDepth = 64

// pipeline moves audio from the capture callback through the recognizer
// and out over the bridge. The capture thread only enqueues; the session
// is driven entirely from the Run goroutine.
type pipeline struct {
	session  *stt.Session
	client   *bridge.Client
	detector *speechDetector

	chunks chan []int16

	lastPartial string
	utterSecs   float64
	decodeTime  time.Duration
}

func newPipeline(session *stt.Session, client *bridge.Client, detector *speechDetector) *pipeline {
	return &pipeline{
		session:  session,
		client:   client,
		detector: detector,
		chunks:   make(chan []int16, chunkQueueDepth),
	}
}

// Capture is the audio callback. It must stay cheap: level metering, VAD
// bookkeeping, and a non-blocking handoff to the recognizer goroutine.
// When the queue is full the chunk is dropped; decoding that falls this
// far behind real time is better served by losing audio than by stalling
// the capture thread.
func (p *pipeline) Capture(samples []int16) {
	var peak int16
	for _, s := range samples {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	tuiSend(LevelMsg{Level: float64(peak) / 32768})

	if p.detector != nil {
		p.detector.Process(samples)
	}

	select {
	case p.chunks <- samples:
	default:
		log.Warn("audio queue full, dropping chunk")
	}
}

// Run drains the chunk queue until ctx is cancelled. All session access
// happens here.
func (p *pipeline) Run(ctx context.Context) {
	var mon *silenceMonitor
	var tick <-chan time.Time
	if p.detector != nil {
		mon = newSilenceMonitor()
		t := time.NewTicker(tickInterval)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case chunk := <-p.chunks:
			p.step(chunk)
		case <-tick:
			switch mon.Tick(p.detector.HasSpeechTick()) {
			case SilenceWarn, SilenceRepeat:
				log.Warn("no speech detected, check the input device")
				tuiSend(WarnMsg{Text: "no speech detected, check the input device"})
			case SilenceWarnClear:
				log.Info("speech resumed")
			}
		}
	}
}

func (p *pipeline) step(chunk []int16) {
	p.utterSecs += float64(len(chunk)) / float64(p.session.SampleRate())

	t0 := time.Now()
	partial := p.session.Feed(chunk)
	endpoint, final := p.session.CheckEndpoint()
	p.decodeTime += time.Since(t0)

	if !endpoint {
		if partial != p.lastPartial {
			p.lastPartial = partial
			p.client.Preedit(partial)
			tuiSend(PartialMsg{Text: partial})
		}
		return
	}

	if final != "" {
		// Trailing space so consecutive utterances don't run together.
		p.client.Commit(final + " ")
		tuiSend(CommitMsg{Text: final})
		log.TranscriptionText(final)
		log.UtteranceStats(final, p.utterSecs, float64(p.decodeTime.Milliseconds()))
	} else if p.lastPartial != "" {
		// The utterance evaporated (noise, breath). Clear the preview.
		p.client.Preedit("")
		tuiSend(PartialMsg{Text: ""})
	}

	p.lastPartial = ""
	p.utterSecs = 0
	p.decodeTime = 0
}
