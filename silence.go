package main

import "time"

const (
	tickInterval     = 100 * time.Millisecond
	silenceWarnEvery = 10 * time.Second
	speechMinRatio   = 0.10
	speechClearRatio = 0.25 // higher threshold to clear the warning (hysteresis)
)

type SilenceEvent int

const (
	SilenceNone      SilenceEvent = iota
	SilenceWarn                   // no voice detected
	SilenceWarnClear              // speech resumed after a warning
	SilenceRepeat                 // re-raise the warning while silence continues
)

// silenceMonitor watches the per-tick speech signal and decides when to
// nag about a silent microphone. Dictation is open-ended, so unlike a
// push-to-talk recorder there is no auto-stop; the warning just repeats.
type silenceMonitor struct {
	warnAt int

	ticks    int
	window   []bool
	warned   bool
	lastWarn int
}

func newSilenceMonitor() *silenceMonitor {
	warnAt := int(silenceWarnEvery / tickInterval)
	return &silenceMonitor{warnAt: warnAt, window: make([]bool, warnAt)}
}

// ratio is the speech fraction over the last warnAt ticks.
func (m *silenceMonitor) ratio() float64 {
	n := m.warnAt
	if m.ticks < n {
		n = m.ticks
	}
	if n == 0 {
		return 1.0
	}
	count := 0
	for i := 0; i < n; i++ {
		if m.window[(m.ticks-1-i+len(m.window))%len(m.window)] {
			count++
		}
	}
	return float64(count) / float64(n)
}

func (m *silenceMonitor) Tick(hasSpeech bool) SilenceEvent {
	m.window[m.ticks%len(m.window)] = hasSpeech
	m.ticks++

	r := m.ratio()

	if m.ticks >= m.warnAt && r < speechMinRatio && !m.warned {
		m.warned = true
		m.lastWarn = m.ticks
		return SilenceWarn
	}
	if m.warned && r >= speechClearRatio {
		m.warned = false
		return SilenceWarnClear
	}
	if m.warned && m.ticks-m.lastWarn >= m.warnAt {
		m.lastWarn = m.ticks
		return SilenceRepeat
	}
	return SilenceNone
}
