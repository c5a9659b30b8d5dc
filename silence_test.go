package main

import "testing"

func TestSilenceMonitorWarnsAfterSustainedSilence(t *testing.T) {
	m := newSilenceMonitor()
	warnTicks := int(silenceWarnEvery / tickInterval)

	for i := 0; i < warnTicks-1; i++ {
		if ev := m.Tick(false); ev != SilenceNone {
			t.Fatalf("tick %d: got %v before the warning window filled", i, ev)
		}
	}
	if ev := m.Tick(false); ev != SilenceWarn {
		t.Fatalf("got %v at the warning threshold, want SilenceWarn", ev)
	}
	// Warning fires once, not on every subsequent silent tick.
	if ev := m.Tick(false); ev != SilenceNone {
		t.Fatalf("got %v immediately after warning, want SilenceNone", ev)
	}
}

func TestSilenceMonitorNoWarnWithSpeech(t *testing.T) {
	m := newSilenceMonitor()
	warnTicks := int(silenceWarnEvery / tickInterval)

	// Half speech keeps the ratio far above the threshold.
	for i := 0; i < warnTicks*3; i++ {
		if ev := m.Tick(i%2 == 0); ev != SilenceNone {
			t.Fatalf("tick %d: got %v on an active mic", i, ev)
		}
	}
}

func TestSilenceMonitorClearsWithHysteresis(t *testing.T) {
	m := newSilenceMonitor()
	warnTicks := int(silenceWarnEvery / tickInterval)

	for i := 0; i < warnTicks; i++ {
		m.Tick(false)
	}

	var cleared bool
	for i := 0; i < warnTicks; i++ {
		hasSpeech := i%3 == 0 // ~33%, above the clear threshold
		if ev := m.Tick(hasSpeech); ev == SilenceWarnClear {
			cleared = true
			break
		}
	}
	if !cleared {
		t.Fatal("warning never cleared after speech resumed")
	}
}

func TestSilenceMonitorRepeats(t *testing.T) {
	m := newSilenceMonitor()
	warnTicks := int(silenceWarnEvery / tickInterval)

	for i := 0; i < warnTicks; i++ {
		m.Tick(false)
	}

	var repeats int
	for i := 0; i < warnTicks*2; i++ {
		if ev := m.Tick(false); ev == SilenceRepeat {
			repeats++
		}
	}
	if repeats != 2 {
		t.Fatalf("got %d repeats over two warning windows, want 2", repeats)
	}
}
