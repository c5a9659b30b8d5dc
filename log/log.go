package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

var (
	diagLog        zerolog.Logger
	diagFile       *os.File
	transcribeFile *os.File
	logMu          sync.Mutex
	logReady       bool
	debugEnabled   bool
	pid            int
	dir            string
)

// ResolveDir picks the log directory: flag, then VOZ_LOG_PATH, then the
// default per-user location.
func ResolveDir(flagPath string) (string, error) {
	for _, p := range []string{flagPath, os.Getenv("VOZ_LOG_PATH")} {
		if p == "" {
			continue
		}
		if filepath.IsAbs(p) {
			return p, nil
		}
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return filepath.Join(wd, p), nil
	}
	return defaultDir()
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	xdgState := os.Getenv("XDG_STATE_HOME")
	if xdgState == "" {
		xdgState = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(xdgState, "voz", "logs"), nil
}

func SetDir(d string) { dir = d }

func Dir() string { return dir }

func SetDebug(on bool) { debugEnabled = on }

// Init opens the diagnostics and transcript logs. Both processes (producer
// and engine) append to the same files; lines carry the pid.
func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	pid = os.Getpid()

	var err error
	diagFile, err = os.OpenFile(filepath.Join(dir, "diagnostics_log.txt"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	transcribeFile, err = os.OpenFile(filepath.Join(dir, "transcribe_log.txt"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		diagFile.Close()
		diagFile = nil
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if transcribeFile != nil {
		transcribeFile.Close()
		transcribeFile = nil
	}
	logReady = false
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Infof(format string, args ...any) {
	if logReady {
		diagLog.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Debugf(format string, args ...any) {
	if logReady && debugEnabled {
		diagLog.Debug().Msg(fmt.Sprintf(format, args...))
	}
}

// SessionStart records one producer run.
func SessionStart(model string, sampleRate int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("model", model).
		Int("sample_rate", sampleRate).
		Msg("session_start")
}

// UtteranceStats records one committed utterance. Length is counted in
// runes, not bytes; the transcript is UTF-8.
func UtteranceStats(text string, audioS, decodeMs float64) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("chars", utf8.RuneCountInString(text)).
		Float64("audio_s", audioS).
		Float64("decode_ms", decodeMs).
		Msg("utterance")
}

// EngineCaps records a capability renegotiation on the engine side.
func EngineCaps(surrounding bool) {
	if !logReady {
		return
	}
	diagLog.Info().Bool("surrounding_text", surrounding).Msg("client_caps")
}

// TranscriptionText appends committed text to the plain transcript log.
func TranscriptionText(text string) {
	if !logReady {
		return
	}
	logMu.Lock()
	defer logMu.Unlock()
	if transcribeFile == nil {
		return
	}
	line := fmt.Sprintf("%s\t[%d]\t%s\n", time.Now().Format("2006-01-02 15:04:05"), pid, text)
	transcribeFile.WriteString(line)
}
