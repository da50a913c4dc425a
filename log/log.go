package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	diagLog    zerolog.Logger
	diagFile   *os.File
	submitFile *os.File
	logMu      sync.Mutex
	logReady   bool
	pid        int
	dir        string
)

// RequestTimings carries per-request network phase timings for the
// diagnostics log.
type RequestTimings struct {
	DNSMs      float64
	TLSMs      float64
	TTFBMs     float64
	TotalMs    float64
	ConnReused bool
}

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: -logpath flag
	if flagPath != "" {
		if !filepath.IsAbs(flagPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, flagPath), nil
		}
		return flagPath, nil
	}

	// Priority 2: VOXIDEA_LOG_PATH environment variable
	envPath := os.Getenv("VOXIDEA_LOG_PATH")
	if envPath != "" {
		if !filepath.IsAbs(envPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, envPath), nil
		}
		return envPath, nil
	}

	// Priority 3: Default OS-specific location
	return getDefaultDir()
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error

	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	submitPath := filepath.Join(dir, "submissions_log.txt")
	submitFile, err = os.OpenFile(submitPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		diagFile.Close()
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
	if submitFile != nil {
		submitFile.Close()
		submitFile = nil
	}
	logReady = false
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
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

// RequestMetrics logs the outcome and phase timings of one backend call.
func RequestMetrics(endpoint string, status int, t RequestTimings) {
	if !logReady {
		return
	}

	connStatus := "new"
	if t.ConnReused {
		connStatus = "reused"
	}

	diagLog.Info().
		Str("endpoint", endpoint).
		Int("status", status).
		Str("conn", connStatus).
		Float64("dns_ms", t.DNSMs).
		Float64("tls_ms", t.TLSMs).
		Float64("ttfb_ms", t.TTFBMs).
		Float64("total_ms", t.TotalMs).
		Msg("request")
}

// Recording logs the outcome of one finished capture session.
func Recording(mime string, durationS, sizeKB float64) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("mime", mime).
		Float64("audio_s", durationS).
		Float64("size_kb", sizeKB).
		Msg("recording")
}

// Transcript logs the returned transcript alongside its detected language.
func Transcript(language, dialect string, chars int) {
	if !logReady {
		return
	}
	ev := diagLog.Info().
		Str("language", language).
		Int("chars", chars)
	if dialect != "" {
		ev = ev.Str("dialect_hint", dialect)
	}
	ev.Msg("transcript")
}

// Submission records a successfully submitted idea in both logs.
func Submission(id, title string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("id", id).
		Str("title", title).
		Msg("submitted")

	logMu.Lock()
	defer logMu.Unlock()
	line := fmt.Sprintf("%s\t[%d]\t%s\t%s\n", time.Now().Format("2006-01-02 15:04:05"), pid, id, title)
	submitFile.WriteString(line)
}

func SessionStart(mode, device, api string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("mode", mode).
		Str("device", device).
		Str("api", api).
		Msg("session_start")
}

func SessionEnd(submitted int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("submitted", submitted).
		Msg("session_end")
}
