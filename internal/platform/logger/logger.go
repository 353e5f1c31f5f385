// Package logger wraps zerolog with the process-wide root logger used by
// every flyersync component
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the root logger
type Options struct {
	Level      string
	Format     string
	Service    string
	File       string
	Writer     io.Writer
	WithCaller bool
}

// FromEnv reads LOG_* variables. It does not go through the config package
// because config logs through us.
func FromEnv() Options {
	return Options{
		Level:      strings.ToLower(env("LOG_LEVEL", "info")),
		Format:     strings.ToLower(env("LOG_FORMAT", "console")),
		Service:    env("LOG_SERVICE", "flyersync"),
		File:       env("LOG_FILE", ""),
		WithCaller: isTrue(env("LOG_CALLER", "")),
	}
}

func env(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func isTrue(s string) bool {
	s = strings.ToLower(s)
	return s == "1" || s == "true" || s == "yes"
}

var (
	once   sync.Once
	root   atomic.Pointer[zerolog.Logger]
	inited atomic.Bool
	file   *os.File
)

// Logger is the project-wide logging type
type Logger = zerolog.Logger

// Get returns the root logger, initialising it from the environment on first use
func Get() *Logger {
	if !inited.Load() {
		Init(FromEnv())
	}
	return root.Load()
}

// Init builds the root logger. Only the first call has an effect.
func Init(opt Options) {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		var w io.Writer = os.Stdout
		if opt.Writer != nil {
			w = opt.Writer
		}
		if opt.Format == "console" {
			w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		}
		if opt.File != "" {
			// the file always gets JSON lines so it can be grepped with jq
			f, err := os.OpenFile(opt.File, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
			if err == nil {
				file = f
				w = zerolog.MultiLevelWriter(w, f)
			}
		}

		ctx := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp()
		if opt.Service != "" {
			ctx = ctx.Str("service", opt.Service)
		}
		log := ctx.Logger()
		if opt.WithCaller {
			log = log.With().Caller().Logger()
		}

		root.Store(&log)
		inited.Store(true)
	})
}

// Close flushes and closes the optional log file
func Close() error {
	if file == nil {
		return nil
	}
	return file.Close()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Named returns a child logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	ll := Get().With().Str("component", component).Logger()
	return &ll
}

// Nop returns a logger that discards everything, for tests and dry wiring
func Nop() *Logger {
	l := zerolog.Nop()
	return &l
}
