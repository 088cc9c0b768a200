// Package logger holds the process-wide logrus logger shared by the engine,
// the script runner, the HTTP server and the CLI.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// AllocTraceEnv forces debug level when set, so every engine operation is traced.
const AllocTraceEnv = "HEAP_LOG_ALLOC"

const timestampFormat = "2006-01-02 15:04:05"

// L is the global logger. Until Init is called it writes info and above to stderr.
var L = newLogger(os.Stderr, logrus.InfoLevel, false)

// Options configures Init.
type Options struct {
	Level   string    // panic, fatal, error, warn, info, debug, trace. Default: info
	Out     io.Writer // Default: os.Stderr
	NoColor bool
}

// Init replaces L according to opts. An unknown level is reported and L is
// left untouched.
func Init(opts Options) error {
	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return err
		}
		level = parsed
	}
	if os.Getenv(AllocTraceEnv) != "" {
		level = logrus.DebugLevel
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	L = newLogger(out, level, opts.NoColor)
	return nil
}

// Discard returns a logger that drops everything. Tests use it to keep output clean.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	l.Level = logrus.PanicLevel
	return l
}

// Component returns an entry tagged with the given prefix, rendered by the
// prefixed formatter as "[name]".
func Component(name string) *logrus.Entry {
	return L.WithField("prefix", name)
}

func newLogger(out io.Writer, level logrus.Level, noColor bool) *logrus.Logger {
	return &logrus.Logger{
		Out:   out,
		Level: level,
		Hooks: make(logrus.LevelHooks),
		Formatter: &prefixed.TextFormatter{
			TimestampFormat: timestampFormat,
			FullTimestamp:   true,
			ForceFormatting: true,
			DisableColors:   noColor,
		},
		ExitFunc: os.Exit,
	}
}
