// Package log is a thin structured-logging facade for the application.
// Call sites pass a message plus alternating key/value pairs; output goes
// through zerolog to stderr.
package log

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	logger     zerolog.Logger
	loggerOnce sync.Once
)

func initLogger() {
	loggerOnce.Do(func() {
		out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
		logger = zerolog.New(out).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	})
}

// SetLevel adjusts the minimum level. Accepted values: "debug", "info",
// "error"; anything else leaves the level at info.
func SetLevel(level string) {
	initLogger()
	switch level {
	case "debug":
		logger = logger.Level(zerolog.DebugLevel)
	case "info":
		logger = logger.Level(zerolog.InfoLevel)
	case "error":
		logger = logger.Level(zerolog.ErrorLevel)
	}
}

func Debug(msg string, kv ...any) {
	initLogger()
	emit(logger.Debug(), msg, kv)
}

func Info(msg string, kv ...any) {
	initLogger()
	emit(logger.Info(), msg, kv)
}

func Error(msg string, err error, kv ...any) {
	initLogger()
	emit(logger.Error().Err(err), msg, kv)
}

// emit attaches kv as fields, expecting pairs: key, value, key, value...
// A trailing odd entry or a non-string key is skipped.
func emit(ev *zerolog.Event, msg string, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, kv[i+1])
	}
	ev.Msg(msg)
}
