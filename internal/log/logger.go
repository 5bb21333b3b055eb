package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. Production writes JSON lines at info level;
// other environments get a colored console at debug level.
func New(environment string) zerolog.Logger {
	var out io.Writer = os.Stdout
	level := zerolog.InfoLevel
	if environment != "production" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	return zerolog.New(out).With().
		Timestamp().
		Str("env", environment).
		Str("service", "shop").
		Logger()
}

// Component returns a child logger tagged with the component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
