package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. Development gets a colored console writer,
// everything else gets JSON lines on stdout.
func New(isDev bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = os.Stdout
	if isDev {
		out = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		}
	}
	return zerolog.New(out).With().Timestamp().Logger()
}

func IsDev(env string) bool {
	return env == "" || env == "dev" || env == "development"
}
