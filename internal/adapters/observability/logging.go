package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the process logger. Production emits JSON at info level;
// APP_ENV=dev or development switches to a console writer at debug level so
// enrichment degradation is easy to follow locally.
func NewLogger(env string) zerolog.Logger {
	var l zerolog.Logger
	switch env {
	case "dev", "development":
		out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		l = zerolog.New(out).Level(zerolog.DebugLevel)
	default:
		l = zerolog.New(os.Stdout).Level(zerolog.InfoLevel)
	}
	return l.With().Timestamp().Str("service", "searchhotel").Logger()
}
