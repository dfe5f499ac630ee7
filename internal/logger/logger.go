package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds the process-wide logger. Development gets the human-readable
// console writer; everything else stays structured JSON.
func New(env string) zerolog.Logger {
	log := zerolog.New(os.Stderr).With().
		Timestamp().
		Str("service", "grievance-service").
		Logger()
	if env == "development" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log = log.Level(zerolog.InfoLevel)
	}
	return log
}
