// Package logging configures the global zerolog logger for the CLI.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cognicore/newsgrid/pkg/newsgrid/internalerr"
)

// Setup sets the global level and writes to stderr, human-readable when
// pretty is set. An empty level means info.
func Setup(level string, pretty bool) error {
	return SetupWriter(os.Stderr, level, pretty)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(w io.Writer, level string, pretty bool) error {
	if strings.TrimSpace(level) == "" {
		level = "info"
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, internalerr.ErrInvalidConfig)
	}
	zerolog.SetGlobalLevel(lvl)

	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return nil
}
