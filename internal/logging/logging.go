package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/fitness-coach/internal/config"
)

// Setup configures the global zerolog logger. It returns a closer for the
// rotating file writer, or a no-op when logging to stderr only.
func Setup(cfg config.LoggingConfig) (func() error, error) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var console io.Writer = os.Stderr
	if cfg.Format == "console" {
		console = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	if cfg.File == "" {
		log.Logger = zerolog.New(console).With().Timestamp().Logger()
		return func() error { return nil }, nil
	}

	rotator, err := newRotator(cfg)
	if err != nil {
		return nil, err
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(console, rotator)).With().Timestamp().Logger()
	return rotator.Close, nil
}

// newRotator writes <file>.YYYYMMDD and keeps a <file> symlink to the
// current segment.
func newRotator(cfg config.LoggingConfig) (*rotatelogs.RotateLogs, error) {
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}

	rotator, err := rotatelogs.New(
		cfg.File+".%Y%m%d",
		rotatelogs.WithLinkName(cfg.File),
		rotatelogs.WithMaxAge(maxAge),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open rotating log %s: %w", cfg.File, err)
	}
	return rotator, nil
}
