package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/fitness-coach/internal/config"
	"github.com/Rrens/fitness-coach/internal/logging"
)

func TestSetup_Level(t *testing.T) {
	closer, err := logging.Setup(config.LoggingConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	defer closer()

	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestSetup_InvalidLevelFallsBackToInfo(t *testing.T) {
	closer, err := logging.Setup(config.LoggingConfig{Level: "chatty"})
	require.NoError(t, err)
	defer closer()

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestSetup_RotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coach.log")

	closer, err := logging.Setup(config.LoggingConfig{Level: "info", File: path})
	require.NoError(t, err)

	log.Info().Str("component", "test").Msg("hello rotating log")
	require.NoError(t, closer())

	matches, err := filepath.Glob(path + ".*")
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello rotating log")
}
