package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zerolog.Level{
		"":       zerolog.InfoLevel,
		"debug":  zerolog.DebugLevel,
		"WARN":   zerolog.WarnLevel,
		" error": zerolog.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestRotatedPattern(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/var/log/bazar.%Y%m%d.log", rotatedPattern("/var/log/bazar.log"))
	assert.Equal(t, "app.%Y%m%d", rotatedPattern("app"))
}

func TestInitLoggerWritesFile(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "bazar.log")
	log, closer, err := InitLogger("info", file)
	require.NoError(t, err)

	log.Info().Str("component", "test").Msg("hello")
	log.Debug().Msg("filtered")
	require.NoError(t, closer.Close())

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(file), "bazar.*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
	assert.NotContains(t, string(data), "filtered")
}
