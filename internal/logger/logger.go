package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
)

const (
	rotationTime = 24 * time.Hour
	maxAge       = 7 * 24 * time.Hour
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// InitLogger writes human-readable output to stderr. When file is set, JSON
// lines are also written to a daily rotated file next to it. The returned
// closer releases the file sink.
func InitLogger(level, file string) (zerolog.Logger, io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	var closer io.Closer = nopCloser{}

	if file != "" {
		rl, err := rotatelogs.New(
			rotatedPattern(file),
			rotatelogs.WithLinkName(file),
			rotatelogs.WithRotationTime(rotationTime),
			rotatelogs.WithMaxAge(maxAge),
		)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("open log file %s: %w", file, err)
		}
		out = zerolog.MultiLevelWriter(out, rl)
		closer = rl
	}

	logger := zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	return logger, closer, nil
}

// ParseLevel accepts zerolog level names; empty means info.
func ParseLevel(level string) (zerolog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// rotatedPattern turns /var/log/bazar.log into /var/log/bazar.%Y%m%d.log.
func rotatedPattern(file string) string {
	ext := filepath.Ext(file)
	return strings.TrimSuffix(file, ext) + ".%Y%m%d" + ext
}
