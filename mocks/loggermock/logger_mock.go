package loggermock

import (
	"io"

	"github.com/rs/zerolog"
)

// NewNoOpLogger discards everything. Tests that assert on log output use
// NewBufferLogger instead.
func NewNoOpLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

func NewBufferLogger(w io.Writer) *zerolog.Logger {
	logger := zerolog.New(w).Level(zerolog.DebugLevel)
	return &logger
}
