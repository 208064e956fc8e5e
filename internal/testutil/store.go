package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/vocabdb/internal/db"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewStore creates an empty store that logs nowhere. opts are applied
// after the logger option, so a test can still install its own.
func NewStore(tb testing.TB, opts ...db.Option) *db.DB {
	tb.Helper()
	d, err := db.New(append([]db.Option{db.WithLogger(DiscardLogger())}, opts...)...)
	require.NoError(tb, err)
	return d
}
