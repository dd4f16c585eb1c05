package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio-builder/internal/section"
	"github.com/Zachkp/portfolio-builder/internal/storage"
)

func newTestActivityLog(t *testing.T) *activityLog {
	t.Helper()
	ctx := context.Background()
	db, err := storage.OpenSQLite(ctx, filepath.Join(t.TempDir(), "activity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	l, err := newActivityLog(ctx, db.DB(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return l
}

func TestRecentActivity(t *testing.T) {
	ctx := context.Background()
	l := newTestActivityLog(t)
	at := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	l.now = func() time.Time { return at }

	l.record(ctx, "abc", actionAdd, section.Hero)
	at = at.Add(time.Minute)
	l.record(ctx, "abc", actionReset, section.None)

	recent, err := l.recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, actionReset, recent[0].Action)
	assert.Equal(t, at, recent[0].Timestamp)
	assert.Equal(t, string(section.Hero), recent[1].Section)
}

func TestRecentActivityReportsBadTimestamp(t *testing.T) {
	ctx := context.Background()
	l := newTestActivityLog(t)
	_, err := l.db.ExecContext(ctx, `INSERT INTO activity (hashed_session, action, section, timestamp) VALUES ('abc', 'add', 'hero', 'yesterday')`)
	require.NoError(t, err)

	_, err = l.recent(ctx, 10)
	assert.ErrorContains(t, err, "timestamp")

	_, err = l.stats(ctx)
	assert.Error(t, err)
}
