package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) Lookup {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := Parse(env(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "builder.db", cfg.DBPath)
	assert.True(t, cfg.PersistLayout)
	assert.Equal(t, 24*time.Hour, cfg.SessionIdle)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.True(t, cfg.Admin.Defaulted)
	assert.False(t, cfg.SMTP.Configured())
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
}

func TestOverrides(t *testing.T) {
	cfg, err := Parse(env(map[string]string{
		"PORT":                   "9000",
		"BUILDER_PERSIST_LAYOUT": "false",
		"BUILDER_SESSION_IDLE":   "30m",
		"LOG_FORMAT":             "json",
		"ADMIN_USERNAME":         "zach",
		"ADMIN_PASSWORD":         "s3cret",
		"SMTP_USER":              "me@example.com",
		"SMTP_PASS":              "app-password",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.False(t, cfg.PersistLayout)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdle)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, Admin{Username: "zach", Password: "s3cret"}, cfg.Admin)
	assert.True(t, cfg.SMTP.Configured())
}

func TestInvalidValues(t *testing.T) {
	for key, val := range map[string]string{
		"BUILDER_PERSIST_LAYOUT": "maybe",
		"BUILDER_SESSION_IDLE":   "soon",
		"LOG_SOURCE":             "perhaps",
	} {
		_, err := Parse(env(map[string]string{key: val}))
		assert.ErrorContains(t, err, key)
	}

	_, err := Parse(env(map[string]string{"BUILDER_SESSION_IDLE": "-1h"}))
	assert.Error(t, err)
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=7070\nBUILDER_DB_PATH=/tmp/b.db\n"), 0o600))

	cfg, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "/tmp/b.db", cfg.DBPath)

	_, err = FromFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
