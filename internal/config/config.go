// Package config reads the server configuration from the environment.
// main loads a .env file first via godotenv/autoload, so values may come from either.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Zachkp/portfolio-builder/internal/log"
)

type SMTP struct {
	Host string
	Port string
	User string
	Pass string
	To   string
}

// Configured reports whether credentials are present.
func (s SMTP) Configured() bool { return s.User != "" && s.Pass != "" }

type Admin struct {
	Username string
	Password string
	// Defaulted is set when either credential fell back to the development default.
	Defaulted bool
}

type Config struct {
	Port          string
	DBPath        string
	PersistLayout bool
	ContentFile   string
	SessionIdle   time.Duration
	Log           log.Options
	Admin         Admin
	SMTP          SMTP
}

// Lookup matches os.LookupEnv.
type Lookup func(key string) (string, bool)

// FromEnv reads the process environment.
func FromEnv() (Config, error) { return Parse(os.LookupEnv) }

// FromFile reads a dotenv file without touching the process environment.
func FromFile(path string) (Config, error) {
	vals, err := godotenv.Read(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(func(k string) (string, bool) {
		v, ok := vals[k]
		return v, ok
	})
}

// Parse builds a Config, applying development defaults for anything unset.
func Parse(lookup Lookup) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := Config{
		Port:        get("PORT", "8080"),
		DBPath:      get("BUILDER_DB_PATH", "builder.db"),
		ContentFile: get("BUILDER_CONTENT_FILE", ""),
		Log: log.Options{
			Level:  get("LOG_LEVEL", "info"),
			Format: get("LOG_FORMAT", "console"),
			File:   get("LOG_FILE", ""),
		},
		SMTP: SMTP{
			Host: get("SMTP_HOST", "smtp.gmail.com"),
			Port: get("SMTP_PORT", "587"),
			User: get("SMTP_USER", ""),
			Pass: get("SMTP_PASS", ""),
			To:   get("TO_EMAIL", ""),
		},
	}

	var err error
	if cfg.PersistLayout, err = strconv.ParseBool(get("BUILDER_PERSIST_LAYOUT", "true")); err != nil {
		return Config{}, fmt.Errorf("BUILDER_PERSIST_LAYOUT: %w", err)
	}
	if cfg.Log.AddSource, err = strconv.ParseBool(get("LOG_SOURCE", "false")); err != nil {
		return Config{}, fmt.Errorf("LOG_SOURCE: %w", err)
	}
	if cfg.SessionIdle, err = time.ParseDuration(get("BUILDER_SESSION_IDLE", "24h")); err != nil {
		return Config{}, fmt.Errorf("BUILDER_SESSION_IDLE: %w", err)
	}
	if cfg.SessionIdle <= 0 {
		return Config{}, fmt.Errorf("BUILDER_SESSION_IDLE must be positive, got %s", cfg.SessionIdle)
	}

	user, userSet := lookup("ADMIN_USERNAME")
	pass, passSet := lookup("ADMIN_PASSWORD")
	cfg.Admin = Admin{Username: get("ADMIN_USERNAME", "admin"), Password: get("ADMIN_PASSWORD", "admin123")}
	cfg.Admin.Defaulted = !userSet || user == "" || !passSet || pass == ""

	return cfg, nil
}
