// admin.go - builder activity tracking and the admin dashboard
package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio-builder/internal/config"
	"github.com/Zachkp/portfolio-builder/internal/section"
)

const (
	actionAdd    = "add"
	actionRemove = "remove"
	actionEdit   = "edit"
	actionSave   = "save"
	actionReset  = "reset"

	activityRetention = "-12 months"
)

// ActivityEntry is one recorded builder action. Sessions are stored hashed.
type ActivityEntry struct {
	ID            int64     `json:"id"`
	HashedSession string    `json:"hashed_session"`
	Action        string    `json:"action"`
	Section       string    `json:"section,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

type SectionStat struct {
	Section string `json:"section"`
	Added   int64  `json:"added"`
	Removed int64  `json:"removed"`
	Edited  int64  `json:"edited"`
}

type AdminStats struct {
	TotalActions    int64           `json:"total_actions"`
	UniqueSessions  int64           `json:"unique_sessions"`
	Resets          int64           `json:"resets"`
	ActionsToday    int64           `json:"actions_today"`
	ActionsThisWeek int64           `json:"actions_this_week"`
	Sections        []SectionStat   `json:"sections"`
	Recent          []ActivityEntry `json:"recent"`
}

type activityLog struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

func newActivityLog(ctx context.Context, db *sql.DB, logger *slog.Logger) (*activityLog, error) {
	_, err := db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS activity (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hashed_session TEXT NOT NULL,
		action TEXT NOT NULL,
		section TEXT,
		timestamp TEXT DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return nil, fmt.Errorf("create activity table: %w", err)
	}
	return &activityLog{db: db, logger: logger, now: time.Now}, nil
}

// record stores an action. Failures are logged and never reach the user.
func (l *activityLog) record(ctx context.Context, hashedSession, action string, id section.ID) {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO activity (hashed_session, action, section, timestamp)
		VALUES (?, ?, ?, ?)
	`, hashedSession, action, string(id), l.now().UTC().Format(time.DateTime))
	if err != nil {
		l.logger.Warn("record activity", "action", action, "error", err)
	}
}

// cleanup drops activity older than the retention window.
func (l *activityLog) cleanup(ctx context.Context) {
	result, err := l.db.ExecContext(ctx, `DELETE FROM activity WHERE timestamp < datetime('now', ?)`, activityRetention)
	if err != nil {
		l.logger.Error("clean up old activity", "error", err)
		return
	}
	if n, _ := result.RowsAffected(); n > 0 {
		l.logger.Info("removed old activity", "rows", n, "older_than", activityRetention)
	}
}

func (l *activityLog) stats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{}

	counts := []struct {
		dst   *int64
		query string
	}{
		{&stats.TotalActions, `SELECT COUNT(*) FROM activity`},
		{&stats.UniqueSessions, `SELECT COUNT(DISTINCT hashed_session) FROM activity`},
		{&stats.Resets, `SELECT COUNT(*) FROM activity WHERE action = 'reset'`},
		{&stats.ActionsToday, `SELECT COUNT(*) FROM activity WHERE DATE(timestamp) = DATE('now')`},
		{&stats.ActionsThisWeek, `SELECT COUNT(*) FROM activity WHERE timestamp >= datetime('now', '-7 days')`},
	}
	for _, c := range counts {
		if err := l.db.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("activity stats: %w", err)
		}
	}

	for _, info := range section.All() {
		st := SectionStat{Section: info.Name}
		err := l.db.QueryRowContext(ctx, `
			SELECT
				COALESCE(SUM(action = 'add'), 0),
				COALESCE(SUM(action = 'remove'), 0),
				COALESCE(SUM(action = 'save'), 0)
			FROM activity WHERE section = ?
		`, string(info.ID)).Scan(&st.Added, &st.Removed, &st.Edited)
		if err != nil {
			return nil, fmt.Errorf("section stats %s: %w", info.ID, err)
		}
		stats.Sections = append(stats.Sections, st)
	}

	recent, err := l.recent(ctx, 50)
	if err != nil {
		return nil, err
	}
	stats.Recent = recent
	return stats, nil
}

func (l *activityLog) recent(ctx context.Context, limit int) ([]ActivityEntry, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, hashed_session, action, COALESCE(section, ''), timestamp
		FROM activity
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	defer rows.Close()

	var out []ActivityEntry
	for rows.Next() {
		var e ActivityEntry
		var ts string
		if err := rows.Scan(&e.ID, &e.HashedSession, &e.Action, &e.Section, &ts); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		if e.Timestamp, err = time.Parse(time.DateTime, ts); err != nil {
			return nil, fmt.Errorf("activity %d timestamp: %w", e.ID, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	return out, nil
}

// adminAuth guards the dashboard with a per-process token cookie.
type adminAuth struct {
	creds  config.Admin
	token  string
	salt   string
	logger *slog.Logger
}

func newAdminAuth(creds config.Admin, logger *slog.Logger) *adminAuth {
	a := &adminAuth{creds: creds, token: randomToken(), salt: randomToken(), logger: logger}
	logger.Info("admin access available at /admin/login")
	if creds.Defaulted && gin.Mode() == gin.DebugMode {
		logger.Warn("using default admin credentials; set ADMIN_USERNAME and ADMIN_PASSWORD")
	}
	return a
}

func randomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("generate admin token: %v", err))
	}
	return hex.EncodeToString(b)
}

// hash makes session ids and client IPs safe to log and store.
func (a *adminAuth) hash(s string) string {
	sum := sha256.Sum256([]byte(s + a.salt))
	return hex.EncodeToString(sum[:])[:16]
}

func (a *adminAuth) check(username, password string) bool {
	u := subtle.ConstantTimeCompare([]byte(username), []byte(a.creds.Username))
	p := subtle.ConstantTimeCompare([]byte(password), []byte(a.creds.Password))
	return u&p == 1
}

func (a *adminAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("admin_token")
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (a *app) setupAdminRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		if !a.admin.check(c.PostForm("username"), c.PostForm("password")) {
			a.admin.logger.Warn("failed admin login", "client", a.admin.hash(c.ClientIP()))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{"error": "Invalid credentials"})
			return
		}
		c.SetCookie("admin_token", a.admin.token, 3600*24, "/admin", "", false, true)
		a.admin.logger.Info("admin login", "client", a.admin.hash(c.ClientIP()))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie("admin_token", "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	g := r.Group("/admin")
	g.Use(a.admin.middleware())

	g.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.activity.stats(c.Request.Context())
		if err != nil {
			a.admin.logger.Error("load admin stats", "error", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load statistics"})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{"stats": stats})
	})

	g.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.activity.stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	g.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.activity.stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=builder-activity.json")
		c.JSON(http.StatusOK, stats)
	})

	// Privacy: drop activity past the retention window now instead of at next start
	g.POST("/privacy/cleanup", func(c *gin.Context) {
		a.activity.cleanup(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"message": "Activity cleanup finished"})
	})
}
