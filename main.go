package main

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio-builder/internal/builder"
	"github.com/Zachkp/portfolio-builder/internal/config"
	"github.com/Zachkp/portfolio-builder/internal/content"
	"github.com/Zachkp/portfolio-builder/internal/log"
	"github.com/Zachkp/portfolio-builder/internal/notify"
	"github.com/Zachkp/portfolio-builder/internal/render"
	"github.com/Zachkp/portfolio-builder/internal/storage"
)

// app holds the server's shared dependencies.
type app struct {
	cfg       config.Config
	logger    *slog.Logger
	db        *storage.SQLite
	tmpl      *template.Template
	renderers builder.Renderers
	defaults  func() content.Portfolio
	sessions  *registry
	activity  *activityLog
	admin     *adminAuth
	mailer    mailer
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger, closer := log.New(cfg.Log, os.Stderr)
	slog.SetDefault(logger)

	err = run(cfg, logger)
	if err != nil {
		logger.Error("server stopped", "error", err)
	}
	if cerr := closer.Close(); cerr != nil {
		fmt.Fprintln(os.Stderr, "close log:", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig reads BUILDER_ENV_FILE when set, otherwise the environment (.env already autoloaded).
func loadConfig() (config.Config, error) {
	if path := os.Getenv("BUILDER_ENV_FILE"); path != "" {
		return config.FromFile(path)
	}
	return config.FromEnv()
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.OpenSQLite(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	a, err := newApp(ctx, cfg, logger, db)
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: a.router()}
	go a.sweepSessions(ctx, time.Minute)
	shutdownDone := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownDone <- srv.Shutdown(shutdownCtx)
	}()

	logger.Info("portfolio builder listening", "addr", srv.Addr, "db", cfg.DBPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-shutdownDone; err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped cleanly")
	return nil
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger, db *storage.SQLite) (*app, error) {
	tmpl, err := render.Templates()
	if err != nil {
		return nil, err
	}

	defaults := content.Defaults
	if cfg.ContentFile != "" {
		p, err := content.LoadDefaults(cfg.ContentFile)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded content defaults", "path", cfg.ContentFile)
		defaults = p.Clone
	}

	activity, err := newActivityLog(ctx, db.DB(), log.WithComponent(logger, "activity"))
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		tmpl:      tmpl,
		renderers: render.SectionRenderers(tmpl),
		defaults:  defaults,
		activity:  activity,
		admin:     newAdminAuth(cfg.Admin, log.WithComponent(logger, "admin")),
		mailer:    smtpMailer{cfg: cfg.SMTP},
	}
	a.sessions = newRegistry(a.openWorkspace)
	go activity.cleanup(context.WithoutCancel(ctx))
	return a, nil
}

// openWorkspace builds a session's store over its durable namespace and restores saved state.
func (a *app) openWorkspace(ctx context.Context, id string) *workspace {
	logger := log.WithComponent(a.logger, "builder").With("session", a.admin.hash(id))
	durable := a.db.Namespace(id)
	toasts := notify.NewQueue(5)
	session := storage.NewMemory()

	store := builder.NewStore(builder.Options{
		Durable:       durable,
		Sink:          toasts,
		Renderers:     a.renderers,
		Defaults:      a.defaults,
		PersistLayout: a.cfg.PersistLayout,
		Logger:        logger,
	})
	if err := store.Load(ctx); err != nil {
		logger.Warn("restore workspace", "error", err)
	}

	return &workspace{
		id:      id,
		store:   store,
		reset:   builder.NewResetFlow(store, durable, session, logger),
		toasts:  toasts,
		session: session,
	}
}

func (a *app) sweepSessions(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := a.sessions.sweep(a.cfg.SessionIdle); n > 0 {
				a.logger.Debug("swept idle workspaces", "count", n)
			}
		}
	}
}

func (a *app) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log.WithComponent(a.logger, "http")))
	r.SetHTMLTemplate(a.tmpl)
	r.Static("/static", "./static")

	r.GET("/healthz", func(c *gin.Context) {
		saved, err := a.db.Namespaces(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "storage unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "workspaces": a.sessions.len(), "saved_workspaces": len(saved)})
	})

	a.setupAdminRoutes(r)

	b := r.Group("/")
	b.Use(a.sessionMiddleware())
	a.setupBuilderRoutes(b)

	return r
}

// requestLogger logs one line per request through slog.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
