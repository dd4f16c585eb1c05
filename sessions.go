package main

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Zachkp/portfolio-builder/internal/builder"
	"github.com/Zachkp/portfolio-builder/internal/notify"
	"github.com/Zachkp/portfolio-builder/internal/storage"
)

const (
	sessionCookie    = "builder_session"
	sessionCookieAge = 3600 * 24 * 365
	workspaceKey     = "workspace"
)

// workspace is everything one browser session owns.
type workspace struct {
	id      string
	store   *builder.Store
	reset   *builder.ResetFlow
	toasts  *notify.Queue
	session *storage.Memory
}

// registry keeps live workspaces keyed by session id. Workspaces held by an
// in-flight request are never swept.
type registry struct {
	mu       sync.Mutex
	byID     map[string]*workspace
	lastSeen map[string]time.Time
	active   map[string]int
	open     func(ctx context.Context, id string) *workspace
	now      func() time.Time
}

func newRegistry(open func(ctx context.Context, id string) *workspace) *registry {
	return &registry{
		byID:     make(map[string]*workspace),
		lastSeen: make(map[string]time.Time),
		active:   make(map[string]int),
		open:     open,
		now:      time.Now,
	}
}

// get returns the workspace for id, opening it from durable storage on first use.
func (r *registry) get(ctx context.Context, id string) *workspace {
	return r.lookup(ctx, id, false)
}

// acquire is get for a request; the workspace stays unsweepable until release.
func (r *registry) acquire(ctx context.Context, id string) *workspace {
	return r.lookup(ctx, id, true)
}

func (r *registry) release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active[id]--; r.active[id] <= 0 {
		delete(r.active, id)
	}
	r.lastSeen[id] = r.now()
}

func (r *registry) lookup(ctx context.Context, id string, hold bool) *workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.byID[id]
	if !ok {
		// Opening reads storage; other sessions must not wait on it.
		r.mu.Unlock()
		opened := r.open(ctx, id)
		r.mu.Lock()
		if ws, ok = r.byID[id]; !ok {
			ws = opened
			r.byID[id] = ws
		}
	}
	r.lastSeen[id] = r.now()
	if hold {
		r.active[id]++
	}
	return ws
}

// sweep drops workspaces idle for longer than idle. Their durable state stays in storage.
func (r *registry) sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-idle)
	n := 0
	for id, seen := range r.lastSeen {
		if r.active[id] > 0 || !seen.Before(cutoff) {
			continue
		}
		delete(r.byID, id)
		delete(r.lastSeen, id)
		n++
	}
	return n
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// sessionMiddleware attaches the caller's workspace, issuing a session cookie when needed.
func (a *app) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetCookie(sessionCookie, id, sessionCookieAge, "/", "", false, true)
		}
		c.Set(workspaceKey, a.sessions.acquire(c.Request.Context(), id))
		defer a.sessions.release(id)
		c.Next()
	}
}

func workspaceFrom(c *gin.Context) *workspace {
	return c.MustGet(workspaceKey).(*workspace)
}
