// Package builder owns the state of one portfolio-builder workspace: which sections
// are shown, which one is being edited, and the content of each.
package builder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"slices"
	"sync"

	"github.com/Zachkp/portfolio-builder/internal/content"
	"github.com/Zachkp/portfolio-builder/internal/notify"
	"github.com/Zachkp/portfolio-builder/internal/section"
	"github.com/Zachkp/portfolio-builder/internal/storage"
)

// Storage keys.
const (
	ContentKey = "portfolio-content"
	LayoutKey  = "portfolio-layout"
)

// ErrNotEditing is returned when content is changed for a section the editor is not open on.
var ErrNotEditing = errors.New("section is not open in the editor")

// Renderer turns the portfolio content into the view of one section.
type Renderer func(content.Portfolio) (template.HTML, error)

// Renderers maps each section to its renderer.
type Renderers map[section.ID]Renderer

// Options configures a Store. Zero values are usable: no persistence, no notifications,
// no renderers, built-in defaults.
type Options struct {
	Durable       storage.KV
	Sink          notify.Sink
	Renderers     Renderers
	Defaults      func() content.Portfolio
	PersistLayout bool
	Logger        *slog.Logger
}

// State is a copy of the store's state for views and tests.
type State struct {
	Selected []section.ID
	Editing  section.ID
	Content  content.Portfolio
}

// IsSelected reports whether id is part of the selection.
func (s State) IsSelected(id section.ID) bool {
	return slices.Contains(s.Selected, id)
}

// Store is the single source of truth for one workspace.
type Store struct {
	mu       sync.Mutex
	selected []section.ID
	editing  EditState
	content  content.Portfolio

	durable       storage.KV
	sink          notify.Sink
	renderers     Renderers
	defaults      func() content.Portfolio
	persistLayout bool
	logger        *slog.Logger
}

// NewStore returns a store in the default state. Call Load to restore persisted state.
func NewStore(opts Options) *Store {
	s := &Store{
		durable:       opts.Durable,
		sink:          opts.Sink,
		renderers:     opts.Renderers,
		defaults:      opts.Defaults,
		persistLayout: opts.PersistLayout,
		logger:        opts.Logger,
	}
	if s.sink == nil {
		s.sink = notify.Discard
	}
	if s.defaults == nil {
		s.defaults = content.Defaults
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.content = s.defaults()
	return s
}

// Toggle adds id to the end of the selection, or removes it if already selected.
// Removing the section that is open in the editor closes the editor.
// It reports whether the section was added. Ids outside the closed set are ignored.
func (s *Store) Toggle(ctx context.Context, id section.ID) bool {
	if !id.Valid() {
		return false
	}
	s.mu.Lock()
	added := !slices.Contains(s.selected, id)
	if added {
		s.selected = append(s.selected, id)
	} else {
		s.selected = slices.DeleteFunc(slices.Clone(s.selected), func(x section.ID) bool { return x == id })
		s.editing = s.editing.Next(RemovedEvent(id))
	}
	err := s.persistLocked(ctx, false)
	s.mu.Unlock()

	if added {
		s.sink.Notify("Section added", fmt.Sprintf("%s section has been added to the portfolio.", id.Name()))
	} else {
		s.sink.Notify("Section removed", fmt.Sprintf("%s section has been removed from the portfolio.", id.Name()))
	}
	s.reportPersist(err)
	return added
}

// SetEditing opens the editor on id. Passing the open section, or section.None,
// closes the editor. Sections that are not selected cannot be opened.
// It returns the section open afterwards.
func (s *Store) SetEditing(ctx context.Context, id section.ID) section.ID {
	s.mu.Lock()
	switch {
	case id == section.None:
		s.editing = s.editing.Next(CloseEvent())
	case slices.Contains(s.selected, id):
		s.editing = s.editing.Next(SelectEvent(id))
	default:
		cur, _ := s.editing.Editing()
		s.mu.Unlock()
		return cur
	}
	cur, _ := s.editing.Editing()
	err := s.persistLocked(ctx, false)
	s.mu.Unlock()

	s.reportPersist(err)
	return cur
}

// UpdateContent applies fn to the content while id is open in the editor.
func (s *Store) UpdateContent(ctx context.Context, id section.ID, fn func(*content.Portfolio)) error {
	s.mu.Lock()
	if !s.editing.Is(id) {
		s.mu.Unlock()
		return fmt.Errorf("update %s: %w", id, ErrNotEditing)
	}
	fn(&s.content)
	err := s.persistLocked(ctx, true)
	s.mu.Unlock()

	s.reportPersist(err)
	return nil
}

// Render returns the view of id for the current content. Ids without a renderer yield nothing.
func (s *Store) Render(id section.ID) template.HTML {
	r, ok := s.renderers[id]
	if !ok || r == nil {
		return ""
	}
	s.mu.Lock()
	c := s.content.Clone()
	s.mu.Unlock()

	html, err := r(c)
	if err != nil {
		s.logger.Error("render section", "section", id, "error", err)
		return ""
	}
	return html
}

// ResetToDefaults restores the default state in memory. Storage is left untouched.
func (s *Store) ResetToDefaults() {
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()
}

func (s *Store) resetLocked() {
	s.selected = nil
	s.editing = s.editing.Next(CloseEvent())
	s.content = s.defaults()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, _ := s.editing.Editing()
	return State{
		Selected: slices.Clone(s.selected),
		Editing:  cur,
		Content:  s.content.Clone(),
	}
}

type layout struct {
	Selected []section.ID `json:"selected"`
	Editing  section.ID   `json:"editing,omitempty"`
}

// Load restores persisted state over the defaults. Entries that fail to decode are
// skipped and reported; the rest still load.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Store) loadLocked(ctx context.Context) error {
	if s.durable == nil {
		return nil
	}
	var errs []error
	raw, ok, err := s.durable.Get(ctx, ContentKey)
	switch {
	case err != nil:
		errs = append(errs, err)
	case ok:
		c := s.defaults()
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			errs = append(errs, fmt.Errorf("decode %s: %w", ContentKey, err))
		} else {
			s.content = c
		}
	}

	if !s.persistLayout {
		return errors.Join(errs...)
	}
	raw, ok, err = s.durable.Get(ctx, LayoutKey)
	switch {
	case err != nil:
		errs = append(errs, err)
	case ok:
		var l layout
		if err := json.Unmarshal([]byte(raw), &l); err != nil {
			errs = append(errs, fmt.Errorf("decode %s: %w", LayoutKey, err))
			break
		}
		var selected []section.ID
		for _, id := range l.Selected {
			if id.Valid() && !slices.Contains(selected, id) {
				selected = append(selected, id)
			}
		}
		s.selected = selected
		s.editing = EditState{}
		if slices.Contains(s.selected, l.Editing) {
			s.editing = s.editing.Next(SelectEvent(l.Editing))
		}
	}
	return errors.Join(errs...)
}

// ResetWith runs wipe, resets to defaults and re-reads durable storage, all without
// letting another mutation in between. A wipe error does not stop the reset; the
// wipe and reload errors are returned joined.
func (s *Store) ResetWith(ctx context.Context, wipe func(context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	wipeErr := wipe(ctx)
	s.resetLocked()
	var loadErr error
	if err := s.loadLocked(ctx); err != nil {
		loadErr = fmt.Errorf("reinitialize: %w", err)
	}
	return errors.Join(wipeErr, loadErr)
}

func (s *Store) persistLocked(ctx context.Context, contentChanged bool) error {
	if s.durable == nil {
		return nil
	}
	var errs []error
	if contentChanged {
		data, err := json.Marshal(s.content)
		if err != nil {
			errs = append(errs, fmt.Errorf("encode %s: %w", ContentKey, err))
		} else if err := s.durable.Set(ctx, ContentKey, string(data)); err != nil {
			errs = append(errs, err)
		}
	}
	if s.persistLayout {
		cur, _ := s.editing.Editing()
		data, err := json.Marshal(layout{Selected: s.selected, Editing: cur})
		if err != nil {
			errs = append(errs, fmt.Errorf("encode %s: %w", LayoutKey, err))
		} else if err := s.durable.Set(ctx, LayoutKey, string(data)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// reportPersist keeps the in-memory change and tells the user it was not stored.
func (s *Store) reportPersist(err error) {
	if err == nil {
		return
	}
	s.logger.Warn("persist builder state", "error", err)
	s.sink.Notify("Changes not saved", "Your change is kept for this session but could not be stored.")
}
