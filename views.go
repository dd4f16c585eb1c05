package main

import (
	"context"
	"html/template"

	"github.com/Zachkp/portfolio-builder/internal/builder"
	"github.com/Zachkp/portfolio-builder/internal/content"
	"github.com/Zachkp/portfolio-builder/internal/notify"
	"github.com/Zachkp/portfolio-builder/internal/section"
)

type sidebarItem struct {
	ID          section.ID
	Name        string
	Description string
	Selected    bool
	Editing     bool
}

type renderedSection struct {
	ID      section.ID
	HTML    template.HTML
	Editing bool
}

type editorView struct {
	ID      section.ID
	Name    string
	Content content.Portfolio
	Error   string
}

type workspaceView struct {
	Sidebar      []sidebarItem
	Sections     []renderedSection
	Count        int
	EditingName  string
	Editor       *editorView
	ResetPending bool
	Toasts       []notify.Notification
}

type previewView struct {
	Title    string
	Sections []renderedSection
}

func renderSelected(store *builder.Store, st builder.State) []renderedSection {
	out := make([]renderedSection, 0, len(st.Selected))
	for _, id := range st.Selected {
		out = append(out, renderedSection{ID: id, HTML: store.Render(id), Editing: id == st.Editing})
	}
	return out
}

// view snapshots the store and drains pending toasts.
func (ws *workspace) view(ctx context.Context, editorErr string) workspaceView {
	st := ws.store.Snapshot()

	v := workspaceView{
		Sections:     renderSelected(ws.store, st),
		Count:        len(st.Selected),
		ResetPending: ws.reset.Pending(ctx),
		Toasts:       ws.toasts.Drain(),
	}
	for _, info := range section.All() {
		v.Sidebar = append(v.Sidebar, sidebarItem{
			ID:          info.ID,
			Name:        info.Name,
			Description: info.Description,
			Selected:    st.IsSelected(info.ID),
			Editing:     st.Editing == info.ID,
		})
	}
	if st.Editing != section.None {
		v.EditingName = st.Editing.Name()
		v.Editor = &editorView{ID: st.Editing, Name: st.Editing.Name(), Content: st.Content, Error: editorErr}
	}
	return v
}

func (ws *workspace) preview() previewView {
	st := ws.store.Snapshot()
	title := st.Content.Hero.Name
	if title == "" {
		title = "Portfolio"
	}
	return previewView{Title: title, Sections: renderSelected(ws.store, st)}
}
