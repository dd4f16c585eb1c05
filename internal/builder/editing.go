package builder

import "github.com/Zachkp/portfolio-builder/internal/section"

// EditState is which section, if any, is open in the content editor.
// The zero value is "none".
type EditState struct {
	id section.ID
}

// Editing returns the open section and true, or None and false.
func (s EditState) Editing() (section.ID, bool) {
	return s.id, s.id != section.None
}

// Is reports whether id is the open section.
func (s EditState) Is(id section.ID) bool {
	return s.id != section.None && s.id == id
}

type editEventKind int

const (
	editSelect editEventKind = iota
	editRemoved
	editClose
)

// EditEvent drives EditState.Next.
type EditEvent struct {
	kind editEventKind
	id   section.ID
}

// SelectEvent is a click on a section's edit control.
func SelectEvent(id section.ID) EditEvent { return EditEvent{kind: editSelect, id: id} }

// RemovedEvent is a section leaving the selection.
func RemovedEvent(id section.ID) EditEvent { return EditEvent{kind: editRemoved, id: id} }

// CloseEvent closes the editor unconditionally.
func CloseEvent() EditEvent { return EditEvent{kind: editClose} }

// Next is the only transition function of the editor:
//
//	none      --select X--> editing X
//	editing X --select X--> none
//	editing X --select Y--> editing Y
//	editing X --removed X-> none
//	any       --close-----> none
func (s EditState) Next(ev EditEvent) EditState {
	switch ev.kind {
	case editSelect:
		if !ev.id.Valid() || s.Is(ev.id) {
			return EditState{}
		}
		return EditState{id: ev.id}
	case editRemoved:
		if s.Is(ev.id) {
			return EditState{}
		}
		return s
	default:
		return EditState{}
	}
}
