// Package section defines the fixed set of portfolio sections.
package section

import (
	"errors"
	"fmt"
)

// ID identifies one of the four portfolio sections.
type ID string

const (
	None     ID = ""
	Hero     ID = "hero"
	About    ID = "about"
	Projects ID = "projects"
	Contact  ID = "contact"
)

// ErrUnknown is returned by Parse for anything outside the closed set.
var ErrUnknown = errors.New("unknown section")

// Info describes a section for the sidebar.
type Info struct {
	ID          ID
	Name        string
	Description string
}

var catalog = []Info{
	{ID: Hero, Name: "Hero", Description: "Landing section with introduction"},
	{ID: About, Name: "About", Description: "Personal information and skills"},
	{ID: Projects, Name: "Projects", Description: "Portfolio projects showcase"},
	{ID: Contact, Name: "Contact", Description: "Contact information and form"},
}

// All returns the catalog in sidebar order.
func All() []Info {
	out := make([]Info, len(catalog))
	copy(out, catalog)
	return out
}

// Valid reports whether id is one of the four sections.
func (id ID) Valid() bool {
	_, ok := lookup(id)
	return ok
}

// Name returns the human-readable name, or the raw id when it is not in the catalog.
func (id ID) Name() string {
	if info, ok := lookup(id); ok {
		return info.Name
	}
	return string(id)
}

func (id ID) String() string { return string(id) }

// Parse converts a route parameter or stored value into an ID.
func Parse(s string) (ID, error) {
	id := ID(s)
	if !id.Valid() {
		return None, fmt.Errorf("%w: %q", ErrUnknown, s)
	}
	return id, nil
}

func lookup(id ID) (Info, bool) {
	for _, info := range catalog {
		if info.ID == id {
			return info, true
		}
	}
	return Info{}, false
}
