package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Zachkp/portfolio-builder/internal/section"
)

func TestEditStateTransitions(t *testing.T) {
	tests := []struct {
		name  string
		from  EditState
		event EditEvent
		want  section.ID
	}{
		{"open", EditState{}, SelectEvent(section.Hero), section.Hero},
		{"same closes", EditState{id: section.Hero}, SelectEvent(section.Hero), section.None},
		{"switch", EditState{id: section.Hero}, SelectEvent(section.About), section.About},
		{"removed open", EditState{id: section.Hero}, RemovedEvent(section.Hero), section.None},
		{"removed other", EditState{id: section.Hero}, RemovedEvent(section.About), section.Hero},
		{"removed when closed", EditState{}, RemovedEvent(section.About), section.None},
		{"close", EditState{id: section.Contact}, CloseEvent(), section.None},
		{"unknown", EditState{id: section.Contact}, SelectEvent(section.ID("footer")), section.None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, open := tt.from.Next(tt.event).Editing()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want != section.None, open)
		})
	}
}

func TestEditStateIs(t *testing.T) {
	var s EditState
	assert.False(t, s.Is(section.None))
	s = s.Next(SelectEvent(section.Projects))
	assert.True(t, s.Is(section.Projects))
	assert.False(t, s.Is(section.Hero))
}
