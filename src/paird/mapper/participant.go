package mapper

import (
	"github.com/pairdev/paird/src/paird/entity"
	"github.com/pairdev/paird/src/paird/model"
)

// ParticipantToModel maps a Participant entity to its model equivalent.
func ParticipantToModel(p *entity.Participant) *model.Participant {
	decorations := make([]uint64, len(p.Decorations))
	for i, d := range p.Decorations {
		decorations[i] = uint64(d)
	}
	return &model.Participant{
		ID:          p.ID,
		Name:        p.Name,
		Color:       p.Color,
		Cursor:      p.Cursor,
		Selection:   p.Selection,
		Decorations: decorations,
	}
}

// ModelToParticipant maps a model Participant to its entity equivalent.
func ModelToParticipant(p *model.Participant) (*entity.Participant, error) {
	decorations := make([]entity.DecorationHandle, len(p.Decorations))
	for i, d := range p.Decorations {
		decorations[i] = entity.DecorationHandle(d)
	}
	return &entity.Participant{
		ID:          p.ID,
		Name:        p.Name,
		Color:       p.Color,
		Cursor:      p.Cursor,
		Selection:   p.Selection,
		Decorations: decorations,
	}, nil
}

// CursorEventToParticipant initializes a new Participant entity from the
// first cursor report of an unseen identifier. The display color is the
// deterministic function of the identifier.
func CursorEventToParticipant(ev *entity.CursorEvent) *entity.Participant {
	return &entity.Participant{
		ID:        ev.UserID,
		Name:      ev.UserName,
		Color:     entity.ColorFor(ev.UserID),
		Cursor:    ev.Position,
		Selection: ev.Selection,
	}
}
