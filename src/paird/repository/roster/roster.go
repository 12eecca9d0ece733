package roster

import (
	"context"
	"sync"

	"github.com/pairdev/paird/src/paird/entity"
	"github.com/pairdev/paird/src/paird/internal/errors"
	"github.com/pairdev/paird/src/paird/mapper"
	"github.com/pairdev/paird/src/paird/model"
	"github.com/uber-go/tally"
)

// Repository is an entity-scoped store of the remote participants currently
// visible in the room. The collaboration session is its only writer.
type Repository interface {
	Get(ctx context.Context, userID string) (*entity.Participant, error)
	Set(ctx context.Context, p *entity.Participant) error
	Delete(ctx context.Context, userID string) error
	All(ctx context.Context) ([]*entity.Participant, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	mu       sync.Mutex
	memstore map[string]*model.Participant
	stats    tally.Scope
}

// New returns a repository to a key-value Participant data store.
func New(stats tally.Scope) Repository {
	return &repository{
		memstore: make(map[string]*model.Participant),
		stats:    stats,
	}
}

// Get returns the Participant associated with the given user identifier.
func (r *repository) Get(ctx context.Context, userID string) (*entity.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.memstore[userID]
	if !ok {
		return nil, &errors.ParticipantNotFoundError{UserID: userID}
	}
	return mapper.ModelToParticipant(p)
}

// Set stores the Participant under its user identifier.
func (r *repository) Set(ctx context.Context, p *entity.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p == nil {
		return errors.New("can't save nil participant")
	}
	if p.ID == "" {
		return errors.New("can't save participant without an id")
	}
	r.memstore[p.ID] = mapper.ParticipantToModel(p)
	r.stats.Gauge("participants").Update(float64(len(r.memstore)))
	return nil
}

// Delete removes the Participant associated with the given user identifier.
func (r *repository) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.memstore, userID)
	r.stats.Gauge("participants").Update(float64(len(r.memstore)))
	return nil
}

// All returns every Participant currently in the room.
func (r *repository) All(ctx context.Context) ([]*entity.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := make([]*entity.Participant, 0, len(r.memstore))
	for _, p := range r.memstore {
		participant, err := mapper.ModelToParticipant(p)
		if err == nil {
			found = append(found, participant)
		}
	}
	return found, nil
}

// Count returns the number of remote participants currently tracked.
func (r *repository) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.memstore), nil
}
