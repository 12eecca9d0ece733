package roster

import (
	"context"
	"testing"

	"github.com/pairdev/paird/src/paird/entity"
	"github.com/pairdev/paird/src/paird/factory"
	"github.com/pairdev/paird/src/paird/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
	"go.uber.org/goleak"
)

func TestRoster(t *testing.T) {
	ctx := context.Background()
	scope := tally.NewTestScope("testing", make(map[string]string, 0))

	t.Run("should Set and Get successfully", func(t *testing.T) {
		r := New(scope)
		p := &entity.Participant{
			ID:     "4f2c1a9b",
			Name:   "User-4f2c1a9b",
			Color:  entity.ColorFor("4f2c1a9b"),
			Cursor: factory.Position(),
		}

		err := r.Set(ctx, p)
		require.NoError(t, err)

		got, err := r.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	})

	t.Run("should fail to get something that was not Set", func(t *testing.T) {
		r := New(scope)

		got, err := r.Get(ctx, "0badf00d")
		assert.Nil(t, got)
		require.Error(t, err)

		nf := &errors.ParticipantNotFoundError{}
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "0badf00d", nf.UserID)
	})

	t.Run("should fail to Set a nil participant", func(t *testing.T) {
		r := New(scope)
		assert.Error(t, r.Set(ctx, nil))
	})

	t.Run("should fail to Set a participant without an id", func(t *testing.T) {
		r := New(scope)
		assert.Error(t, r.Set(ctx, &entity.Participant{Name: "User-"}))
	})

	t.Run("should overwrite on repeated Set with the same id", func(t *testing.T) {
		r := New(scope)
		p := &entity.Participant{ID: "4f2c1a9b", Name: "User-4f2c1a9b"}
		require.NoError(t, r.Set(ctx, p))

		moved := &entity.Participant{ID: "4f2c1a9b", Name: "User-4f2c1a9b", Cursor: factory.Position()}
		require.NoError(t, r.Set(ctx, moved))

		got, err := r.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, moved, got)

		count, err := r.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("should Delete successfully", func(t *testing.T) {
		r := New(scope)
		p := &entity.Participant{ID: "4f2c1a9b", Name: "User-4f2c1a9b"}
		require.NoError(t, r.Set(ctx, p))

		// First deletion removes the participant. Repeated deletions return no error.
		require.NoError(t, r.Delete(ctx, p.ID))
		require.NoError(t, r.Delete(ctx, p.ID))

		got, err := r.Get(ctx, p.ID)
		assert.Nil(t, got)
		assert.Error(t, err)
	})

	t.Run("should list All participants", func(t *testing.T) {
		r := New(scope)
		ids := []string{"4f2c1a9b", "9c81d3e0", "77aa02cd"}
		for _, id := range ids {
			require.NoError(t, r.Set(ctx, &entity.Participant{ID: id, Name: entity.DefaultUserName(id)}))
		}

		all, err := r.All(ctx)
		require.NoError(t, err)
		assert.Len(t, all, len(ids))

		seen := make(map[string]bool, len(all))
		for _, p := range all {
			seen[p.ID] = true
		}
		for _, id := range ids {
			assert.True(t, seen[id])
		}
	})

	t.Run("should track Count across Set and Delete", func(t *testing.T) {
		r := New(scope)

		count, err := r.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)

		require.NoError(t, r.Set(ctx, &entity.Participant{ID: "4f2c1a9b"}))
		require.NoError(t, r.Set(ctx, &entity.Participant{ID: "9c81d3e0"}))

		count, err = r.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		require.NoError(t, r.Delete(ctx, "4f2c1a9b"))

		count, err = r.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
