package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mansoorceksport/gympro/internal/domain"
	"github.com/mansoorceksport/gympro/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store down")

// flakyStore fails AddExercise/RemoveExercise for the listed category IDs
type flakyStore struct {
	*memory.CategoryRepository
	failAdd    map[string]bool
	failRemove map[string]bool
}

func newFlakyStore() *flakyStore {
	return &flakyStore{
		CategoryRepository: memory.NewCategoryRepository(),
		failAdd:            map[string]bool{},
		failRemove:         map[string]bool{},
	}
}

func (f *flakyStore) AddExercise(ctx context.Context, id, exerciseID string) error {
	if f.failAdd[id] {
		return errStoreDown
	}
	return f.CategoryRepository.AddExercise(ctx, id, exerciseID)
}

func (f *flakyStore) RemoveExercise(ctx context.Context, id, exerciseID string) error {
	if f.failRemove[id] {
		return errStoreDown
	}
	return f.CategoryRepository.RemoveExercise(ctx, id, exerciseID)
}

func mustCategory(t *testing.T, repo domain.CategoryRepository, name string) *domain.Category {
	t.Helper()
	cat := &domain.Category{Name: name}
	require.NoError(t, repo.Create(context.Background(), cat))
	return cat
}

func exercisesOf(t *testing.T, repo domain.CategoryRepository, id string) []string {
	t.Helper()
	cat, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return cat.Exercises
}

const exID = "65a000000000000000000001"

func TestReferenceIntegrity_AttachAddsToBothLists(t *testing.T) {
	ctx := context.Background()
	types, muscles := newFlakyStore(), newFlakyStore()
	t1 := mustCategory(t, types, "Strength")
	m1 := mustCategory(t, muscles, "Legs")

	engine := NewReferenceIntegrity(types, muscles)
	require.NoError(t, engine.Attach(ctx, exID, t1.ID, m1.ID))

	assert.Equal(t, []string{exID}, exercisesOf(t, types, t1.ID))
	assert.Equal(t, []string{exID}, exercisesOf(t, muscles, m1.ID))

	// attaching again must not duplicate the entry
	require.NoError(t, engine.Attach(ctx, exID, t1.ID, m1.ID))
	assert.Equal(t, []string{exID}, exercisesOf(t, types, t1.ID))
	assert.Equal(t, []string{exID}, exercisesOf(t, muscles, m1.ID))
}

func TestReferenceIntegrity_AttachMissingType(t *testing.T) {
	types, muscles := newFlakyStore(), newFlakyStore()
	m1 := mustCategory(t, muscles, "Legs")

	engine := NewReferenceIntegrity(types, muscles)
	err := engine.Attach(context.Background(), exID, "65a0000000000000000000ff", m1.ID)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrReferenceNotFound)
	var partial *domain.PartialWriteError
	assert.False(t, errors.As(err, &partial), "nothing was written, so no partial write")
	assert.Empty(t, exercisesOf(t, muscles, m1.ID))
}

func TestReferenceIntegrity_AttachPartialFailureIsReported(t *testing.T) {
	types, muscles := newFlakyStore(), newFlakyStore()
	t1 := mustCategory(t, types, "Strength")
	m1 := mustCategory(t, muscles, "Legs")
	muscles.failAdd[m1.ID] = true

	engine := NewReferenceIntegrity(types, muscles)
	err := engine.Attach(context.Background(), exID, t1.ID, m1.ID)

	var partial *domain.PartialWriteError
	require.True(t, errors.As(err, &partial))
	assert.Equal(t, "attach", partial.Op)
	assert.ErrorIs(t, err, errStoreDown)
	// first write is kept, not rolled back
	assert.Equal(t, []string{exID}, exercisesOf(t, types, t1.ID))
}

func TestReferenceIntegrity_ReassignMovesBackReferences(t *testing.T) {
	ctx := context.Background()
	types, muscles := newFlakyStore(), newFlakyStore()
	t1 := mustCategory(t, types, "Strength")
	t2 := mustCategory(t, types, "Mobility")
	m1 := mustCategory(t, muscles, "Legs")
	m2 := mustCategory(t, muscles, "Back")

	engine := NewReferenceIntegrity(types, muscles)
	require.NoError(t, engine.Attach(ctx, exID, t1.ID, m1.ID))
	require.NoError(t, engine.Reassign(ctx, exID, t1.ID, m1.ID, t2.ID, m2.ID))

	assert.Empty(t, exercisesOf(t, types, t1.ID))
	assert.Equal(t, []string{exID}, exercisesOf(t, types, t2.ID))
	assert.Empty(t, exercisesOf(t, muscles, m1.ID))
	assert.Equal(t, []string{exID}, exercisesOf(t, muscles, m2.ID))
}

func TestReferenceIntegrity_ReassignUnchangedKeepsSingleEntry(t *testing.T) {
	ctx := context.Background()
	types, muscles := newFlakyStore(), newFlakyStore()
	t1 := mustCategory(t, types, "Strength")
	m1 := mustCategory(t, muscles, "Legs")

	engine := NewReferenceIntegrity(types, muscles)
	require.NoError(t, engine.Attach(ctx, exID, t1.ID, m1.ID))
	require.NoError(t, engine.Reassign(ctx, exID, t1.ID, m1.ID, t1.ID, m1.ID))
	require.NoError(t, engine.Reassign(ctx, exID, t1.ID, m1.ID, t1.ID, m1.ID))

	assert.Equal(t, []string{exID}, exercisesOf(t, types, t1.ID))
	assert.Equal(t, []string{exID}, exercisesOf(t, muscles, m1.ID))
}

func TestReferenceIntegrity_ReassignSkipsVanishedPrevious(t *testing.T) {
	ctx := context.Background()
	types, muscles := newFlakyStore(), newFlakyStore()
	t2 := mustCategory(t, types, "Mobility")
	m1 := mustCategory(t, muscles, "Legs")

	engine := NewReferenceIntegrity(types, muscles)
	err := engine.Reassign(ctx, exID, "65a0000000000000000000aa", m1.ID, t2.ID, m1.ID)

	require.NoError(t, err)
	assert.Equal(t, []string{exID}, exercisesOf(t, types, t2.ID))
	assert.Equal(t, []string{exID}, exercisesOf(t, muscles, m1.ID))
}

func TestReferenceIntegrity_ReassignPartialFailure(t *testing.T) {
	ctx := context.Background()
	types, muscles := newFlakyStore(), newFlakyStore()
	t1 := mustCategory(t, types, "Strength")
	t2 := mustCategory(t, types, "Mobility")
	m1 := mustCategory(t, muscles, "Legs")

	engine := NewReferenceIntegrity(types, muscles)
	require.NoError(t, engine.Attach(ctx, exID, t1.ID, m1.ID))

	types.failAdd[t2.ID] = true
	err := engine.Reassign(ctx, exID, t1.ID, m1.ID, t2.ID, m1.ID)

	var partial *domain.PartialWriteError
	require.True(t, errors.As(err, &partial))
	assert.Equal(t, "reassign", partial.Op)
	assert.Empty(t, exercisesOf(t, types, t1.ID))
	assert.Empty(t, exercisesOf(t, types, t2.ID))
}

func TestReferenceIntegrity_DetachRemovesFromBothLists(t *testing.T) {
	ctx := context.Background()
	types, muscles := newFlakyStore(), newFlakyStore()
	t1 := mustCategory(t, types, "Strength")
	m1 := mustCategory(t, muscles, "Legs")

	engine := NewReferenceIntegrity(types, muscles)
	require.NoError(t, engine.Attach(ctx, exID, t1.ID, m1.ID))
	require.NoError(t, engine.Attach(ctx, "65a000000000000000000002", t1.ID, m1.ID))
	require.NoError(t, engine.Detach(ctx, exID, t1.ID, m1.ID))

	assert.Equal(t, []string{"65a000000000000000000002"}, exercisesOf(t, types, t1.ID))
	assert.Equal(t, []string{"65a000000000000000000002"}, exercisesOf(t, muscles, m1.ID))
}

func TestReferenceIntegrity_DetachPartialFailure(t *testing.T) {
	ctx := context.Background()
	types, muscles := newFlakyStore(), newFlakyStore()
	t1 := mustCategory(t, types, "Strength")
	m1 := mustCategory(t, muscles, "Legs")

	engine := NewReferenceIntegrity(types, muscles)
	require.NoError(t, engine.Attach(ctx, exID, t1.ID, m1.ID))

	muscles.failRemove[m1.ID] = true
	err := engine.Detach(ctx, exID, t1.ID, m1.ID)

	var partial *domain.PartialWriteError
	require.True(t, errors.As(err, &partial))
	assert.Equal(t, "detach", partial.Op)
	assert.Empty(t, exercisesOf(t, types, t1.ID))
	assert.Equal(t, []string{exID}, exercisesOf(t, muscles, m1.ID))
}

func TestReferenceIntegrity_DetachFirstWriteFailsCleanly(t *testing.T) {
	ctx := context.Background()
	types, muscles := newFlakyStore(), newFlakyStore()
	t1 := mustCategory(t, types, "Strength")
	m1 := mustCategory(t, muscles, "Legs")
	types.failRemove[t1.ID] = true

	err := NewReferenceIntegrity(types, muscles).Detach(ctx, exID, t1.ID, m1.ID)

	require.Error(t, err)
	var partial *domain.PartialWriteError
	assert.False(t, errors.As(err, &partial))
	assert.ErrorIs(t, err, errStoreDown)
}
