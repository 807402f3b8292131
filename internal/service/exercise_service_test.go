package service

import (
	"context"
	"testing"

	"github.com/mansoorceksport/gympro/internal/domain"
	"github.com/mansoorceksport/gympro/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type exerciseFixture struct {
	svc       *ExerciseService
	exercises *memory.ExerciseRepository
	types     *memory.CategoryRepository
	muscles   *memory.CategoryRepository
	t1, t2    *domain.Category
	m1, m2    *domain.Category
}

func newExerciseFixture(t *testing.T) *exerciseFixture {
	t.Helper()
	f := &exerciseFixture{
		exercises: memory.NewExerciseRepository(),
		types:     memory.NewCategoryRepository(),
		muscles:   memory.NewCategoryRepository(),
	}
	f.t1 = mustCategory(t, f.types, "Strength")
	f.t2 = mustCategory(t, f.types, "Mobility")
	f.m1 = mustCategory(t, f.muscles, "Legs")
	f.m2 = mustCategory(t, f.muscles, "Back")
	f.svc = NewExerciseService(f.exercises, f.types, f.muscles)
	return f
}

func (f *exerciseFixture) squat(t *testing.T) *domain.Exercise {
	t.Helper()
	ex, err := f.svc.Create(context.Background(), ExerciseInput{
		Name:         "Squat",
		TypeExercise: f.t1.ID,
		GroupMuscle:  f.m1.ID,
	})
	require.NoError(t, err)
	return ex
}

func TestExerciseService_CreateAttaches(t *testing.T) {
	f := newExerciseFixture(t)

	ex := f.squat(t)

	assert.NotEmpty(t, ex.ID)
	assert.Equal(t, f.t1.ID, ex.TypeExercise)
	assert.Equal(t, f.m1.ID, ex.GroupMuscle)
	assert.Equal(t, []string{ex.ID}, exercisesOf(t, f.types, f.t1.ID))
	assert.Equal(t, []string{ex.ID}, exercisesOf(t, f.muscles, f.m1.ID))
}

func TestExerciseService_CreateValidation(t *testing.T) {
	f := newExerciseFixture(t)

	_, err := f.svc.Create(context.Background(), ExerciseInput{TypeExercise: f.t1.ID, GroupMuscle: f.m1.ID})

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, `Required "name" field is missing`, err.Error())
}

func TestExerciseService_CreateDuplicateName(t *testing.T) {
	ctx := context.Background()
	f := newExerciseFixture(t)
	first := f.squat(t)

	_, err := f.svc.Create(ctx, ExerciseInput{Name: "Squat", TypeExercise: f.t2.ID, GroupMuscle: f.m2.ID})

	require.ErrorIs(t, err, domain.ErrDuplicateExercise)
	all, err := f.exercises.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, []string{first.ID}, exercisesOf(t, f.types, f.t1.ID))
	assert.Empty(t, exercisesOf(t, f.types, f.t2.ID))
	assert.Empty(t, exercisesOf(t, f.muscles, f.m2.ID))
}

func TestExerciseService_CreateNameIsCaseSensitive(t *testing.T) {
	f := newExerciseFixture(t)
	f.squat(t)

	_, err := f.svc.Create(context.Background(), ExerciseInput{Name: "squat", TypeExercise: f.t1.ID, GroupMuscle: f.m1.ID})
	assert.NoError(t, err)
}

func TestExerciseService_CreateMissingReference(t *testing.T) {
	tests := []struct {
		name      string
		typeID    func(f *exerciseFixture) string
		muscleID  func(f *exerciseFixture) string
		wantField string
	}{
		{
			name:      "unknown type",
			typeID:    func(*exerciseFixture) string { return "65a0000000000000000000ff" },
			muscleID:  func(f *exerciseFixture) string { return f.m1.ID },
			wantField: domain.RefTypeExercise,
		},
		{
			name:      "malformed type",
			typeID:    func(*exerciseFixture) string { return "not-an-id" },
			muscleID:  func(f *exerciseFixture) string { return f.m1.ID },
			wantField: domain.RefTypeExercise,
		},
		{
			name:      "missing muscle",
			typeID:    func(f *exerciseFixture) string { return f.t1.ID },
			muscleID:  func(*exerciseFixture) string { return "" },
			wantField: domain.RefGroupMuscle,
		},
		{
			name:      "both missing reports type",
			typeID:    func(*exerciseFixture) string { return "65a0000000000000000000fe" },
			muscleID:  func(*exerciseFixture) string { return "65a0000000000000000000fd" },
			wantField: domain.RefTypeExercise,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newExerciseFixture(t)

			_, err := f.svc.Create(ctx, ExerciseInput{
				Name:         "Squat",
				TypeExercise: tt.typeID(f),
				GroupMuscle:  tt.muscleID(f),
			})

			require.ErrorIs(t, err, domain.ErrReferenceNotFound)
			var refErr *domain.ReferenceError
			require.ErrorAs(t, err, &refErr)
			assert.Equal(t, tt.wantField, refErr.Field)

			all, err := f.exercises.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)
			assert.Empty(t, exercisesOf(t, f.types, f.t1.ID))
			assert.Empty(t, exercisesOf(t, f.muscles, f.m1.ID))
		})
	}
}

func TestExerciseService_UpdateReassigns(t *testing.T) {
	ctx := context.Background()
	f := newExerciseFixture(t)
	ex := f.squat(t)

	updated, err := f.svc.Update(ctx, ex.ID, ExerciseInput{
		Name:         "Back Squat",
		Description:  "barbell on the back",
		TypeExercise: f.t2.ID,
		GroupMuscle:  f.m1.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, "Back Squat", updated.Name)
	assert.Equal(t, f.t2.ID, updated.TypeExercise)
	assert.Empty(t, exercisesOf(t, f.types, f.t1.ID))
	assert.Equal(t, []string{ex.ID}, exercisesOf(t, f.types, f.t2.ID))
	assert.Equal(t, []string{ex.ID}, exercisesOf(t, f.muscles, f.m1.ID))

	stored, err := f.exercises.GetByID(ctx, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, "barbell on the back", stored.Description)
	assert.Equal(t, f.t2.ID, stored.TypeExercise)
}

func TestExerciseService_UpdateUnchangedKeepsOneEntry(t *testing.T) {
	ctx := context.Background()
	f := newExerciseFixture(t)
	ex := f.squat(t)

	for i := 0; i < 2; i++ {
		_, err := f.svc.Update(ctx, ex.ID, ExerciseInput{Name: "Squat", TypeExercise: f.t1.ID, GroupMuscle: f.m1.ID})
		require.NoError(t, err)
	}

	assert.Equal(t, []string{ex.ID}, exercisesOf(t, f.types, f.t1.ID))
	assert.Equal(t, []string{ex.ID}, exercisesOf(t, f.muscles, f.m1.ID))
}

func TestExerciseService_UpdateNotFound(t *testing.T) {
	f := newExerciseFixture(t)

	_, err := f.svc.Update(context.Background(), "65a0000000000000000000aa", ExerciseInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrExerciseNotFound)

	_, err = f.svc.Update(context.Background(), "garbage", ExerciseInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrExerciseNotFound)
}

func TestExerciseService_UpdateMissingReferenceLeavesListsAlone(t *testing.T) {
	ctx := context.Background()
	f := newExerciseFixture(t)
	ex := f.squat(t)

	_, err := f.svc.Update(ctx, ex.ID, ExerciseInput{Name: "Squat", TypeExercise: "65a0000000000000000000ff", GroupMuscle: f.m1.ID})

	require.ErrorIs(t, err, domain.ErrReferenceNotFound)
	stored, err := f.exercises.GetByID(ctx, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, f.t1.ID, stored.TypeExercise)
	assert.Equal(t, []string{ex.ID}, exercisesOf(t, f.types, f.t1.ID))
}

func TestExerciseService_DeleteDetaches(t *testing.T) {
	ctx := context.Background()
	f := newExerciseFixture(t)
	ex := f.squat(t)

	require.NoError(t, f.svc.Delete(ctx, ex.ID))

	_, err := f.exercises.GetByID(ctx, ex.ID)
	assert.ErrorIs(t, err, domain.ErrExerciseNotFound)
	assert.Empty(t, exercisesOf(t, f.types, f.t1.ID))
	assert.Empty(t, exercisesOf(t, f.muscles, f.m1.ID))

	assert.ErrorIs(t, f.svc.Delete(ctx, ex.ID), domain.ErrExerciseNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, "nope"), domain.ErrExerciseNotFound)
}

func TestExerciseService_GetResolvesNames(t *testing.T) {
	ctx := context.Background()
	f := newExerciseFixture(t)
	ex := f.squat(t)

	views, err := f.svc.Get(ctx, ex.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Squat", views[0].Name)
	require.NotNil(t, views[0].TypeExercise)
	assert.Equal(t, "Strength", views[0].TypeExercise.Name)
	require.NotNil(t, views[0].GroupMuscle)
	assert.Equal(t, "Legs", views[0].GroupMuscle.Name)
}

func TestExerciseService_GetUnknownReturnsEmpty(t *testing.T) {
	f := newExerciseFixture(t)

	for _, id := range []string{"65a0000000000000000000aa", "not-hex"} {
		views, err := f.svc.Get(context.Background(), id)
		require.NoError(t, err)
		assert.NotNil(t, views)
		assert.Empty(t, views)
	}
}

func TestExerciseService_List(t *testing.T) {
	ctx := context.Background()
	f := newExerciseFixture(t)
	f.squat(t)
	_, err := f.svc.Create(ctx, ExerciseInput{Name: "Row", TypeExercise: f.t1.ID, GroupMuscle: f.m2.ID})
	require.NoError(t, err)

	views, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Squat", views[0].Name)
	assert.Equal(t, "Row", views[1].Name)
	assert.Equal(t, "Back", views[1].GroupMuscle.Name)
	assert.Len(t, exercisesOf(t, f.types, f.t1.ID), 2)
}

func TestExerciseService_Import(t *testing.T) {
	ctx := context.Background()
	f := newExerciseFixture(t)

	ex, err := f.svc.Import(ctx, map[string]interface{}{
		"name":         "  Deadlift ",
		"description":  " hinge ",
		"typeexercise": " Strength",
		"groupmuscle":  "Back ",
		"image":        "deadlift.png",
		"cover":        "",
		"reps":         12,
	})
	require.NoError(t, err)

	assert.Equal(t, "Deadlift", ex.Name)
	assert.Equal(t, "hinge", ex.Description)
	assert.Equal(t, "/uploads/images/deadlift.png", ex.Image)
	assert.Empty(t, ex.Cover)
	assert.Equal(t, []string{ex.ID}, exercisesOf(t, f.types, f.t1.ID))
	assert.Equal(t, []string{ex.ID}, exercisesOf(t, f.muscles, f.m2.ID))
}

func TestExerciseService_ImportErrors(t *testing.T) {
	ctx := context.Background()
	f := newExerciseFixture(t)
	f.squat(t)

	_, err := f.svc.Import(ctx, map[string]interface{}{"typeexercise": "Strength"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.Import(ctx, map[string]interface{}{"name": "Squat ", "typeexercise": "Strength", "groupmuscle": "Legs"})
	assert.ErrorIs(t, err, domain.ErrDuplicateExercise)

	_, err = f.svc.Import(ctx, map[string]interface{}{"name": "Lunge", "typeexercise": "Cardio", "groupmuscle": "Legs"})
	require.ErrorIs(t, err, domain.ErrReferenceNotFound)
	assert.Contains(t, err.Error(), "Cardio")

	// IDs are not accepted where names are expected
	_, err = f.svc.Import(ctx, map[string]interface{}{"name": "Lunge", "typeexercise": f.t1.ID, "groupmuscle": "Legs"})
	assert.ErrorIs(t, err, domain.ErrReferenceNotFound)
}
