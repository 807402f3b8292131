package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mansoorceksport/gympro/internal/domain"
	"golang.org/x/sync/errgroup"
)

// importMediaPrefix is prepended to media file names given to Import
const importMediaPrefix = "/uploads/images/"

// ExerciseInput is the writable part of an exercise as sent by clients
type ExerciseInput struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Video        string `json:"video"`
	Cover        string `json:"cover"`
	Miniature    string `json:"miniature"`
	Image        string `json:"image"`
	TypeExercise string `json:"typeexercise"`
	GroupMuscle  string `json:"groupmuscle"`
}

type ExerciseService struct {
	exerciseRepo domain.ExerciseRepository
	typeRepo     domain.CategoryRepository
	muscleRepo   domain.CategoryRepository
	integrity    *ReferenceIntegrity
}

func NewExerciseService(
	exerciseRepo domain.ExerciseRepository,
	typeRepo domain.CategoryRepository,
	muscleRepo domain.CategoryRepository,
) *ExerciseService {
	return &ExerciseService{
		exerciseRepo: exerciseRepo,
		typeRepo:     typeRepo,
		muscleRepo:   muscleRepo,
		integrity:    NewReferenceIntegrity(typeRepo, muscleRepo),
	}
}

// List returns every exercise with typeexercise and groupmuscle joined
func (s *ExerciseService) List(ctx context.Context) ([]*domain.ExerciseView, error) {
	exercises, err := s.exerciseRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, exercises)
}

// Get returns the exercise as a one-element slice, or an empty slice when
// the ID matches nothing
func (s *ExerciseService) Get(ctx context.Context, id string) ([]*domain.ExerciseView, error) {
	ex, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrExerciseNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return []*domain.ExerciseView{}, nil
		}
		return nil, err
	}
	return s.resolve(ctx, []*domain.Exercise{ex})
}

// Create validates the input, persists the exercise and attaches it to the
// referenced type and muscle group
func (s *ExerciseService) Create(ctx context.Context, in ExerciseInput) (*domain.Exercise, error) {
	if in.Name == "" {
		return nil, domain.NewValidationError("name")
	}
	if err := s.ensureNameFree(ctx, in.Name); err != nil {
		return nil, err
	}

	typ, muscle, err := s.resolveByID(ctx, in.TypeExercise, in.GroupMuscle)
	if err != nil {
		return nil, err
	}

	ex := &domain.Exercise{
		Name:        in.Name,
		Description: in.Description,
		Video:       in.Video,
		Cover:       in.Cover,
		Miniature:   in.Miniature,
		Image:       in.Image,
	}
	return s.create(ctx, ex, typ, muscle)
}

// Update overwrites name, description, video and both references, then moves
// the back-references from the previous type/muscle group to the new ones
func (s *ExerciseService) Update(ctx context.Context, id string, in ExerciseInput) (*domain.Exercise, error) {
	ex, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidID) {
			return nil, domain.ErrExerciseNotFound
		}
		return nil, err
	}
	if in.Name == "" {
		return nil, domain.NewValidationError("name")
	}

	typ, muscle, err := s.resolveByID(ctx, in.TypeExercise, in.GroupMuscle)
	if err != nil {
		return nil, err
	}

	prevType, prevMuscle := ex.TypeExercise, ex.GroupMuscle

	ex.Name = in.Name
	ex.Description = in.Description
	ex.Video = in.Video
	ex.TypeExercise = typ.ID
	ex.GroupMuscle = muscle.ID
	if err := s.exerciseRepo.Update(ctx, ex); err != nil {
		return nil, err
	}

	if err := s.integrity.Reassign(ctx, ex.ID, prevType, prevMuscle, typ.ID, muscle.ID); err != nil {
		return nil, err
	}
	return ex, nil
}

// Delete removes the exercise and strips its ID from the back-reference lists
func (s *ExerciseService) Delete(ctx context.Context, id string) error {
	ex, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidID) {
			return domain.ErrExerciseNotFound
		}
		return err
	}

	if err := s.exerciseRepo.Delete(ctx, ex.ID); err != nil {
		return err
	}
	return s.integrity.Detach(ctx, ex.ID, ex.TypeExercise, ex.GroupMuscle)
}

// Import creates an exercise from a loosely typed record. String values are
// trimmed, typeexercise/groupmuscle are names rather than IDs, and media
// file names are placed under the upload path.
func (s *ExerciseService) Import(ctx context.Context, record map[string]interface{}) (*domain.Exercise, error) {
	field := func(key string) string {
		if v, ok := record[key].(string); ok {
			return strings.TrimSpace(v)
		}
		return ""
	}

	name := field("name")
	if name == "" {
		return nil, domain.NewValidationError("name")
	}
	if err := s.ensureNameFree(ctx, name); err != nil {
		return nil, err
	}

	typ, muscle, err := s.resolveByName(ctx, field(domain.RefTypeExercise), field(domain.RefGroupMuscle))
	if err != nil {
		return nil, err
	}

	ex := &domain.Exercise{
		Name:        name,
		Description: field("description"),
		Video:       field("video"),
		Miniature:   mediaPath(field("miniature")),
		Image:       mediaPath(field("image")),
		Cover:       mediaPath(field("cover")),
	}
	return s.create(ctx, ex, typ, muscle)
}

func (s *ExerciseService) create(ctx context.Context, ex *domain.Exercise, typ, muscle *domain.Category) (*domain.Exercise, error) {
	ex.TypeExercise = typ.ID
	ex.GroupMuscle = muscle.ID
	if err := s.exerciseRepo.Create(ctx, ex); err != nil {
		return nil, err
	}

	if err := s.integrity.Attach(ctx, ex.ID, typ.ID, muscle.ID); err != nil {
		return nil, err
	}
	return ex, nil
}

func (s *ExerciseService) ensureNameFree(ctx context.Context, name string) error {
	_, err := s.exerciseRepo.FindByName(ctx, name)
	switch {
	case err == nil:
		return domain.ErrDuplicateExercise
	case errors.Is(err, domain.ErrExerciseNotFound):
		return nil
	default:
		return err
	}
}

// resolveByID loads both referenced documents concurrently. The type is
// reported first when both are missing.
func (s *ExerciseService) resolveByID(ctx context.Context, typeID, muscleID string) (*domain.Category, *domain.Category, error) {
	return s.lookupPair(ctx,
		func(ctx context.Context) (*domain.Category, error) {
			return lookupByID(ctx, s.typeRepo, domain.RefTypeExercise, typeID)
		},
		func(ctx context.Context) (*domain.Category, error) {
			return lookupByID(ctx, s.muscleRepo, domain.RefGroupMuscle, muscleID)
		},
	)
}

func (s *ExerciseService) resolveByName(ctx context.Context, typeName, muscleName string) (*domain.Category, *domain.Category, error) {
	return s.lookupPair(ctx,
		func(ctx context.Context) (*domain.Category, error) {
			return lookupByName(ctx, s.typeRepo, domain.RefTypeExercise, typeName)
		},
		func(ctx context.Context) (*domain.Category, error) {
			return lookupByName(ctx, s.muscleRepo, domain.RefGroupMuscle, muscleName)
		},
	)
}

func (s *ExerciseService) lookupPair(
	ctx context.Context,
	typeLookup, muscleLookup func(context.Context) (*domain.Category, error),
) (*domain.Category, *domain.Category, error) {
	var (
		typ, muscle        *domain.Category
		typeErr, muscleErr error
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		typ, typeErr = typeLookup(gCtx)
		return nil
	})
	g.Go(func() error {
		muscle, muscleErr = muscleLookup(gCtx)
		return nil
	})
	_ = g.Wait()

	if typeErr != nil {
		return nil, nil, typeErr
	}
	if muscleErr != nil {
		return nil, nil, muscleErr
	}
	return typ, muscle, nil
}

func lookupByID(ctx context.Context, repo domain.CategoryRepository, field, id string) (*domain.Category, error) {
	if id == "" {
		return nil, &domain.ReferenceError{Field: field, Value: id}
	}
	cat, err := repo.GetByID(ctx, id)
	if err != nil {
		if isMissing(err) {
			return nil, &domain.ReferenceError{Field: field, Value: id}
		}
		return nil, fmt.Errorf("failed to load %s: %w", field, err)
	}
	return cat, nil
}

func lookupByName(ctx context.Context, repo domain.CategoryRepository, field, name string) (*domain.Category, error) {
	if name == "" {
		return nil, &domain.ReferenceError{Field: field, Value: name}
	}
	cat, err := repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.ReferenceError{Field: field, Value: name}
		}
		return nil, fmt.Errorf("failed to load %s: %w", field, err)
	}
	return cat, nil
}

// resolve joins the type and muscle group names onto each exercise
func (s *ExerciseService) resolve(ctx context.Context, exercises []*domain.Exercise) ([]*domain.ExerciseView, error) {
	typeIDs := make([]string, 0, len(exercises))
	muscleIDs := make([]string, 0, len(exercises))
	for _, ex := range exercises {
		typeIDs = append(typeIDs, ex.TypeExercise)
		muscleIDs = append(muscleIDs, ex.GroupMuscle)
	}

	var types, muscles []*domain.Category
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		types, err = s.typeRepo.GetByIDs(gCtx, typeIDs)
		return err
	})
	g.Go(func() error {
		var err error
		muscles, err = s.muscleRepo.GetByIDs(gCtx, muscleIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	typeByID := refsByID(types)
	muscleByID := refsByID(muscles)

	views := make([]*domain.ExerciseView, 0, len(exercises))
	for _, ex := range exercises {
		views = append(views, &domain.ExerciseView{
			ID:           ex.ID,
			Name:         ex.Name,
			Description:  ex.Description,
			Video:        ex.Video,
			Cover:        ex.Cover,
			Miniature:    ex.Miniature,
			Image:        ex.Image,
			TypeExercise: typeByID[ex.TypeExercise],
			GroupMuscle:  muscleByID[ex.GroupMuscle],
			CreatedAt:    ex.CreatedAt,
			UpdatedAt:    ex.UpdatedAt,
		})
	}
	return views, nil
}

func refsByID(cats []*domain.Category) map[string]*domain.CategoryRef {
	out := make(map[string]*domain.CategoryRef, len(cats))
	for _, c := range cats {
		out[c.ID] = &domain.CategoryRef{ID: c.ID, Name: c.Name}
	}
	return out
}

func mediaPath(name string) string {
	if name == "" {
		return ""
	}
	return importMediaPrefix + name
}
