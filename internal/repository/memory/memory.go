// Package memory holds map-backed repositories with the same observable
// behavior as the Mongo adapters. Tests and local tooling use them.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mansoorceksport/gympro/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newID() string {
	return primitive.NewObjectID().Hex()
}

func validID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

// ExerciseRepository is an in-memory domain.ExerciseRepository
type ExerciseRepository struct {
	mu    sync.RWMutex
	items map[string]domain.Exercise
	order []string
}

func NewExerciseRepository() *ExerciseRepository {
	return &ExerciseRepository{items: make(map[string]domain.Exercise)}
}

func (r *ExerciseRepository) Create(ctx context.Context, ex *domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Name == ex.Name {
			return domain.ErrDuplicateExercise
		}
	}

	ex.ID = newID()
	ex.CreatedAt = time.Now()
	ex.UpdatedAt = ex.CreatedAt
	r.items[ex.ID] = *ex
	r.order = append(r.order, ex.ID)
	return nil
}

func (r *ExerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	if !validID(id) {
		return nil, domain.ErrInvalidID
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	ex, ok := r.items[id]
	if !ok {
		return nil, domain.ErrExerciseNotFound
	}
	return &ex, nil
}

func (r *ExerciseRepository) FindByName(ctx context.Context, name string) (*domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if ex := r.items[id]; ex.Name == name {
			return &ex, nil
		}
	}
	return nil, domain.ErrExerciseNotFound
}

func (r *ExerciseRepository) List(ctx context.Context) ([]*domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Exercise, 0, len(r.order))
	for _, id := range r.order {
		ex := r.items[id]
		out = append(out, &ex)
	}
	return out, nil
}

func (r *ExerciseRepository) Update(ctx context.Context, ex *domain.Exercise) error {
	if !validID(ex.ID) {
		return domain.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[ex.ID]
	if !ok {
		return domain.ErrExerciseNotFound
	}
	for id, other := range r.items {
		if id != ex.ID && other.Name == ex.Name {
			return domain.ErrDuplicateExercise
		}
	}

	current.Name = ex.Name
	current.Description = ex.Description
	current.Video = ex.Video
	current.TypeExercise = ex.TypeExercise
	current.GroupMuscle = ex.GroupMuscle
	current.UpdatedAt = time.Now()
	ex.UpdatedAt = current.UpdatedAt
	r.items[ex.ID] = current
	return nil
}

func (r *ExerciseRepository) UpdateMedia(ctx context.Context, id string, media domain.MediaFields) error {
	if !validID(id) {
		return domain.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[id]
	if !ok {
		return domain.ErrExerciseNotFound
	}
	if media.Image != "" {
		current.Image = media.Image
	}
	if media.Cover != "" {
		current.Cover = media.Cover
	}
	if media.Miniature != "" {
		current.Miniature = media.Miniature
	}
	current.UpdatedAt = time.Now()
	r.items[id] = current
	return nil
}

func (r *ExerciseRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrExerciseNotFound
	}
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// CategoryRepository is an in-memory domain.CategoryRepository
type CategoryRepository struct {
	mu    sync.RWMutex
	items map[string]domain.Category
	order []string
}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{items: make(map[string]domain.Category)}
}

func (r *CategoryRepository) Create(ctx context.Context, cat *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Name == cat.Name {
			return domain.ErrDuplicateCategory
		}
	}

	cat.ID = newID()
	cat.Exercises = []string{}
	cat.CreatedAt = time.Now()
	cat.UpdatedAt = cat.CreatedAt
	r.items[cat.ID] = copyCategory(*cat)
	r.order = append(r.order, cat.ID)
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	if !validID(id) {
		return nil, domain.ErrInvalidID
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	cat, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := copyCategory(cat)
	return &out, nil
}

func (r *CategoryRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.Category{}
	seen := make(map[string]bool)
	for _, id := range ids {
		cat, ok := r.items[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		c := copyCategory(cat)
		out = append(out, &c)
	}
	return out, nil
}

func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if cat := r.items[id]; cat.Name == name {
			out := copyCategory(cat)
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Category, 0, len(r.order))
	for _, id := range r.order {
		c := copyCategory(r.items[id])
		out = append(out, &c)
	}
	return out, nil
}

// AddExercise has set semantics, like $addToSet
func (r *CategoryRepository) AddExercise(ctx context.Context, id string, exerciseID string) error {
	if !validID(id) {
		return domain.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cat, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	for _, existing := range cat.Exercises {
		if existing == exerciseID {
			return nil
		}
	}
	cat.Exercises = append(cat.Exercises, exerciseID)
	cat.UpdatedAt = time.Now()
	r.items[id] = cat
	return nil
}

// RemoveExercise drops every occurrence, like $pull
func (r *CategoryRepository) RemoveExercise(ctx context.Context, id string, exerciseID string) error {
	if !validID(id) {
		return domain.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cat, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	kept := make([]string, 0, len(cat.Exercises))
	for _, existing := range cat.Exercises {
		if existing != exerciseID {
			kept = append(kept, existing)
		}
	}
	cat.Exercises = kept
	cat.UpdatedAt = time.Now()
	r.items[id] = cat
	return nil
}

func copyCategory(c domain.Category) domain.Category {
	c.Exercises = append([]string{}, c.Exercises...)
	return c
}
