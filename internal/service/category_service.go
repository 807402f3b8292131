package service

import (
	"context"

	"github.com/mansoorceksport/gympro/internal/domain"
)

// CategoryService serves one of the two exercise classification collections
// (exercise types or muscle groups). Back-reference lists are never written
// here; new categories always start with an empty list.
type CategoryService struct {
	categoryRepo domain.CategoryRepository
	exerciseRepo domain.ExerciseRepository
}

func NewCategoryService(categoryRepo domain.CategoryRepository, exerciseRepo domain.ExerciseRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		exerciseRepo: exerciseRepo,
	}
}

func (s *CategoryService) Create(ctx context.Context, name string) (*domain.Category, error) {
	if name == "" {
		return nil, domain.NewValidationError("name")
	}
	cat := &domain.Category{Name: name}
	if err := s.categoryRepo.Create(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// List returns all categories with their exercise IDs resolved to {id, name}.
// IDs that no longer match an exercise are left out.
func (s *CategoryService) List(ctx context.Context) ([]*domain.CategoryView, error) {
	cats, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	exercises, err := s.exerciseRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(exercises))
	for _, ex := range exercises {
		names[ex.ID] = ex.Name
	}

	views := make([]*domain.CategoryView, 0, len(cats))
	for _, c := range cats {
		refs := make([]*domain.CategoryRef, 0, len(c.Exercises))
		for _, id := range c.Exercises {
			if name, ok := names[id]; ok {
				refs = append(refs, &domain.CategoryRef{ID: id, Name: name})
			}
		}
		views = append(views, &domain.CategoryView{
			ID:        c.ID,
			Name:      c.Name,
			Exercises: refs,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return views, nil
}
