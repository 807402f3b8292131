package memory

import (
	"context"
	"sync"

	"github.com/mansoorceksport/gympro/internal/domain"
)

// CatalogRepository is an in-memory domain.CatalogRepository
type CatalogRepository struct {
	mu    sync.RWMutex
	items map[string]domain.CatalogItem
	order []string
}

func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{items: make(map[string]domain.CatalogItem)}
}

func (r *CatalogRepository) Create(ctx context.Context, item *domain.CatalogItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = newID()
	r.items[item.ID] = copyItem(*item)
	r.order = append(r.order, item.ID)
	return nil
}

func (r *CatalogRepository) GetByID(ctx context.Context, id string) (*domain.CatalogItem, error) {
	if !validID(id) {
		return nil, domain.ErrInvalidID
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	item = copyItem(item)
	return &item, nil
}

func (r *CatalogRepository) List(ctx context.Context) ([]*domain.CatalogItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.CatalogItem, 0, len(r.order))
	for _, id := range r.order {
		item := copyItem(r.items[id])
		out = append(out, &item)
	}
	return out, nil
}

func (r *CatalogRepository) Update(ctx context.Context, id string, values map[string]interface{}) error {
	if !validID(id) {
		return domain.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	current = copyItem(current)
	for k, v := range values {
		current.Values[k] = v
	}
	r.items[id] = current
	return nil
}

func (r *CatalogRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	r.remove(id)
	return nil
}

func (r *CatalogRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	for _, id := range ids {
		if !validID(id) {
			return 0, domain.ErrInvalidID
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for _, id := range ids {
		if _, ok := r.items[id]; ok {
			r.remove(id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *CatalogRepository) remove(id string) {
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}

func copyItem(item domain.CatalogItem) domain.CatalogItem {
	values := make(map[string]interface{}, len(item.Values))
	for k, v := range item.Values {
		values[k] = v
	}
	item.Values = values
	return item
}
