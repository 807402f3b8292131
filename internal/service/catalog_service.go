package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mansoorceksport/gympro/internal/domain"
)

// dateLayouts are tried in order when a date field arrives as a string
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// CatalogService implements the plain list/create/update/delete flow shared
// by every catalog resource. Bodies are free-form; only the resource's
// writable fields are kept.
type CatalogService struct {
	resource domain.CatalogResource
	repo     domain.CatalogRepository
}

func NewCatalogService(resource domain.CatalogResource, repo domain.CatalogRepository) *CatalogService {
	return &CatalogService{resource: resource, repo: repo}
}

func (s *CatalogService) Resource() domain.CatalogResource {
	return s.resource
}

func (s *CatalogService) List(ctx context.Context) ([]*domain.CatalogItem, error) {
	return s.repo.List(ctx)
}

// Get returns the matching item as a one-element list, or an empty list when
// the ID is unknown or malformed
func (s *CatalogService) Get(ctx context.Context, id string) ([]*domain.CatalogItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return []*domain.CatalogItem{}, nil
		}
		return nil, err
	}
	return []*domain.CatalogItem{item}, nil
}

// Create stores the writable fields of body. No field is required.
func (s *CatalogService) Create(ctx context.Context, body map[string]interface{}) (*domain.CatalogItem, error) {
	values := make(map[string]interface{})
	for name, raw := range body {
		if raw == nil || !s.resource.IsWritable(name) {
			continue
		}
		v, err := s.cast(name, raw)
		if err != nil {
			return nil, err
		}
		values[name] = v
	}

	item := &domain.CatalogItem{Values: values}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update overwrites the writable fields that carry a non-empty value;
// empty strings, zero and false leave the stored value alone
func (s *CatalogService) Update(ctx context.Context, id string, body map[string]interface{}) (*domain.CatalogItem, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, notFound(err)
	}

	values := make(map[string]interface{})
	for name, raw := range body {
		if !truthy(raw) || !s.resource.IsWritable(name) {
			continue
		}
		v, err := s.cast(name, raw)
		if err != nil {
			return nil, err
		}
		values[name] = v
	}

	if len(values) > 0 {
		if err := s.repo.Update(ctx, id, values); err != nil {
			return nil, notFound(err)
		}
	}
	return s.repo.GetByID(ctx, id)
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	return notFound(s.repo.Delete(ctx, id))
}

// DeleteMany removes every listed item. It fails with ErrNotFound when none
// of the IDs matched.
func (s *CatalogService) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.NewValidationError(s.resource.BulkKey)
	}
	deleted, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, notFound(err)
	}
	if deleted == 0 {
		return 0, domain.ErrNotFound
	}
	return deleted, nil
}

// cast converts a JSON value to the stored type of the named field
func (s *CatalogService) cast(name string, raw interface{}) (interface{}, error) {
	field, _ := s.resource.Field(name)

	switch field.Kind {
	case domain.FieldString:
		switch v := raw.(type) {
		case string:
			return v, nil
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		case bool:
			return strconv.FormatBool(v), nil
		}
	case domain.FieldNumber:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case string:
			if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return n, nil
			}
		}
	case domain.FieldDate:
		switch v := raw.(type) {
		case string:
			for _, layout := range dateLayouts {
				if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
					return t.UTC(), nil
				}
			}
		case float64:
			return time.UnixMilli(int64(v)).UTC(), nil
		}
	case domain.FieldRef:
		if v, ok := raw.(string); ok && isObjectIDHex(v) {
			return v, nil
		}
	case domain.FieldAny:
		return raw, nil
	}

	return nil, &domain.ValidationError{
		Field:   name,
		Message: fmt.Sprintf("Invalid value for %q field", name),
	}
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case float64:
		return t != 0
	case bool:
		return t
	}
	return true
}

func isObjectIDHex(s string) bool {
	if len(s) != 24 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// notFound folds a malformed ID into ErrNotFound
func notFound(err error) error {
	if errors.Is(err, domain.ErrInvalidID) {
		return domain.ErrNotFound
	}
	return err
}
