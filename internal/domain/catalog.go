package domain

import (
	"context"
	"encoding/json"
)

// FieldKind is the stored type of a catalog field
type FieldKind int

const (
	FieldString FieldKind = iota
	FieldNumber
	FieldDate
	FieldRef // ObjectId of another document, exchanged as a hex string
	FieldAny // stored as received
)

type CatalogField struct {
	Name string
	Kind FieldKind
}

// CatalogResource describes one plain CRUD resource: where it is mounted,
// where it is stored and which fields a client may send.
type CatalogResource struct {
	Path       string // route segment, e.g. "socio"
	Label      string // used in response messages
	Collection string
	Fields     []CatalogField
	// Writable limits create and update to these field names; nil means all Fields
	Writable []string
	BulkKey  string // body key holding the IDs for DELETE /multiple
}

func (r CatalogResource) Field(name string) (CatalogField, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return CatalogField{}, false
}

func (r CatalogResource) IsWritable(name string) bool {
	if _, ok := r.Field(name); !ok {
		return false
	}
	if r.Writable == nil {
		return true
	}
	for _, w := range r.Writable {
		if w == name {
			return true
		}
	}
	return false
}

// CatalogItem is one document of a catalog resource. Values is keyed by the
// stored field names; refs are hex strings and dates are time.Time.
type CatalogItem struct {
	ID     string
	Values map[string]interface{}
}

// MarshalJSON flattens the item into {"_id": ..., <field>: ...}
func (i *CatalogItem) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(i.Values)+1)
	for k, v := range i.Values {
		out[k] = v
	}
	out["_id"] = i.ID
	return json.Marshal(out)
}

type CatalogRepository interface {
	Create(ctx context.Context, item *CatalogItem) error
	GetByID(ctx context.Context, id string) (*CatalogItem, error)
	List(ctx context.Context) ([]*CatalogItem, error)
	// Update sets the given values and leaves every other field alone
	Update(ctx context.Context, id string, values map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}
