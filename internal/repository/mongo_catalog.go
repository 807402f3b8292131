package repository

import (
	"context"
	"fmt"

	"github.com/mansoorceksport/gympro/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCatalogRepository stores the documents of one catalog resource.
// Ref fields are written as ObjectIds and handed back as hex strings.
type MongoCatalogRepository struct {
	collection *mongo.Collection
	resource   domain.CatalogResource
}

func NewMongoCatalogRepository(db *mongo.Database, resource domain.CatalogResource) *MongoCatalogRepository {
	return &MongoCatalogRepository{
		collection: db.Collection(resource.Collection),
		resource:   resource,
	}
}

func (r *MongoCatalogRepository) Create(ctx context.Context, item *domain.CatalogItem) error {
	result, err := r.collection.InsertOne(ctx, r.toStored(item.Values))
	if err != nil {
		return fmt.Errorf("failed to create %s item: %w", r.collection.Name(), err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		item.ID = oid.Hex()
	}
	return nil
}

func (r *MongoCatalogRepository) GetByID(ctx context.Context, id string) (*domain.CatalogItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var doc bson.M
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s item: %w", r.collection.Name(), err)
	}
	return fromStored(doc), nil
}

func (r *MongoCatalogRepository) List(ctx context.Context) ([]*domain.CatalogItem, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.collection.Name(), err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	items := make([]*domain.CatalogItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, fromStored(doc))
	}
	return items, nil
}

func (r *MongoCatalogRepository) Update(ctx context.Context, id string, values map[string]interface{}) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": r.toStored(values)})
	if err != nil {
		return fmt.Errorf("failed to update %s item: %w", r.collection.Name(), err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoCatalogRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete %s item: %w", r.collection.Name(), err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteMany removes all items whose ID is in ids and returns how many went away
func (r *MongoCatalogRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return 0, domain.ErrInvalidID
		}
		oids = append(oids, oid)
	}

	result, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s items: %w", r.collection.Name(), err)
	}
	return result.DeletedCount, nil
}

func (r *MongoCatalogRepository) toStored(values map[string]interface{}) bson.M {
	doc := make(bson.M, len(values))
	for name, v := range values {
		if f, ok := r.resource.Field(name); ok && f.Kind == domain.FieldRef {
			if s, ok := v.(string); ok {
				if oid, err := primitive.ObjectIDFromHex(s); err == nil {
					doc[name] = oid
					continue
				}
			}
		}
		doc[name] = v
	}
	return doc
}

// fromStored drops the mongoose version key and converts driver types back
// to plain Go values
func fromStored(doc bson.M) *domain.CatalogItem {
	item := &domain.CatalogItem{Values: make(map[string]interface{}, len(doc))}
	for k, v := range doc {
		switch k {
		case "_id":
			item.ID = fmt.Sprint(plainValue(v))
		case "__v":
		default:
			item.Values[k] = plainValue(v)
		}
	}
	return item
}

func plainValue(v interface{}) interface{} {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.A:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	case bson.M:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[k] = plainValue(e)
		}
		return out
	}
	return v
}
