package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mansoorceksport/gympro/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	exerciseTypeCollection = "exercisetypes"
	groupMuscleCollection  = "groupmuscles"
)

// categoryDocument is the stored form of a category. Back-reference entries
// are ObjectIds; entries written as hex strings are still read.
type categoryDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Exercises []interface{}      `bson:"exercises"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *categoryDocument) toDomain() *domain.Category {
	cat := &domain.Category{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Exercises: make([]string, 0, len(d.Exercises)),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	for _, ref := range d.Exercises {
		switch v := ref.(type) {
		case primitive.ObjectID:
			cat.Exercises = append(cat.Exercises, v.Hex())
		case string:
			cat.Exercises = append(cat.Exercises, v)
		}
	}
	return cat
}

// MongoCategoryRepository backs both ExerciseType and GroupMuscle documents
type MongoCategoryRepository struct {
	collection *mongo.Collection
}

func NewMongoExerciseTypeRepository(db *mongo.Database) *MongoCategoryRepository {
	return newMongoCategoryRepository(db, exerciseTypeCollection)
}

func NewMongoGroupMuscleRepository(db *mongo.Database) *MongoCategoryRepository {
	return newMongoCategoryRepository(db, groupMuscleCollection)
}

func newMongoCategoryRepository(db *mongo.Database, name string) *MongoCategoryRepository {
	coll := db.Collection(name)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Bulk import resolves categories by name, so names must be unique
	mod := mongo.IndexModel{
		Keys:    bson.M{"name": 1},
		Options: options.Index().SetUnique(true),
	}
	coll.Indexes().CreateOne(ctx, mod)

	return &MongoCategoryRepository{
		collection: coll,
	}
}

func (r *MongoCategoryRepository) Create(ctx context.Context, cat *domain.Category) error {
	cat.CreatedAt = time.Now()
	cat.UpdatedAt = cat.CreatedAt
	cat.Exercises = []string{}

	doc := categoryDocument{
		Name:      cat.Name,
		Exercises: []interface{}{},
		CreatedAt: cat.CreatedAt,
		UpdatedAt: cat.UpdatedAt,
	}
	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateCategory
		}
		return fmt.Errorf("failed to create %s: %w", r.collection.Name(), err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		cat.ID = oid.Hex()
	}
	return nil
}

func (r *MongoCategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var doc categoryDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", r.collection.Name(), err)
	}
	return doc.toDomain(), nil
}

// GetByIDs silently skips malformed and unknown IDs
func (r *MongoCategoryRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Category, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []*domain.Category{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (r *MongoCategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	var doc categoryDocument
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find %s by name: %w", r.collection.Name(), err)
	}
	return doc.toDomain(), nil
}

func (r *MongoCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoCategoryRepository) find(ctx context.Context, filter bson.M) ([]*domain.Category, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", r.collection.Name(), err)
	}
	defer cursor.Close(ctx)

	var docs []categoryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	cats := make([]*domain.Category, 0, len(docs))
	for i := range docs {
		cats = append(cats, docs[i].toDomain())
	}
	return cats, nil
}

// AddExercise appends exerciseID to the back-reference list.
// $addToSet keeps the list free of duplicates when a request is retried.
func (r *MongoCategoryRepository) AddExercise(ctx context.Context, id string, exerciseID string) error {
	return r.updateExercises(ctx, id, bson.M{"$addToSet": bson.M{"exercises": exerciseRef(exerciseID)}})
}

// RemoveExercise drops every occurrence of exerciseID from the back-reference
// list, whether it was stored as an ObjectId or as a hex string
func (r *MongoCategoryRepository) RemoveExercise(ctx context.Context, id string, exerciseID string) error {
	refs := bson.A{exerciseID}
	if oid, err := primitive.ObjectIDFromHex(exerciseID); err == nil {
		refs = append(refs, oid)
	}
	return r.updateExercises(ctx, id, bson.M{"$pull": bson.M{"exercises": bson.M{"$in": refs}}})
}

func (r *MongoCategoryRepository) updateExercises(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}
	update["$set"] = bson.M{"updatedAt": time.Now()}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update %s back-references: %w", r.collection.Name(), err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// exerciseRef is the stored form of a back-reference entry
func exerciseRef(exerciseID string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(exerciseID); err == nil {
		return oid
	}
	return exerciseID
}
