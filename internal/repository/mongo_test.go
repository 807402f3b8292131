package repository

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/mansoorceksport/gympro/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// setupTestDB spins up a fresh MongoDB container and returns the database.
// Tests are skipped when no container runtime is reachable.
func setupTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	if testing.Short() {
		t.Skip("skipping MongoDB container test in short mode")
	}

	ctx := context.Background()

	mongodbContainer, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("failed to start container: %s", err)
	}

	endpoint, err := mongodbContainer.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %s", err)
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(endpoint))
	if err != nil {
		t.Fatalf("failed to connect to mongo: %v", err)
	}

	t.Cleanup(func() {
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Printf("failed to disconnect mongo: %v", err)
		}
		if err := mongodbContainer.Terminate(ctx); err != nil {
			log.Printf("failed to terminate container: %v", err)
		}
	})

	return mongoClient.Database("gympro_test")
}

func TestMongoRepositories(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	t.Run("exercise lifecycle", func(t *testing.T) {
		repo := NewMongoExerciseRepository(db)

		ex := &domain.Exercise{Name: "Squat", TypeExercise: "t1", GroupMuscle: "m1"}
		require.NoError(t, repo.Create(ctx, ex))
		require.NotEmpty(t, ex.ID)
		assert.False(t, ex.CreatedAt.IsZero())

		err := repo.Create(ctx, &domain.Exercise{Name: "Squat"})
		assert.ErrorIs(t, err, domain.ErrDuplicateExercise)

		found, err := repo.FindByName(ctx, "Squat")
		require.NoError(t, err)
		assert.Equal(t, ex.ID, found.ID)

		_, err = repo.FindByName(ctx, "squat")
		assert.ErrorIs(t, err, domain.ErrExerciseNotFound)

		ex.Description = "Back squat"
		ex.GroupMuscle = "m2"
		require.NoError(t, repo.Update(ctx, ex))

		require.NoError(t, repo.UpdateMedia(ctx, ex.ID, domain.MediaFields{Cover: "http://files/cover.png"}))

		got, err := repo.GetByID(ctx, ex.ID)
		require.NoError(t, err)
		assert.Equal(t, "Back squat", got.Description)
		assert.Equal(t, "m2", got.GroupMuscle)
		assert.Equal(t, "http://files/cover.png", got.Cover)
		assert.Empty(t, got.Image)

		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)

		require.NoError(t, repo.Delete(ctx, ex.ID))
		assert.ErrorIs(t, repo.Delete(ctx, ex.ID), domain.ErrExerciseNotFound)

		_, err = repo.GetByID(ctx, ex.ID)
		assert.ErrorIs(t, err, domain.ErrExerciseNotFound)
		_, err = repo.GetByID(ctx, "not-hex")
		assert.ErrorIs(t, err, domain.ErrInvalidID)
	})

	t.Run("renaming onto a taken name is a duplicate", func(t *testing.T) {
		repo := NewMongoExerciseRepository(db)

		a := &domain.Exercise{Name: "Deadlift"}
		b := &domain.Exercise{Name: "Row"}
		require.NoError(t, repo.Create(ctx, a))
		require.NoError(t, repo.Create(ctx, b))

		b.Name = "Deadlift"
		assert.ErrorIs(t, repo.Update(ctx, b), domain.ErrDuplicateExercise)

		missing := &domain.Exercise{ID: primitive.NewObjectID().Hex(), Name: "Ghost"}
		assert.ErrorIs(t, repo.Update(ctx, missing), domain.ErrExerciseNotFound)
	})

	t.Run("category back-references", func(t *testing.T) {
		repo := NewMongoExerciseTypeRepository(db)

		cat := &domain.Category{Name: "Strength"}
		require.NoError(t, repo.Create(ctx, cat))
		assert.Empty(t, cat.Exercises)
		assert.ErrorIs(t, repo.Create(ctx, &domain.Category{Name: "Strength"}), domain.ErrDuplicateCategory)

		require.NoError(t, repo.AddExercise(ctx, cat.ID, "e1"))
		require.NoError(t, repo.AddExercise(ctx, cat.ID, "e2"))
		require.NoError(t, repo.AddExercise(ctx, cat.ID, "e1"))

		got, err := repo.GetByID(ctx, cat.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"e1", "e2"}, got.Exercises)

		require.NoError(t, repo.RemoveExercise(ctx, cat.ID, "e1"))
		require.NoError(t, repo.RemoveExercise(ctx, cat.ID, "missing"))

		got, err = repo.FindByName(ctx, "Strength")
		require.NoError(t, err)
		assert.Equal(t, []string{"e2"}, got.Exercises)

		ghost := primitive.NewObjectID().Hex()
		assert.ErrorIs(t, repo.AddExercise(ctx, ghost, "e1"), domain.ErrNotFound)
		assert.ErrorIs(t, repo.RemoveExercise(ctx, "bad", "e1"), domain.ErrInvalidID)

		cats, err := repo.GetByIDs(ctx, []string{cat.ID, ghost, "bad"})
		require.NoError(t, err)
		require.Len(t, cats, 1)
		assert.Equal(t, "Strength", cats[0].Name)
	})

	t.Run("back-references are stored as ObjectIds", func(t *testing.T) {
		repo := NewMongoGroupMuscleRepository(db)
		coll := db.Collection(groupMuscleCollection)

		legacy := primitive.NewObjectID()
		other := primitive.NewObjectID()
		res, err := coll.InsertOne(ctx, bson.M{
			"name":      "Glutes",
			"exercises": bson.A{legacy, other},
			"createdAt": time.Now(),
			"updatedAt": time.Now(),
		})
		require.NoError(t, err)
		id := res.InsertedID.(primitive.ObjectID).Hex()

		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []string{legacy.Hex(), other.Hex()}, got.Exercises)

		// re-adding an existing entry is a no-op, removing matches the ObjectId form
		require.NoError(t, repo.AddExercise(ctx, id, legacy.Hex()))
		require.NoError(t, repo.RemoveExercise(ctx, id, other.Hex()))

		var raw bson.M
		require.NoError(t, coll.FindOne(ctx, bson.M{"_id": res.InsertedID}).Decode(&raw))
		assert.Equal(t, bson.A{legacy}, raw["exercises"])

		// hex string entries written by older builds are still removed
		_, err = coll.UpdateOne(ctx, bson.M{"_id": res.InsertedID}, bson.M{"$push": bson.M{"exercises": other.Hex()}})
		require.NoError(t, err)
		require.NoError(t, repo.RemoveExercise(ctx, id, other.Hex()))

		got, err = repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []string{legacy.Hex()}, got.Exercises)
	})

	t.Run("exercise types and muscle groups are separate collections", func(t *testing.T) {
		types := NewMongoExerciseTypeRepository(db)
		muscles := NewMongoGroupMuscleRepository(db)

		require.NoError(t, muscles.Create(ctx, &domain.Category{Name: "Legs"}))
		_, err := types.FindByName(ctx, "Legs")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = muscles.FindByName(ctx, "Legs")
		assert.NoError(t, err)
	})

	t.Run("catalog", func(t *testing.T) {
		rewardRes, _ := domain.CatalogResourceByPath("recompensa")
		socioRes, _ := domain.CatalogResourceByPath("socio")
		rewards := NewMongoCatalogRepository(db, rewardRes)
		socios := NewMongoCatalogRepository(db, socioRes)

		a := &domain.CatalogItem{Values: map[string]interface{}{"nombre": "Batido", "descripcion": "gratis"}}
		b := &domain.CatalogItem{Values: map[string]interface{}{"nombre": "Toalla"}}
		require.NoError(t, rewards.Create(ctx, a))
		require.NoError(t, rewards.Create(ctx, b))

		require.NoError(t, rewards.Update(ctx, a.ID, map[string]interface{}{"descripcion": "tras 10 visitas"}))
		got, err := rewards.GetByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "Batido", got.Values["nombre"])
		assert.Equal(t, "tras 10 visitas", got.Values["descripcion"])

		// documents written by the previous API keep loading
		legacy, err := db.Collection("recompensas").InsertOne(ctx, bson.M{"nombre": "Antigua", "__v": 0})
		require.NoError(t, err)
		old, err := rewards.GetByID(ctx, legacy.InsertedID.(primitive.ObjectID).Hex())
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"nombre": "Antigua"}, old.Values)

		profile := primitive.NewObjectID()
		since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		s := &domain.CatalogItem{Values: map[string]interface{}{"perfil_socio": profile.Hex(), "fecha_alta": since}}
		require.NoError(t, socios.Create(ctx, s))

		var raw bson.M
		oid, _ := primitive.ObjectIDFromHex(s.ID)
		require.NoError(t, db.Collection("socios").FindOne(ctx, bson.M{"_id": oid}).Decode(&raw))
		assert.Equal(t, profile, raw["perfil_socio"])

		member, err := socios.GetByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, profile.Hex(), member.Values["perfil_socio"])
		assert.Equal(t, since, member.Values["fecha_alta"])

		n, err := rewards.DeleteMany(ctx, []string{a.ID, primitive.NewObjectID().Hex()})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		_, err = rewards.DeleteMany(ctx, []string{"bad"})
		assert.ErrorIs(t, err, domain.ErrInvalidID)

		require.NoError(t, rewards.Delete(ctx, b.ID))
		assert.ErrorIs(t, rewards.Delete(ctx, b.ID), domain.ErrNotFound)
		assert.ErrorIs(t, rewards.Update(ctx, b.ID, map[string]interface{}{"nombre": "x"}), domain.ErrNotFound)

		left, err := rewards.List(ctx)
		require.NoError(t, err)
		assert.Len(t, left, 1)
	})
}
