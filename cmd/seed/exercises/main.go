package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mansoorceksport/gympro/internal/config"
	"github.com/mansoorceksport/gympro/internal/domain"
	"github.com/mansoorceksport/gympro/internal/repository"
	"github.com/mansoorceksport/gympro/internal/service"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seeds exercise types, muscle groups and a starter exercise library.
// Exercises go through ExerciseService.Import so back-references are kept.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		log.Fatalf("Failed to connect to Mongo: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDB.Database)
	exerciseRepo := repository.NewMongoExerciseRepository(db)
	typeRepo := repository.NewMongoExerciseTypeRepository(db)
	muscleRepo := repository.NewMongoGroupMuscleRepository(db)

	types := service.NewCategoryService(typeRepo, exerciseRepo)
	muscles := service.NewCategoryService(muscleRepo, exerciseRepo)
	exercises := service.NewExerciseService(exerciseRepo, typeRepo, muscleRepo)

	for _, name := range []string{"Compound", "Isolation", "Bodyweight"} {
		seedCategory(ctx, "exercise type", name, types)
	}
	for _, name := range []string{"Legs", "Chest", "Back", "Shoulders", "Biceps", "Triceps", "Core"} {
		seedCategory(ctx, "muscle group", name, muscles)
	}

	records := []map[string]interface{}{
		// Legs
		{"name": "Barbell Squat", "typeexercise": "Compound", "groupmuscle": "Legs", "video": "https://www.youtube.com/watch?v=SW_C1A-rejs"},
		{"name": "Leg Press", "typeexercise": "Compound", "groupmuscle": "Legs", "video": "https://www.youtube.com/watch?v=IZxyjW7MPJQ"},
		{"name": "Walking Lunge", "typeexercise": "Bodyweight", "groupmuscle": "Legs", "video": "https://www.youtube.com/watch?v=D7KaRcUTQeE"},
		{"name": "Leg Extension", "typeexercise": "Isolation", "groupmuscle": "Legs", "video": "https://www.youtube.com/watch?v=YyvSfVLYZqo"},
		{"name": "Romanian Deadlift", "typeexercise": "Compound", "groupmuscle": "Legs", "video": "https://www.youtube.com/watch?v=JCXUYuzwZ_M"},

		// Chest
		{"name": "Barbell Bench Press", "typeexercise": "Compound", "groupmuscle": "Chest", "video": "https://www.youtube.com/watch?v=EUjh50tLlBo"},
		{"name": "Push Up", "typeexercise": "Bodyweight", "groupmuscle": "Chest", "video": "https://www.youtube.com/watch?v=IODxDxX7oi4"},
		{"name": "Cable Fly", "typeexercise": "Isolation", "groupmuscle": "Chest", "video": "https://www.youtube.com/watch?v=I-Ue34qLxc4"},

		// Back
		{"name": "Pull Up", "typeexercise": "Bodyweight", "groupmuscle": "Back", "video": "https://www.youtube.com/watch?v=eGo4IYlbE5g"},
		{"name": "Barbell Row", "typeexercise": "Compound", "groupmuscle": "Back", "video": "https://www.youtube.com/watch?v=DgyslsszCQ0"},
		{"name": "Lat Pulldown", "typeexercise": "Compound", "groupmuscle": "Back", "video": "https://www.youtube.com/watch?v=CAwf7n6Luuc"},

		// Shoulders
		{"name": "Overhead Press", "typeexercise": "Compound", "groupmuscle": "Shoulders", "video": "https://www.youtube.com/watch?v=HzIiInu578Q"},
		{"name": "Lateral Raise", "typeexercise": "Isolation", "groupmuscle": "Shoulders", "video": "https://www.youtube.com/watch?v=3VcKaXpzqRo"},

		// Arms
		{"name": "Barbell Curl", "typeexercise": "Isolation", "groupmuscle": "Biceps", "video": "https://www.youtube.com/watch?v=aEscWJ3dS3w"},
		{"name": "Tricep Pushdown", "typeexercise": "Isolation", "groupmuscle": "Triceps", "video": "https://www.youtube.com/watch?v=2-LAMcpzHLU"},

		// Core
		{"name": "Plank", "typeexercise": "Bodyweight", "groupmuscle": "Core", "video": "https://www.youtube.com/watch?v=pSHjTRCQxIw"},
		{"name": "Ab Wheel Rollout", "typeexercise": "Bodyweight", "groupmuscle": "Core", "video": "https://www.youtube.com/watch?v=_BHKT60P6bc"},
	}

	for _, rec := range records {
		ex, err := exercises.Import(ctx, rec)
		switch {
		case err == nil:
			fmt.Printf("Created: %s\n", ex.Name)
		case errors.Is(err, domain.ErrDuplicateExercise):
			fmt.Printf("Skipping duplicate: %s\n", rec["name"])
		default:
			log.Printf("Error creating %s: %v\n", rec["name"], err)
		}
	}
	fmt.Println("Seeding Exercises Complete.")
}

func seedCategory(ctx context.Context, kind, name string, svc *service.CategoryService) {
	if _, err := svc.Create(ctx, name); err != nil {
		if errors.Is(err, domain.ErrDuplicateCategory) {
			fmt.Printf("Skipping duplicate %s: %s\n", kind, name)
			return
		}
		log.Fatalf("Failed to create %s %s: %v", kind, name, err)
	}
	fmt.Printf("Created %s: %s\n", kind, name)
}
