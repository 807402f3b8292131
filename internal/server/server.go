package server

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/mansoorceksport/gympro/docs"
	"github.com/mansoorceksport/gympro/internal/config"
	"github.com/mansoorceksport/gympro/internal/domain"
	"github.com/mansoorceksport/gympro/internal/handler"
	"github.com/mansoorceksport/gympro/internal/middleware"
	"github.com/mansoorceksport/gympro/internal/repository"
	"github.com/mansoorceksport/gympro/internal/service"
	"github.com/mansoorceksport/gympro/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repositories are the stores behind every route
type Repositories struct {
	Exercises     domain.ExerciseRepository
	ExerciseTypes domain.CategoryRepository
	GroupMuscles  domain.CategoryRepository
	Catalog       map[string]domain.CatalogRepository // keyed by resource path
	Files         domain.FileRepository               // nil disables media uploads
}

// MongoRepositories builds the MongoDB-backed repositories
func MongoRepositories(db *mongo.Database, files domain.FileRepository) Repositories {
	catalog := make(map[string]domain.CatalogRepository, len(domain.CatalogResources))
	for _, res := range domain.CatalogResources {
		catalog[res.Path] = repository.NewMongoCatalogRepository(db, res)
	}
	return Repositories{
		Exercises:     repository.NewMongoExerciseRepository(db),
		ExerciseTypes: repository.NewMongoExerciseTypeRepository(db),
		GroupMuscles:  repository.NewMongoGroupMuscleRepository(db),
		Catalog:       catalog,
		Files:         files,
	}
}

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config       *config.Config
	Repositories Repositories
	RedisClient  redis.UniversalClient // nil disables idempotency
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	repos := deps.Repositories

	// Initialize services
	exerciseService := service.NewExerciseService(repos.Exercises, repos.ExerciseTypes, repos.GroupMuscles)
	exerciseTypeService := service.NewCategoryService(repos.ExerciseTypes, repos.Exercises)
	groupMuscleService := service.NewCategoryService(repos.GroupMuscles, repos.Exercises)
	mediaService := service.NewMediaService(repos.Files, repos.Exercises)

	// Initialize handlers
	exerciseHandler := handler.NewExerciseHandler(exerciseService)
	exerciseTypeHandler := handler.NewCategoryHandler(exerciseTypeService)
	groupMuscleHandler := handler.NewCategoryHandler(groupMuscleService)
	mediaHandler := handler.NewMediaHandler(mediaService, deps.Config.Server.MaxUploadSizeMB)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName: "GymPro API",
		// up to three media files per upload request
		BodyLimit:    int((deps.Config.Server.MaxUploadSizeMB*3 + 1) * 1024 * 1024),
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(telemetry.FiberMiddleware())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, x-api-key, api_key, X-Correlation-ID",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Public endpoints
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "gympro",
		})
	})
	app.Get("/api-doc/*", swagger.HandlerDefault)

	// Everything below requires an API key
	keys := middleware.NewAPIKeySet(deps.Config.Auth.APIKeys)
	log.Printf("✓ API key gate loaded with %d keys", keys.Len())
	app.Use(middleware.RequireAPIKey(keys))

	idempotent := func(h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{h}
	}
	if deps.RedisClient != nil {
		ttl := time.Duration(deps.Config.Redis.IdempotencyTTLMinutes) * time.Minute
		idem := middleware.IdempotencyMiddleware(deps.RedisClient, ttl)
		idempotent = func(h fiber.Handler) []fiber.Handler {
			return []fiber.Handler{idem, h}
		}
	}

	// ===========================================
	// EXERCISES
	// ===========================================
	exercise := app.Group("/exercise")
	exercise.Get("/", exerciseHandler.ListExercises)
	exercise.Post("/", idempotent(exerciseHandler.CreateExercise)...)
	exercise.Post("/import", idempotent(exerciseHandler.ImportExercise)...)
	exercise.Get("/:id", exerciseHandler.GetExercise)
	exercise.Put("/:id", idempotent(exerciseHandler.UpdateExercise)...)
	exercise.Delete("/:id", exerciseHandler.DeleteExercise)

	exerciseType := app.Group("/exercise-type")
	exerciseType.Get("/", exerciseTypeHandler.List)
	exerciseType.Post("/", exerciseTypeHandler.Create)

	groupMuscle := app.Group("/group-muscle")
	groupMuscle.Get("/", groupMuscleHandler.List)
	groupMuscle.Post("/", groupMuscleHandler.Create)

	app.Put("/media/:id", mediaHandler.UploadMedia)

	// ===========================================
	// CATALOG (members, staff, classes, rewards...)
	// ===========================================
	for _, res := range domain.CatalogResources {
		repo, ok := repos.Catalog[res.Path]
		if !ok {
			log.Printf("Warning: no repository for /%s, route not mounted", res.Path)
			continue
		}
		h := handler.NewCatalogHandler(service.NewCatalogService(res, repo))
		mountCatalog(app.Group("/"+res.Path), h)
	}

	return app
}

func mountCatalog(r fiber.Router, h *handler.CatalogHandler) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	// before /:id so "multiple" is not taken for an ID
	r.Delete("/multiple", h.DeleteMany)
	r.Get("/:id", h.Get)
	r.Put("/:id", h.Update)
	r.Delete("/:id", h.Delete)
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}
	log.Printf("Error: %v", err)
	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}
