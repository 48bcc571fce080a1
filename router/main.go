package router

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/campushub/campus-api/database"
	"github.com/campushub/campus-api/handlers"
	auth_handlers "github.com/campushub/campus-api/handlers/auth"
	batch_handlers "github.com/campushub/campus-api/handlers/batch"
	college_handlers "github.com/campushub/campus-api/handlers/college"
	course_handlers "github.com/campushub/campus-api/handlers/course"
	university_handlers "github.com/campushub/campus-api/handlers/university"
	"github.com/campushub/campus-api/services/geocode"
	"github.com/campushub/campus-api/services/identity"
	"github.com/campushub/campus-api/utils/middleware"
)

// Dependencies carries the explicitly constructed services the routes need
type Dependencies struct {
	Store    *database.GORMStore
	DB       *gorm.DB
	Identity *identity.Client
	Geocoder *geocode.Client
}

// SetupRoutes registers all routes. Listings are public; every mutating route
// sits behind the identity gate.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	authMiddleware := middleware.NewAuthMiddleware(deps.Identity)

	healthHandler := handlers.NewHealthHandler(deps.Store)
	authHandler := auth_handlers.NewAuthHandler(deps.DB)
	universityHandler := university_handlers.NewUniversityHandler(deps.DB)
	collegeHandler := college_handlers.NewCollegeHandler(deps.DB, deps.Geocoder)
	courseHandler := course_handlers.NewCourseHandler(deps.DB)
	batchHandler := batch_handlers.NewBatchHandler(deps.DB)

	// Health check endpoint (public)
	app.Get("/ping", healthHandler.Check)

	api := app.Group("/api")

	// Auth routes (all behind the identity gate)
	authGroup := api.Group("/auth", authMiddleware.Required())
	authGroup.Post("/create-user", authHandler.CreateUser)
	authGroup.Get("/profile", authHandler.GetProfile)

	// University routes
	universities := api.Group("/university")
	universities.Get("/", universityHandler.ListUniversities)
	universities.Post("/create-university", authMiddleware.Required(), universityHandler.CreateUniversity)
	universities.Put("/:id", authMiddleware.Required(), universityHandler.UpdateUniversity)
	universities.Delete("/:id", authMiddleware.Required(), universityHandler.DeleteUniversity)
	universities.Patch("/:id/restore", authMiddleware.Required(), universityHandler.RestoreUniversity)

	// College routes
	colleges := api.Group("/college")
	colleges.Get("/", collegeHandler.ListColleges)
	colleges.Post("/create-college", authMiddleware.Required(), collegeHandler.CreateCollege)

	// Course routes
	courses := api.Group("/courses")
	courses.Get("/", courseHandler.ListCourses)
	courses.Post("/create-course", authMiddleware.Required(), courseHandler.CreateCourse)

	// Batch routes
	batches := api.Group("/batches")
	batches.Post("/create-batch", authMiddleware.Required(), batchHandler.CreateBatch)
}
