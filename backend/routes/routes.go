package routes

import (
	"log"

	"crowdfund/backend/config"
	"crowdfund/backend/controllers"
	"crowdfund/backend/middleware"
	"crowdfund/backend/models"
	"crowdfund/backend/services"
	"crowdfund/backend/storage"
	"crowdfund/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Dependencies is everything the HTTP surface needs from the composition root.
type Dependencies struct {
	Cfg      *config.Config
	Logger   *log.Logger
	Users    storage.UserStore
	Ideas    *services.IdeaService
	Forums   *services.ForumService
	Accounts *services.UserService
}

// NewApp builds the Fiber app with its middleware stack and routes.
func NewApp(deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "crowdfund",
		ErrorHandler: utils.ErrorHandler(deps.Logger),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	}))
	app.Use(middleware.LoggingMiddleware(deps.Logger, deps.Cfg.LogFormat != "json"))

	SetupRoutes(app, deps)
	return app
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	api := app.Group("/api")

	// Auth routes
	authController := controllers.NewAuthController(deps.Users, deps.Cfg, deps.Logger)
	api.Post("/auth/register", authController.Register)
	api.Post("/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(deps.Cfg, deps.Users, deps.Logger)
	adminOnly := middleware.RoleMiddleware(deps.Logger, models.RoleAdmin)
	staffOnly := middleware.RoleMiddleware(deps.Logger, models.RoleModerator, models.RoleAdmin)

	// User routes
	userController := controllers.NewUserController(deps.Accounts, deps.Logger)
	user := api.Group("/user", authMiddleware)
	user.Get("/me", userController.Me)
	user.Patch("/role/:id", adminOnly, userController.SetRole)
	user.Patch("/ban/:id", staffOnly, userController.SetBanned)

	// Idea routes; listing and search are public
	ideaController := controllers.NewIdeaController(deps.Ideas, deps.Logger)
	idea := api.Group("/idea")
	idea.Get("/get/sorted", ideaController.GetSorted)
	idea.Get("/search", ideaController.Search)
	idea.Get("/get/:id", authMiddleware, ideaController.Get)
	idea.Post("/start", authMiddleware, ideaController.Start)
	idea.Post("/rate", authMiddleware, ideaController.Rate)
	idea.Post("/add-comment", authMiddleware, ideaController.AddComment)
	idea.Delete("/delete-comment", authMiddleware, ideaController.DeleteComment)
	idea.Post("/invest", authMiddleware, ideaController.Invest)
	idea.Patch("/close/:id", authMiddleware, ideaController.Close)

	// Forum routes
	forumController := controllers.NewForumController(deps.Forums, deps.Logger)
	forum := api.Group("/forum")
	forum.Get("/get/sorted", forumController.GetSorted)
	forum.Get("/search", forumController.Search)
	forum.Get("/get/:id", authMiddleware, forumController.Get)
	forum.Post("/create", authMiddleware, forumController.Create)
	forum.Post("/add-comment", authMiddleware, forumController.AddComment)
	forum.Delete("/delete-comment", authMiddleware, forumController.DeleteComment)
	forum.Patch("/mark-helpful", authMiddleware, forumController.MarkHelpful)
	forum.Patch("/close/:id", authMiddleware, forumController.Close)
}
