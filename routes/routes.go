package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	controller "leadboard/controllers"
	"leadboard/middleware"
	"leadboard/utils"
)

// SetupRoutes wires the public auth endpoints and the protected
// /api/v1 surface.
func SetupRoutes(app *fiber.App, db *gorm.DB, cache *utils.Cache, log *logrus.Logger) {
	authController := controller.NewAuthController(db, log)
	leadController := controller.NewLeadController(db, log)
	campaignController := controller.NewCampaignController(db, log)
	linkedinController := controller.NewLinkedInController(db, log)
	messageController := controller.NewMessageController(db, log)
	userController := controller.NewUserController(db, log)
	dashboardController := controller.NewDashboardController(db, cache, log)
	activityController := controller.NewActivityController(db, log)

	// Auth routes group with logging middleware
	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	auth.Post("/register", authController.Register)
	auth.Post("/login", authController.Login)
	auth.Post("/refresh", authController.RefreshToken)

	// Protected auth endpoints (require valid JWT)
	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Post("/logout", authController.Logout)
	protectedAuth.Get("/me", authController.GetCurrentUser)

	// API group with versioning and protection
	api := app.Group("/api/v1", middleware.Protected(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.Get("/", dashboardController.GetDashboard)
	dashboard.Get("/stats", dashboardController.GetStats)

	// Lead routes
	leads := api.Group("/leads")
	leads.Get("/", leadController.GetLeads)
	leads.Get("/infinite", leadController.GetLeadsInfinite)
	leads.Post("/", leadController.CreateLead)
	leads.Get("/:id", leadController.GetLead)
	leads.Put("/:id", leadController.UpdateLead)
	leads.Delete("/:id", leadController.DeleteLead)
	leads.Get("/:leadId/messages", messageController.GetLeadMessages)

	// Campaign routes
	campaigns := api.Group("/campaigns")
	campaigns.Get("/", campaignController.GetCampaigns)
	campaigns.Get("/metrics", campaignController.GetMetrics)
	campaigns.Post("/", campaignController.CreateCampaign)
	campaigns.Get("/:id", campaignController.GetCampaign)
	campaigns.Put("/:id", campaignController.UpdateCampaign)
	campaigns.Delete("/:id", campaignController.DeleteCampaign)
	campaigns.Get("/:id/leads", campaignController.GetCampaignLeads)
	campaigns.Post("/:id/stats", campaignController.RecomputeStats)

	// LinkedIn account routes
	linkedin := api.Group("/linkedin-accounts")
	linkedin.Get("/", linkedinController.GetAccounts)
	linkedin.Get("/stats", linkedinController.GetStats)
	linkedin.Post("/", linkedinController.CreateAccount)
	linkedin.Get("/:id", linkedinController.GetAccount)
	linkedin.Put("/:id", linkedinController.UpdateAccount)
	linkedin.Put("/:id/stats", linkedinController.UpdateAccountStats)
	linkedin.Delete("/:id", linkedinController.DeleteAccount)

	// Message routes
	messages := api.Group("/messages")
	messages.Get("/", messageController.GetMessages)
	messages.Get("/stats", messageController.GetStats)
	messages.Post("/", messageController.CreateMessage)
	messages.Get("/:id", messageController.GetMessage)
	messages.Put("/:id", messageController.UpdateMessage)
	messages.Put("/:id/read", messageController.MarkAsRead)
	messages.Delete("/:id", messageController.DeleteMessage)

	// User routes
	users := api.Group("/users")
	users.Get("/", userController.GetUsers)
	users.Get("/:id", userController.GetUser)
	users.Put("/:id", userController.UpdateUser)
	users.Delete("/:id", userController.DeleteUser)
	users.Get("/:id/stats", userController.GetUserStats)

	// Activity feed
	api.Get("/activity", activityController.GetActivity)
}
