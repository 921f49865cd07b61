package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/globerise/globerise_backend/controllers"
	"github.com/globerise/globerise_backend/middleware"
	"github.com/globerise/globerise_backend/models"
	"github.com/globerise/globerise_backend/repositories"
	"github.com/globerise/globerise_backend/websocket"
)

// RegisterAdminRoutes sets up all admin-related routes
func RegisterAdminRoutes(e *echo.Echo, db *mongo.Database, hub *websocket.Hub) {
	adminRepo := repositories.NewMongoAdminRepository(db)
	userRepo := repositories.NewMongoUserRepository(db)
	withdrawalRepo := repositories.NewMongoWithdrawalRepository(db)

	adminController := controllers.NewAdminController(db, adminRepo, userRepo)
	withdrawalController := controllers.NewWithdrawalController(withdrawalRepo, userRepo, hub)
	rankingController := controllers.NewRankingController(db, userRepo, hub)
	planController := controllers.NewPlanController(db)
	ticketController := controllers.NewTicketController(db, hub)

	// Admin routes group
	admin := e.Group("/api/admin")

	// Public routes (no auth required)
	admin.POST("/login", adminController.Login)
	admin.POST("/forgot-password", adminController.ForgotPassword)
	admin.POST("/verify-otp-reset", adminController.VerifyOTPAndResetPassword)

	// Super-admin protected routes
	superAdmin := admin.Group("")
	superAdmin.Use(middleware.JWTMiddleware())
	superAdmin.Use(middleware.RequireUserType("super_admin"))
	superAdmin.POST("/register", adminController.RegisterAdmin)
	superAdmin.GET("/admins", adminController.GetAdmins)
	superAdmin.PUT("/admins/:id/permissions", adminController.UpdateAdminPermissions)

	// Protected routes (require admin authentication)
	protected := admin.Group("")
	protected.Use(middleware.JWTMiddleware())
	protected.Use(middleware.RequireUserType("admin", "super_admin"))

	// Dashboard
	protected.GET("/dashboard", adminController.GetDashboardStats,
		middleware.RequirePermission(adminRepo, models.FeatureReports, models.AccessRead))

	// User management routes
	protected.GET("/users", adminController.GetUsers,
		middleware.RequirePermission(adminRepo, models.FeatureUsers, models.AccessRead))
	protected.POST("/users", adminController.CreateUser,
		middleware.RequirePermission(adminRepo, models.FeatureUsers, models.AccessEdit))
	protected.DELETE("/users/:id", adminController.DeleteUser,
		middleware.RequirePermission(adminRepo, models.FeatureUsers, models.AccessEdit))

	// Withdrawal processing routes
	protected.GET("/withdrawals/pending", withdrawalController.GetPendingWithdrawals,
		middleware.RequirePermission(adminRepo, models.FeatureWithdrawals, models.AccessRead))
	protected.POST("/withdrawals/:id/process", withdrawalController.ProcessWithdrawal,
		middleware.RequirePermission(adminRepo, models.FeatureWithdrawals, models.AccessEdit))

	// Ranking routes
	protected.GET("/rankings", rankingController.GetRankings,
		middleware.RequirePermission(adminRepo, models.FeatureRankings, models.AccessRead))
	protected.POST("/rankings/:id/award-bonus", rankingController.AwardRankBonus,
		middleware.RequirePermission(adminRepo, models.FeatureRankings, models.AccessEdit))

	// Investment plan routes
	protected.POST("/plans", planController.CreatePlan,
		middleware.RequirePermission(adminRepo, models.FeaturePlans, models.AccessEdit))
	protected.GET("/plans", planController.GetPlans,
		middleware.RequirePermission(adminRepo, models.FeaturePlans, models.AccessRead))
	protected.GET("/plans/:id", planController.GetPlan,
		middleware.RequirePermission(adminRepo, models.FeaturePlans, models.AccessRead))
	protected.PUT("/plans/:id", planController.UpdatePlan,
		middleware.RequirePermission(adminRepo, models.FeaturePlans, models.AccessEdit))
	protected.DELETE("/plans/:id", planController.DeletePlan,
		middleware.RequirePermission(adminRepo, models.FeaturePlans, models.AccessEdit))

	// Support ticket routes
	protected.GET("/tickets", ticketController.GetAllTickets,
		middleware.RequirePermission(adminRepo, models.FeatureSupport, models.AccessRead))
	protected.POST("/tickets/:id/reply", ticketController.ReplyToTicket,
		middleware.RequirePermission(adminRepo, models.FeatureSupport, models.AccessEdit))
	protected.POST("/tickets/:id/close", ticketController.CloseTicket,
		middleware.RequirePermission(adminRepo, models.FeatureSupport, models.AccessEdit))
}
