package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/globerise/globerise_backend/controllers"
	"github.com/globerise/globerise_backend/middleware"
	"github.com/globerise/globerise_backend/repositories"
	"github.com/globerise/globerise_backend/websocket"
)

// RegisterUserRoutes sets up the member-facing routes
func RegisterUserRoutes(e *echo.Echo, db *mongo.Database, hub *websocket.Hub) {
	userRepo := repositories.NewMongoUserRepository(db)
	withdrawalRepo := repositories.NewMongoWithdrawalRepository(db)

	withdrawalController := controllers.NewWithdrawalController(withdrawalRepo, userRepo, hub)
	rankingController := controllers.NewRankingController(db, userRepo, hub)
	referralController := controllers.NewReferralController(userRepo)
	planController := controllers.NewPlanController(db)
	ticketController := controllers.NewTicketController(db, hub)

	api := e.Group("/api")
	api.Use(middleware.JWTMiddleware())
	api.Use(middleware.RequireUserType("member", "admin", "super_admin"))

	// Withdrawals
	api.GET("/withdrawals/window", withdrawalController.GetWindowInfo)
	api.POST("/withdrawals", withdrawalController.RequestWithdrawal)
	api.GET("/withdrawals", withdrawalController.GetMyWithdrawals)

	// Ranking
	api.GET("/rank", rankingController.GetMyRank)
	api.GET("/rank/tiers", rankingController.GetRankTiers)

	// Referrals
	api.POST("/referral", referralController.ApplyReferral)
	api.GET("/referral", referralController.GetReferralData)
	api.GET("/referral/qr", referralController.GetReferralQRCode)

	// Plans visible to members
	api.GET("/plans", planController.GetPlans)

	// Support tickets
	api.POST("/tickets", ticketController.OpenTicket)
	api.GET("/tickets", ticketController.GetMyTickets)
	api.POST("/tickets/:id/reply", ticketController.ReplyToTicket)
	api.POST("/tickets/:id/close", ticketController.CloseTicket)

	// Realtime notifications
	api.GET("/ws", func(c echo.Context) error {
		userID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
		if err != nil {
			return echo.NewHTTPError(echo.ErrUnauthorized.Code, "Invalid user ID")
		}
		userType := middleware.ExtractUserType(c)
		isAdmin := userType == "admin" || userType == "super_admin"
		return websocket.HandleWebSocket(c, hub, userID, isAdmin)
	})
}
