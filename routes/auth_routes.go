package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/globerise/globerise_backend/controllers"
	"github.com/globerise/globerise_backend/middleware"
)

// RegisterAuthRoutes sets up signup, login and session routes
func RegisterAuthRoutes(e *echo.Echo, authController *controllers.AuthController) {
	auth := e.Group("/api/auth")

	auth.POST("/signup", authController.Signup)
	auth.POST("/login", authController.Login)
	auth.POST("/refresh-session", authController.RefreshSession)

	protected := auth.Group("")
	protected.Use(middleware.JWTMiddleware())
	protected.POST("/logout", authController.Logout)
	protected.GET("/profile", authController.GetProfile)
}
