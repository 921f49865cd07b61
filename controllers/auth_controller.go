package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/globerise/globerise_backend/config"
	"github.com/globerise/globerise_backend/middleware"
	"github.com/globerise/globerise_backend/models"
	"github.com/globerise/globerise_backend/repositories"
	"github.com/globerise/globerise_backend/utils"
)

// AuthController handles member signup and authentication
type AuthController struct {
	Users repositories.UserRepository
}

func NewAuthController(users repositories.UserRepository) *AuthController {
	return &AuthController{Users: users}
}

type SignupRequest struct {
	Username     string `json:"username" validate:"required,min=3"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	FullName     string `json:"fullName" validate:"required"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
	ReferralCode string `json:"referralCode"`
}

type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// Signup registers a new member and links them under their referrer
func (ac *AuthController) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	phone, err := utils.SanitizePhone(req.Phone)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	ctx := c.Request().Context()

	if _, err := ac.Users.GetByEmail(ctx, email); err == nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Email is already registered",
		})
	}

	// Resolve the referrer before creating anything
	var leader *models.User
	if req.ReferralCode != "" {
		leader, err = ac.Users.GetByReferralCode(ctx, req.ReferralCode)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid referral code",
			})
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	referralCode, err := utils.GenerateMemberReferralCode()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate referral code",
		})
	}

	user := models.User{
		Username:       utils.SanitizeInput(req.Username),
		Email:          email,
		Password:       string(hashedPassword),
		FullName:       utils.SanitizeInput(req.FullName),
		UserType:       "member",
		Status:         "active",
		Country:        utils.SanitizeInput(req.Country),
		Phone:          phone,
		ReferralCode:   referralCode,
		Rank:           models.RankNone,
		LastActivityAt: time.Now(),
	}
	if leader != nil {
		user.LeaderID = &leader.ID
	}

	if err := ac.Users.Create(ctx, &user); err != nil {
		log.Printf("Failed to create user: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create account",
		})
	}

	if leader != nil {
		leader.Referrals = append(leader.Referrals, user.ID)
		leader.Points += 10
		if err := ac.Users.Update(ctx, leader); err != nil {
			log.Printf("Failed to update referrer %s: %v", leader.ID.Hex(), err)
		}
	}

	user.Password = ""
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Account created successfully",
		Data:    user,
	})
}

// Login authenticates a member and issues JWT tokens
func (ac *AuthController) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()

	user, err := ac.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	if user.Status == "banned" {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Account is banned",
		})
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.UserType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	user.LastActivityAt = time.Now()
	if err := ac.Users.Update(ctx, user); err != nil {
		log.Printf("Failed to update last activity for %s: %v", user.ID.Hex(), err)
	}

	data := map[string]interface{}{
		"token":        token,
		"refreshToken": refreshToken,
	}

	if req.RememberMe {
		rememberToken, err := utils.GenerateRememberMeToken()
		if err == nil {
			session := utils.RememberedSession{
				UserID:   user.ID.Hex(),
				Email:    user.Email,
				UserType: user.UserType,
			}
			if err := utils.StoreRememberMeSession(ctx, config.GetRedisClient(), rememberToken, session); err != nil {
				log.Printf("Failed to store remember me session: %v", err)
			} else {
				data["rememberMeToken"] = rememberToken
			}
		}
	}

	user.Password = ""
	data["user"] = user

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data:    data,
	})
}

// Logout blacklists the current token and clears any remember-me session
func (ac *AuthController) Logout(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}

	authHeader := c.Request().Header.Get("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		middleware.BlacklistToken(authHeader[7:], time.Now().Add(24*time.Hour))
	}

	if token := c.QueryParam("rememberMeToken"); token != "" {
		if err := utils.DeleteRememberMeSession(c.Request().Context(), config.GetRedisClient(), token); err != nil {
			log.Printf("Failed to delete remember me session: %v", err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged out successfully",
	})
}

// RefreshSession exchanges a remember-me token for a fresh JWT pair
func (ac *AuthController) RefreshSession(c echo.Context) error {
	var req struct {
		RememberMeToken string `json:"rememberMeToken" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	ctx := c.Request().Context()

	session, err := utils.GetRememberMeSession(ctx, config.GetRedisClient(), req.RememberMeToken)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Session expired or not found",
		})
	}

	userID, err := primitive.ObjectIDFromHex(session.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid session",
		})
	}

	user, err := ac.Users.Get(ctx, userID)
	if err != nil || user.Status == "banned" {
		// Account removed or banned since the session was stored
		if delErr := utils.DeleteRememberMeSession(ctx, config.GetRedisClient(), req.RememberMeToken); delErr != nil {
			log.Printf("Failed to delete stale remember me session: %v", delErr)
		}
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Session expired or not found",
		})
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.UserType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	user.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Session refreshed",
		Data: map[string]interface{}{
			"token":        token,
			"refreshToken": refreshToken,
			"user":         user,
		},
	})
}

// GetProfile returns the authenticated member's account
func (ac *AuthController) GetProfile(c echo.Context) error {
	userID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid user ID",
		})
	}

	user, err := ac.Users.Get(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	user.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile retrieved successfully",
		Data:    user,
	})
}
