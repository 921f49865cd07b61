package controllers

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/gomail.v2"

	"github.com/globerise/globerise_backend/middleware"
	"github.com/globerise/globerise_backend/models"
	"github.com/globerise/globerise_backend/repositories"
	"github.com/globerise/globerise_backend/utils"
)

// AdminController handles the back-office operator endpoints
type AdminController struct {
	DB     *mongo.Database
	Admins repositories.AdminRepository
	Users  repositories.UserRepository
}

// OTPData stores OTP information
type OTPData struct {
	OTP       string
	ExpiresAt time.Time
}

// In-memory OTP store keyed by admin email. Concurrent reset requests hit
// this map, so access goes through the mutex.
var (
	otpMu    sync.Mutex
	otpStore = make(map[string]OTPData)
)

func storeOTP(email, otp string, expiresAt time.Time) {
	otpMu.Lock()
	defer otpMu.Unlock()
	otpStore[email] = OTPData{OTP: otp, ExpiresAt: expiresAt}
}

// consumeOTP validates and removes the stored OTP in one step so a code
// cannot be replayed
func consumeOTP(email, otp string) bool {
	otpMu.Lock()
	defer otpMu.Unlock()

	stored, ok := otpStore[email]
	if !ok || stored.OTP != otp || time.Now().After(stored.ExpiresAt) {
		return false
	}
	delete(otpStore, email)
	return true
}

func NewAdminController(db *mongo.Database, admins repositories.AdminRepository, users repositories.UserRepository) *AdminController {
	return &AdminController{DB: db, Admins: admins, Users: users}
}

// generateOTP creates a 4-digit OTP
func generateOTP() (string, error) {
	otp := ""
	for i := 0; i < 4; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		otp += fmt.Sprintf("%d", num)
	}
	return otp, nil
}

// sendOTPEmail sends OTP to the admin's email over SMTP
func sendOTPEmail(email, otp string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	fromEmail := os.Getenv("FROM_EMAIL")

	senderEmail := fromEmail
	if senderEmail == "" {
		senderEmail = smtpUser
	}

	if smtpHost == "" {
		smtpHost = "mail.smtp2go.com"
	}
	if smtpUser == "" || smtpPass == "" {
		return fmt.Errorf("SMTP configuration is incomplete: check SMTP_USER and SMTP_PASS")
	}

	smtpPort := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		if portNum, err := strconv.Atoi(portStr); err == nil && portNum > 0 {
			smtpPort = portNum
		}
	}

	m := gomail.NewMessage()
	m.SetHeader("From", senderEmail)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Password Reset OTP")
	m.SetBody("text/plain", fmt.Sprintf("Your OTP for password reset is: %s\nThis OTP will expire in 10 minutes.", otp))

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)

	if err := d.DialAndSend(m); err != nil {
		log.Printf("Failed to send email: %v", err)
		return err
	}

	return nil
}

// Login authenticates an admin and issues JWT tokens
func (ac *AdminController) Login(c echo.Context) error {
	var loginReq struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&loginReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	admin, err := ac.Admins.GetByEmail(c.Request().Context(), loginReq.Email)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(loginReq.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	token, refreshToken, err := middleware.GenerateJWT(admin.ID.Hex(), admin.Email, admin.UserType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	admin.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: map[string]interface{}{
			"token":        token,
			"refreshToken": refreshToken,
			"admin":        admin,
		},
	})
}

// ForgotPassword handles the forgot password request
func (ac *AdminController) ForgotPassword(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if _, err := ac.Admins.GetByEmail(c.Request().Context(), req.Email); err != nil {
		// Do not reveal whether the address exists
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "If the email exists, an OTP has been sent",
		})
	}

	otp, err := generateOTP()
	if err != nil {
		log.Printf("Failed to generate OTP: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate OTP",
		})
	}

	storeOTP(req.Email, otp, time.Now().Add(10*time.Minute))

	if err := sendOTPEmail(req.Email, otp); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to send OTP email",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "If the email exists, an OTP has been sent",
	})
}

// VerifyOTPAndResetPassword verifies the OTP and sets a new password
func (ac *AdminController) VerifyOTPAndResetPassword(c echo.Context) error {
	var req struct {
		Email       string `json:"email"`
		OTP         string `json:"otp"`
		NewPassword string `json:"newPassword" validate:"required,min=8"`
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

	if !consumeOTP(req.Email, req.OTP) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid or expired OTP",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	result, err := ac.DB.Collection("admins").UpdateOne(ctx,
		bson.M{"email": req.Email},
		bson.M{"$set": bson.M{"password": string(hashedPassword), "updatedAt": time.Now()}},
	)
	if err != nil || result.MatchedCount == 0 {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to reset password",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Password reset successfully",
	})
}

// RegisterAdmin lets a super admin create an admin with per-feature permissions
func (ac *AdminController) RegisterAdmin(c echo.Context) error {
	var req models.CreateAdminRequest
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

	ctx := c.Request().Context()

	if _, err := ac.Admins.GetByEmail(ctx, email); err == nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Admin email is already registered",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	admin := models.Admin{
		Email:       email,
		Password:    string(hashedPassword),
		FullName:    utils.SanitizeInput(req.FullName),
		UserType:    "admin",
		Permissions: req.Permissions,
	}

	if err := ac.Admins.Create(ctx, &admin); err != nil {
		log.Printf("Failed to create admin: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create admin",
		})
	}

	admin.Password = ""
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Admin created successfully",
		Data:    admin,
	})
}

// UpdateAdminPermissions replaces the permission set of an admin
func (ac *AdminController) UpdateAdminPermissions(c echo.Context) error {
	adminID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid admin ID",
		})
	}

	var req struct {
		Permissions []models.PermissionEntry `json:"permissions"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := ac.Admins.UpdatePermissions(c.Request().Context(), adminID, req.Permissions); err != nil {
		if err == repositories.ErrNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Admin not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update permissions",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Permissions updated successfully",
	})
}

// GetAdmins lists back-office operators with their permission grants
func (ac *AdminController) GetAdmins(c echo.Context) error {
	admins, err := ac.Admins.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch admins",
		})
	}

	for i := range admins {
		admins[i].Password = ""
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Admins retrieved successfully",
		Data:    admins,
	})
}

// GetUsers returns a filtered, paginated member listing
func (ac *AdminController) GetUsers(c echo.Context) error {
	criteria, page, limit, err := repositories.ParseUserFilter(c.QueryParams())
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	search := c.QueryParam("search")

	users, total, err := ac.Users.List(c.Request().Context(), criteria, search, page, limit)
	if err != nil {
		log.Printf("Failed to list users: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch users",
		})
	}

	for i := range users {
		users[i].Password = ""
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Users retrieved successfully",
		Data: map[string]interface{}{
			"users": users,
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// CreateUser lets an admin create a member account directly
func (ac *AdminController) CreateUser(c echo.Context) error {
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

	ctx := c.Request().Context()
	if _, err := ac.Users.GetByEmail(ctx, email); err == nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Email is already registered",
		})
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
		ReferralCode:   referralCode,
		Rank:           models.RankNone,
		LastActivityAt: time.Now(),
	}

	if err := ac.Users.Create(ctx, &user); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create user",
		})
	}

	user.Password = ""
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "User created successfully",
		Data:    user,
	})
}

// DeleteUser removes a member account
func (ac *AdminController) DeleteUser(c echo.Context) error {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	if err := ac.Users.Delete(c.Request().Context(), userID); err != nil {
		if err == repositories.ErrNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "User not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete user",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User deleted successfully",
	})
}

// GetDashboardStats aggregates the admin dashboard figures
func (ac *AdminController) GetDashboardStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	stats := models.AdminDashboardStats{}

	totalUsers, err := ac.DB.Collection("users").CountDocuments(ctx, bson.M{"userType": "member"})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to count users",
		})
	}
	stats.TotalUsers = int(totalUsers)

	activeUsers, err := ac.DB.Collection("users").CountDocuments(ctx, bson.M{"userType": "member", "status": "active"})
	if err == nil {
		stats.ActiveUsers = int(activeUsers)
	}

	pendingWithdrawals, err := ac.DB.Collection("withdrawals").CountDocuments(ctx, bson.M{"status": models.WithdrawalStatusPending})
	if err == nil {
		stats.PendingWithdrawals = int(pendingWithdrawals)
	}

	openTickets, err := ac.DB.Collection("tickets").CountDocuments(ctx, bson.M{"status": bson.M{"$ne": models.TicketStatusClosed}})
	if err == nil {
		stats.OpenTickets = int(openTickets)
	}

	totalPlans, err := ac.DB.Collection("plans").CountDocuments(ctx, bson.M{})
	if err == nil {
		stats.TotalPlans = int(totalPlans)
	}

	cursor, err := ac.DB.Collection("users").Aggregate(ctx, []bson.M{
		{"$match": bson.M{"userType": "member"}},
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$teamBusiness"}}},
	})
	if err == nil {
		var results []struct {
			Total float64 `bson:"total"`
		}
		if err := cursor.All(ctx, &results); err == nil && len(results) > 0 {
			stats.TotalTeamBusiness = results[0].Total
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Dashboard stats retrieved successfully",
		Data:    stats,
	})
}
