package controllers

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"log"
	"net/http"
	"os"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/globerise/globerise_backend/middleware"
	"github.com/globerise/globerise_backend/models"
	"github.com/globerise/globerise_backend/repositories"
)

// ReferralController handles referral links, codes and QR rendering
type ReferralController struct {
	Users repositories.UserRepository
}

func NewReferralController(users repositories.UserRepository) *ReferralController {
	return &ReferralController{Users: users}
}

// ApplyReferral links the authenticated member under the owner of the given
// referral code and credits the referrer
func (rc *ReferralController) ApplyReferral(c echo.Context) error {
	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	var req models.ReferralRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request format",
		})
	}

	if req.ReferralCode == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Referral code is required",
		})
	}

	userObjID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	ctx := c.Request().Context()

	user, err := rc.Users.Get(ctx, userObjID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	if user.LeaderID != nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "A referral has already been applied to this account",
		})
	}

	referrer, err := rc.Users.GetByReferralCode(ctx, req.ReferralCode)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Referral code not found",
		})
	}

	if referrer.ID == user.ID {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "You cannot refer yourself",
		})
	}

	const pointsPerReferral = 10

	user.LeaderID = &referrer.ID
	if err := rc.Users.Update(ctx, user); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to apply referral",
		})
	}

	referrer.Referrals = append(referrer.Referrals, user.ID)
	referrer.Points += pointsPerReferral
	if err := rc.Users.Update(ctx, referrer); err != nil {
		log.Printf("Failed to credit referrer %s: %v", referrer.ID.Hex(), err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Referral applied successfully",
		Data: models.ReferralResponse{
			ReferrerID:  referrer.ID,
			PointsAdded: pointsPerReferral,
		},
	})
}

// GetReferralData returns the member's code, link and referral count
func (rc *ReferralController) GetReferralData(c echo.Context) error {
	userObjID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid user ID",
		})
	}

	user, err := rc.Users.Get(c.Request().Context(), userObjID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Referral data retrieved successfully",
		Data: map[string]interface{}{
			"referralCode":  user.ReferralCode,
			"referralLink":  referralLink(user.ReferralCode),
			"referralCount": len(user.Referrals),
			"points":        user.Points,
		},
	})
}

// GetReferralQRCode renders the member's referral link as a QR code
func (rc *ReferralController) GetReferralQRCode(c echo.Context) error {
	userObjID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid user ID",
		})
	}

	user, err := rc.Users.Get(c.Request().Context(), userObjID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	if user.ReferralCode == "" {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "No referral code assigned to this account",
		})
	}

	qrDataURI, err := generateReferralQRCode(user.ReferralCode)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate QR code",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "QR code generated successfully",
		Data: map[string]interface{}{
			"referralCode": user.ReferralCode,
			"qrCode":       qrDataURI,
		},
	})
}

func referralLink(code string) string {
	baseURL := os.Getenv("REFERRAL_BASE_URL")
	if baseURL == "" {
		baseURL = "https://globerise.com/referral"
	}
	return fmt.Sprintf("%s?code=%s", baseURL, code)
}

func generateReferralQRCode(referralCode string) (string, error) {
	qrCode, err := qr.Encode(referralLink(referralCode), qr.M, qr.Auto)
	if err != nil {
		return "", err
	}

	qrCode, err = barcode.Scale(qrCode, 300, 300)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qrCode); err != nil {
		return "", err
	}

	base64QR := base64.StdEncoding.EncodeToString(buf.Bytes())
	return "data:image/png;base64," + base64QR, nil
}
