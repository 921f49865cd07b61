package controllers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/globerise/globerise_backend/middleware"
	"github.com/globerise/globerise_backend/models"
	"github.com/globerise/globerise_backend/repositories"
	"github.com/globerise/globerise_backend/utils"
	"github.com/globerise/globerise_backend/websocket"
)

// WithdrawalController handles member withdrawal requests and their
// administrative processing
type WithdrawalController struct {
	Withdrawals repositories.WithdrawalRepository
	Users       repositories.UserRepository
	Hub         *websocket.Hub
}

func NewWithdrawalController(withdrawals repositories.WithdrawalRepository, users repositories.UserRepository, hub *websocket.Hub) *WithdrawalController {
	return &WithdrawalController{Withdrawals: withdrawals, Users: users, Hub: hub}
}

// GetWindowInfo tells the member whether withdrawals are open and quotes the
// fee for a prospective amount
func (wc *WithdrawalController) GetWindowInfo(c echo.Context) error {
	now := time.Now()
	feePercent := utils.WithdrawalFeePercent()

	info := map[string]interface{}{
		"open":          now.UTC().Weekday() == time.Monday,
		"daysUntilOpen": utils.DaysUntilNextWindow(now),
		"minAmount":     utils.MinWithdrawalAmount,
		"feePercent":    feePercent,
	}

	if raw := c.QueryParam("amount"); raw != "" {
		amount, err := utils.ParseFloat(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid amount",
			})
		}
		fee, net := utils.WithdrawalQuote(amount, feePercent)
		info["fee"] = fee
		info["netAmount"] = net
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Withdrawal window info retrieved successfully",
		Data:    info,
	})
}

// RequestWithdrawal creates a pending withdrawal after the window, minimum
// and balance checks pass
func (wc *WithdrawalController) RequestWithdrawal(c echo.Context) error {
	userID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid user ID",
		})
	}

	var req models.WithdrawalRequest
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

	user, err := wc.Users.Get(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	if err := utils.CanRequestWithdrawal(time.Now(), req.Amount, user.WithdrawalWallet); err != nil {
		message := err.Error()
		if err == utils.ErrOutsideWindow {
			days := utils.DaysUntilNextWindow(time.Now())
			message = fmt.Sprintf("%s (opens in %d day(s))", message, days)
		}
		return c.JSON(http.StatusUnprocessableEntity, models.Response{
			Status:  http.StatusUnprocessableEntity,
			Message: message,
		})
	}

	feePercent := utils.WithdrawalFeePercent()
	fee, net := utils.WithdrawalQuote(req.Amount, feePercent)

	withdrawal := models.Withdrawal{
		Reference: uuid.NewString(),
		UserID:    userID,
		Amount:    req.Amount,
		Fee:       fee,
		NetAmount: net,
		Status:    models.WithdrawalStatusPending,
	}

	if err := wc.Withdrawals.Create(ctx, &withdrawal); err != nil {
		log.Printf("Failed to create withdrawal: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create withdrawal request",
		})
	}

	user.HasPendingWithdrawal = true
	if err := wc.Users.Update(ctx, user); err != nil {
		log.Printf("Failed to flag pending withdrawal for %s: %v", userID.Hex(), err)
	}

	wc.Hub.NotifyWithdrawalRequest(withdrawal)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Withdrawal request submitted",
		Data:    withdrawal,
	})
}

// GetMyWithdrawals lists the authenticated member's withdrawal history
func (wc *WithdrawalController) GetMyWithdrawals(c echo.Context) error {
	userID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid user ID",
		})
	}

	withdrawals, err := wc.Withdrawals.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch withdrawal history",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Withdrawal history retrieved successfully",
		Data:    withdrawals,
	})
}

// GetPendingWithdrawals lists withdrawals waiting for admin action
func (wc *WithdrawalController) GetPendingWithdrawals(c echo.Context) error {
	withdrawals, err := wc.Withdrawals.ListByStatus(c.Request().Context(), models.WithdrawalStatusPending)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch pending withdrawals",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Pending withdrawals retrieved successfully",
		Data:    withdrawals,
	})
}

// ProcessWithdrawal approves or rejects a pending withdrawal
func (wc *WithdrawalController) ProcessWithdrawal(c echo.Context) error {
	withdrawalID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid withdrawal ID",
		})
	}

	var req struct {
		Approve         bool   `json:"approve"`
		AdminNote       string `json:"adminNote"`
		RejectionReason string `json:"rejectionReason"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	adminID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid admin ID",
		})
	}

	ctx := c.Request().Context()

	withdrawal, err := wc.Withdrawals.Get(ctx, withdrawalID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Withdrawal not found",
		})
	}

	if withdrawal.Status != models.WithdrawalStatusPending {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Withdrawal has already been processed",
		})
	}

	user, err := wc.Users.Get(ctx, withdrawal.UserID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Requesting user not found",
		})
	}

	now := time.Now()
	withdrawal.ProcessedAt = &now
	withdrawal.AdminID = &adminID
	withdrawal.AdminNote = req.AdminNote

	if req.Approve {
		if withdrawal.Amount > user.WithdrawalWallet {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "User balance no longer covers the withdrawal",
			})
		}
		withdrawal.Status = models.WithdrawalStatusApproved
		user.WithdrawalWallet -= withdrawal.Amount
		user.LastWithdrawalDate = &now
	} else {
		withdrawal.Status = models.WithdrawalStatusRejected
		withdrawal.RejectionReason = req.RejectionReason
	}

	if err := wc.Withdrawals.Update(ctx, withdrawal); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update withdrawal",
		})
	}

	user.HasPendingWithdrawal = false
	if err := wc.Users.Update(ctx, user); err != nil {
		log.Printf("Failed to update user %s after withdrawal processing: %v", user.ID.Hex(), err)
	}

	if err := wc.Hub.NotifyWithdrawalResult(user.ID, withdrawal); err != nil {
		log.Printf("User %s not connected for withdrawal notification", user.ID.Hex())
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Withdrawal processed successfully",
		Data:    withdrawal,
	})
}
