package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/globerise/globerise_backend/middleware"
	"github.com/globerise/globerise_backend/models"
	"github.com/globerise/globerise_backend/repositories"
	"github.com/globerise/globerise_backend/utils"
	"github.com/globerise/globerise_backend/websocket"
)

// RankingController exposes rank classification and progress endpoints
type RankingController struct {
	DB    *mongo.Database
	Users repositories.UserRepository
	Hub   *websocket.Hub
}

func NewRankingController(db *mongo.Database, users repositories.UserRepository, hub *websocket.Hub) *RankingController {
	return &RankingController{DB: db, Users: users, Hub: hub}
}

// GetMyRank classifies the member from their accumulated team business and
// reports progress toward the next rank
func (rc *RankingController) GetMyRank(c echo.Context) error {
	userID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid user ID",
		})
	}

	ctx := c.Request().Context()

	user, err := rc.Users.Get(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	teamBusiness := user.TeamBusiness

	// Prefer the stats document when present; legacy records store the
	// figure as a string
	var stats models.DashboardStats
	err = rc.DB.Collection("users").FindOne(ctx, bson.M{"_id": userID},
		options.FindOne().SetProjection(bson.M{"rank": 1, "teamBusiness": 1})).Decode(&stats)
	if err == nil && stats.TeamBusiness != nil {
		if parsed, parseErr := utils.ParseBusinessVolume(stats.TeamBusiness); parseErr == nil {
			teamBusiness = parsed
		}
	}

	progress, err := models.ProgressToNextRank(teamBusiness)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	// Keep the stored rank in sync with the derived one
	if user.Rank != progress.Current {
		user.Rank = progress.Current
		if err := rc.Users.Update(ctx, user); err != nil {
			log.Printf("Failed to refresh rank for %s: %v", userID.Hex(), err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Rank retrieved successfully",
		Data: map[string]interface{}{
			"teamBusiness": teamBusiness,
			"rank":         progress.Current,
			"next":         progress.Next,
			"nextRequired": progress.NextRequired,
			"progress":     progress.Progress,
			"tiers":        models.RankTiers(),
		},
	})
}

// GetRankTiers returns the threshold table for progress rendering
func (rc *RankingController) GetRankTiers(c echo.Context) error {
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Rank tiers retrieved successfully",
		Data:    models.RankTiers(),
	})
}

// GetRankings lists members ordered by team business for the admin rankings
// screen
func (rc *RankingController) GetRankings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	cursor, err := rc.DB.Collection("users").Find(ctx,
		bson.M{"userType": "member"},
		options.Find().SetSort(bson.M{"teamBusiness": -1}).SetLimit(100),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch rankings",
		})
	}

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode rankings",
		})
	}

	for i := range users {
		users[i].Password = ""
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Rankings retrieved successfully",
		Data:    users,
	})
}

// AwardRankBonus credits the one-time bonus for a rank the member has
// reached. The award is idempotent per user and rank.
func (rc *RankingController) AwardRankBonus(c echo.Context) error {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	ctx := c.Request().Context()

	user, err := rc.Users.Get(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	rank, err := models.ClassifyRank(user.TeamBusiness)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	tier, ok := models.TierFor(rank)
	if !ok {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "User has not reached a bonus rank yet",
		})
	}

	for _, awarded := range user.AwardedRankBonuses {
		if awarded == rank {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Bonus for this rank has already been awarded",
			})
		}
	}

	user.Rank = rank
	user.AwardedRankBonuses = append(user.AwardedRankBonuses, rank)
	user.WithdrawalWallet += tier.OneTimeBonus

	if err := rc.Users.Update(ctx, user); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to award bonus",
		})
	}

	if err := rc.Hub.SendToUser(user.ID, websocket.Notification{
		Type:    websocket.NotificationTypeRankAchieved,
		Message: "Congratulations on reaching " + string(rank),
		Data:    tier,
	}); err != nil {
		log.Printf("User %s not connected for rank notification", user.ID.Hex())
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Rank bonus awarded successfully",
		Data: map[string]interface{}{
			"rank":  rank,
			"bonus": tier.OneTimeBonus,
		},
	})
}
