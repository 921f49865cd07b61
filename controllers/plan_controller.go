package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/globerise/globerise_backend/models"
)

// PlanController manages investment plans
type PlanController struct {
	DB *mongo.Database
}

func NewPlanController(db *mongo.Database) *PlanController {
	return &PlanController{DB: db}
}

// CreatePlan adds a new investment plan
func (pc *PlanController) CreatePlan(c echo.Context) error {
	var plan models.InvestmentPlan
	if err := c.Bind(&plan); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&plan); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	now := time.Now()
	plan.ID = primitive.NilObjectID
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := pc.DB.Collection("plans").InsertOne(ctx, plan)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create plan",
		})
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		plan.ID = oid
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Plan created successfully",
		Data:    plan,
	})
}

// GetPlans lists plans; members only see active ones
func (pc *PlanController) GetPlans(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if c.QueryParam("active") == "true" {
		filter["isActive"] = true
	}

	cursor, err := pc.DB.Collection("plans").Find(ctx, filter, options.Find().SetSort(bson.M{"minAmount": 1}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch plans",
		})
	}

	var plans []models.InvestmentPlan
	if err := cursor.All(ctx, &plans); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode plans",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Plans retrieved successfully",
		Data:    plans,
	})
}

// GetPlan returns a single plan
func (pc *PlanController) GetPlan(c echo.Context) error {
	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid plan ID",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var plan models.InvestmentPlan
	err = pc.DB.Collection("plans").FindOne(ctx, bson.M{"_id": planID}).Decode(&plan)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Plan not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch plan",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Plan retrieved successfully",
		Data:    plan,
	})
}

// UpdatePlan replaces an existing plan's fields
func (pc *PlanController) UpdatePlan(c echo.Context) error {
	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid plan ID",
		})
	}

	var plan models.InvestmentPlan
	if err := c.Bind(&plan); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&plan); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":            plan.Name,
		"minAmount":       plan.MinAmount,
		"maxAmount":       plan.MaxAmount,
		"dailyRoiPercent": plan.DailyROIPercent,
		"durationDays":    plan.DurationDays,
		"isActive":        plan.IsActive,
		"updatedAt":       time.Now(),
	}}

	result, err := pc.DB.Collection("plans").UpdateOne(ctx, bson.M{"_id": planID}, update)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update plan",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Plan not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Plan updated successfully",
	})
}

// DeletePlan removes a plan
func (pc *PlanController) DeletePlan(c echo.Context) error {
	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid plan ID",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	result, err := pc.DB.Collection("plans").DeleteOne(ctx, bson.M{"_id": planID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete plan",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Plan not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Plan deleted successfully",
	})
}
