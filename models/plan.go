package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InvestmentPlan defines an admin-managed investment product
type InvestmentPlan struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name            string             `json:"name" bson:"name" validate:"required"`
	MinAmount       float64            `json:"minAmount" bson:"minAmount" validate:"required,gt=0"`
	MaxAmount       float64            `json:"maxAmount" bson:"maxAmount" validate:"required,gtefield=MinAmount"`
	DailyROIPercent float64            `json:"dailyRoiPercent" bson:"dailyRoiPercent" validate:"required,gt=0"`
	DurationDays    int                `json:"durationDays" bson:"durationDays" validate:"required,gt=0"`
	IsActive        bool               `json:"isActive" bson:"isActive"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}
