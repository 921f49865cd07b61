package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	WithdrawalStatusPending  = "pending"
	WithdrawalStatusApproved = "approved"
	WithdrawalStatusRejected = "rejected"
)

type Withdrawal struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Reference       string              `bson:"reference" json:"reference"`
	UserID          primitive.ObjectID  `bson:"userId" json:"userId"`
	Amount          float64             `bson:"amount" json:"amount"`
	Fee             float64             `bson:"fee" json:"fee"`
	NetAmount       float64             `bson:"netAmount" json:"netAmount"`
	Status          string              `bson:"status" json:"status"` // "pending", "approved", "rejected"
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	ProcessedAt     *time.Time          `bson:"processedAt,omitempty" json:"processedAt,omitempty"`
	AdminID         *primitive.ObjectID `bson:"adminId,omitempty" json:"adminId,omitempty"`
	AdminNote       string              `bson:"adminNote,omitempty" json:"adminNote,omitempty"`
	RejectionReason string              `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
}

// WithdrawalRequest is the member-facing payload for a new withdrawal
type WithdrawalRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}
