package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Admin struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email       string             `json:"email" bson:"email"`
	Password    string             `json:"password,omitempty" bson:"password"`
	FullName    string             `json:"fullName" bson:"fullName"`
	UserType    string             `json:"userType" bson:"userType"` // "admin" or "super_admin"
	Permissions []PermissionEntry  `json:"permissions" bson:"permissions"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// AdminDashboardStats represents statistics for the admin dashboard
type AdminDashboardStats struct {
	TotalUsers         int     `json:"totalUsers"`
	ActiveUsers        int     `json:"activeUsers"`
	TotalTeamBusiness  float64 `json:"totalTeamBusiness"`
	PendingWithdrawals int     `json:"pendingWithdrawals"`
	OpenTickets        int     `json:"openTickets"`
	TotalPlans         int     `json:"totalPlans"`
}

// CreateAdminRequest is the payload for super-admin admin creation
type CreateAdminRequest struct {
	Email       string            `json:"email" validate:"required,email"`
	Password    string            `json:"password" validate:"required,min=8"`
	FullName    string            `json:"fullName" validate:"required"`
	Permissions []PermissionEntry `json:"permissions"`
}
