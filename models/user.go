package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User model
type User struct {
	ID                   primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Username             string               `json:"username" bson:"username"`
	Email                string               `json:"email" bson:"email"`
	Password             string               `json:"password,omitempty" bson:"password"`
	FullName             string               `json:"fullName" bson:"fullName"`
	UserType             string               `json:"userType" bson:"userType"` // "member", "admin", "super_admin"
	Status               string               `json:"status" bson:"status"`     // "active", "banned", "pending"
	Country              string               `json:"country,omitempty" bson:"country,omitempty"`
	Phone                string               `json:"phone,omitempty" bson:"phone,omitempty"`
	EmailVerified        bool                 `json:"emailVerified" bson:"emailVerified"`
	PhoneVerified        bool                 `json:"phoneVerified" bson:"phoneVerified"`
	LeaderID             *primitive.ObjectID  `json:"leaderId,omitempty" bson:"leaderId,omitempty"`
	ReferralCode         string               `json:"referralCode,omitempty" bson:"referralCode,omitempty"`
	Referrals            []primitive.ObjectID `json:"referrals,omitempty" bson:"referrals,omitempty"`
	Points               int                  `json:"points" bson:"points"`
	DepositWallet        float64              `json:"depositWallet" bson:"depositWallet"`
	WithdrawalWallet     float64              `json:"withdrawalWallet" bson:"withdrawalWallet"`
	TeamBusiness         float64              `json:"teamBusiness" bson:"teamBusiness"`
	Rank                 Rank                 `json:"rank" bson:"rank"` // derived from TeamBusiness, refreshed on change
	AwardedRankBonuses   []Rank               `json:"awardedRankBonuses,omitempty" bson:"awardedRankBonuses,omitempty"`
	HasPendingWithdrawal bool                 `json:"hasPendingWithdrawal" bson:"hasPendingWithdrawal"`
	HasPendingInvestment bool                 `json:"hasPendingInvestment" bson:"hasPendingInvestment"`
	LastWithdrawalDate   *time.Time           `json:"lastWithdrawalDate,omitempty" bson:"lastWithdrawalDate,omitempty"`
	LastInvestmentDate   *time.Time           `json:"lastInvestmentDate,omitempty" bson:"lastInvestmentDate,omitempty"`
	OTPInfo              *OTPInfo             `json:"otpInfo,omitempty" bson:"otpInfo,omitempty"`
	LastActivityAt       time.Time            `json:"lastActivityAt" bson:"lastActivityAt"`
	CreatedAt            time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt" bson:"updatedAt"`
}

type OTPInfo struct {
	OTP       string    `json:"otp" bson:"otp"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expiresAt"`
}

type ReferralRequest struct {
	ReferralCode string `json:"referralCode"`
}

type ReferralResponse struct {
	ReferrerID  primitive.ObjectID `json:"referrerId"`
	PointsAdded int                `json:"pointsAdded"`
}

// DashboardStats is the per-member statistics document. TeamBusiness is
// interface{} because legacy records store it as a string.
type DashboardStats struct {
	Rank            string      `json:"rank" bson:"rank"`
	TeamBusiness    interface{} `json:"teamBusiness" bson:"teamBusiness"`
	DirectReferrals int         `json:"directReferrals" bson:"directReferrals"`
	TotalDeposits   float64     `json:"totalDeposits" bson:"totalDeposits"`
}
