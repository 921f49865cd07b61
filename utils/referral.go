package utils

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// ReferralType represents the type of entity for which a referral code is being generated
type ReferralType string

const (
	MemberType ReferralType = "GR"
	LeaderType ReferralType = "GRL"
)

// GenerateReferralCode generates a unique referral code for the specified entity type
// Format: {TYPE}-{RANDOM} where RANDOM is 6 alphanumeric characters
// Example: GR-ABC123, GRL-XYZ789
func GenerateReferralCode(entityType ReferralType) (string, error) {
	// 4 random bytes give 6 characters in base32
	randomBytes := make([]byte, 4)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return "", err
	}

	randomStr := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	randomStr = randomStr[:6]

	randomStr = strings.ToUpper(randomStr)
	randomStr = strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, randomStr)

	if len(randomStr) < 6 {
		randomStr = randomStr + strings.Repeat("0", 6-len(randomStr))
	}

	return string(entityType) + "-" + randomStr, nil
}

// GenerateMemberReferralCode generates a referral code for a regular member
func GenerateMemberReferralCode() (string, error) {
	return GenerateReferralCode(MemberType)
}

// GenerateLeaderReferralCode generates a referral code for a team leader
func GenerateLeaderReferralCode() (string, error) {
	return GenerateReferralCode(LeaderType)
}
