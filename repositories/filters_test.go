package repositories

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/globerise/globerise_backend/models"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func datePtr(t time.Time) *time.Time { return &t }

func TestToQueryOmitsInactiveFields(t *testing.T) {
	var criteria UserFilterCriteria
	query := criteria.ToQuery(1, 20)

	assert.Equal(t, "1", query.Get("page"))
	assert.Equal(t, "20", query.Get("limit"))
	assert.Len(t, query, 2, "empty criteria must only carry pagination")
}

func TestToQueryTreatsAllAsInactive(t *testing.T) {
	criteria := UserFilterCriteria{
		Rank:    strPtr(FilterAll),
		Status:  strPtr("active"),
		Country: strPtr(""),
	}
	query := criteria.ToQuery(1, 20)

	assert.False(t, query.Has("rank"))
	assert.False(t, query.Has("country"))
	assert.Equal(t, "active", query.Get("status"))
}

func TestToQueryIncludesFalseBooleans(t *testing.T) {
	// Boolean filters are active whenever set, including explicit false.
	criteria := UserFilterCriteria{
		EmailVerified:        boolPtr(false),
		HasPendingWithdrawal: boolPtr(true),
	}
	query := criteria.ToQuery(1, 20)

	assert.Equal(t, "false", query.Get("emailVerified"))
	assert.Equal(t, "true", query.Get("hasPendingWithdrawal"))
	assert.False(t, query.Has("phoneVerified"))
}

func TestParseUserFilterRoundTrip(t *testing.T) {
	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)
	criteria := UserFilterCriteria{
		Rank:          strPtr("EXPLORER"),
		Status:        strPtr("active"),
		Country:       strPtr("Afghanistan"),
		EmailVerified: boolPtr(true),
		PhoneVerified: boolPtr(false),
		DateFrom:      datePtr(from),
		DateTo:        datePtr(to),
	}

	parsed, page, limit, err := ParseUserFilter(criteria.ToQuery(3, 50))
	require.NoError(t, err)

	assert.Equal(t, 3, page)
	assert.Equal(t, 50, limit)
	assert.Equal(t, "EXPLORER", *parsed.Rank)
	assert.Equal(t, "active", *parsed.Status)
	assert.Equal(t, "Afghanistan", *parsed.Country)
	assert.True(t, *parsed.EmailVerified)
	assert.False(t, *parsed.PhoneVerified)
	assert.Nil(t, parsed.LeaderID)
	assert.Nil(t, parsed.HasPendingWithdrawal)

	assert.Equal(t, from, *parsed.DateFrom)
	// "To" bounds cover the whole named day.
	assert.Equal(t, to.Add(24*time.Hour-time.Nanosecond), *parsed.DateTo)

	// A second trip through ToQuery yields the same active key set.
	assert.Equal(t, criteria.ToQuery(3, 50), parsed.ToQuery(3, 50))
}

func TestParseUserFilterDefaults(t *testing.T) {
	criteria, page, limit, err := ParseUserFilter(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)
	assert.Equal(t, UserFilterCriteria{}, criteria)
}

func TestParseUserFilterRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad page", "page", "zero"},
		{"negative page", "page", "-1"},
		{"bad limit", "limit", "lots"},
		{"bad bool", "emailVerified", "yes please"},
		{"bad date", "dateFrom", "02/01/2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := url.Values{}
			query.Set(tt.key, tt.value)
			_, _, _, err := ParseUserFilter(query)
			assert.Error(t, err)
		})
	}
}

func testUsers() []models.User {
	leader := primitive.NewObjectID()
	jan10 := time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC)
	feb15 := time.Date(2025, 2, 15, 18, 0, 0, 0, time.UTC)

	return []models.User{
		{
			Username:             "farid_k",
			Email:                "farid@example.com",
			FullName:             "Farid Karimi",
			Country:              "Afghanistan",
			Status:               "active",
			Rank:                 models.RankExplorer,
			EmailVerified:        true,
			HasPendingWithdrawal: true,
			LeaderID:             &leader,
			CreatedAt:            jan10,
			LastWithdrawalDate:   &feb15,
		},
		{
			Username:      "maria_s",
			Email:         "maria@example.com",
			FullName:      "Maria Silva",
			Country:       "Brazil",
			Status:        "active",
			Rank:          models.RankVanguard,
			EmailVerified: true,
			CreatedAt:     feb15,
		},
		{
			Username:  "jdoe",
			Email:     "jdoe@example.com",
			FullName:  "John Doe",
			Country:   "Afghanistan",
			Status:    "banned",
			Rank:      models.RankNone,
			CreatedAt: jan10,
		},
	}
}

func TestApplyCombinesFiltersWithAnd(t *testing.T) {
	users := testUsers()

	criteria := UserFilterCriteria{
		Country: strPtr("Afghanistan"),
		Status:  strPtr("active"),
	}
	matched := criteria.Apply(users)
	require.Len(t, matched, 1)
	assert.Equal(t, "farid_k", matched[0].Username)
}

func TestApplyPendingWithdrawalAsymmetry(t *testing.T) {
	users := testUsers()

	// true narrows to users with a pending withdrawal.
	matched := UserFilterCriteria{HasPendingWithdrawal: boolPtr(true)}.Apply(users)
	require.Len(t, matched, 1)
	assert.Equal(t, "farid_k", matched[0].Username)

	// false is accepted but excludes nobody.
	matched = UserFilterCriteria{HasPendingWithdrawal: boolPtr(false)}.Apply(users)
	assert.Len(t, matched, len(users))
}

func TestApplyEmailVerifiedIsSymmetric(t *testing.T) {
	users := testUsers()

	matched := UserFilterCriteria{EmailVerified: boolPtr(false)}.Apply(users)
	require.Len(t, matched, 1)
	assert.Equal(t, "jdoe", matched[0].Username)
}

func TestApplyDateRangeInclusive(t *testing.T) {
	users := testUsers()

	// The range endpoints themselves must match.
	criteria := UserFilterCriteria{
		DateFrom: datePtr(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)),
		DateTo:   datePtr(time.Date(2025, 1, 10, 23, 59, 59, 999999999, time.UTC)),
	}
	matched := criteria.Apply(users)
	assert.Len(t, matched, 2)

	// A user with no withdrawal date never matches a withdrawal-date range.
	criteria = UserFilterCriteria{
		LastWithdrawalDateFrom: datePtr(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	matched = criteria.Apply(users)
	require.Len(t, matched, 1)
	assert.Equal(t, "farid_k", matched[0].Username)
}

func TestApplyLeaderFilter(t *testing.T) {
	users := testUsers()
	leaderHex := users[0].LeaderID.Hex()

	matched := UserFilterCriteria{LeaderID: strPtr(leaderHex)}.Apply(users)
	require.Len(t, matched, 1)
	assert.Equal(t, "farid_k", matched[0].Username)

	matched = UserFilterCriteria{LeaderID: strPtr(primitive.NewObjectID().Hex())}.Apply(users)
	assert.Empty(t, matched)
}

func TestApplySearchIsSeparateStage(t *testing.T) {
	users := testUsers()

	// Search applies after structured filters and matches any of the three
	// identity fields, case-insensitively.
	filtered := UserFilterCriteria{Country: strPtr("Afghanistan")}.Apply(users)
	require.Len(t, filtered, 2)

	matched := ApplySearch(filtered, "FARID")
	require.Len(t, matched, 1)
	assert.Equal(t, "farid_k", matched[0].Username)

	matched = ApplySearch(filtered, "example.com")
	assert.Len(t, matched, 2)

	matched = ApplySearch(filtered, "doe")
	require.Len(t, matched, 1)
	assert.Equal(t, "jdoe", matched[0].Username)

	// Blank search is a no-op.
	assert.Equal(t, filtered, ApplySearch(filtered, "   "))
}

func TestToBSONMatchesApplySemantics(t *testing.T) {
	criteria := UserFilterCriteria{
		Rank:                 strPtr("EXPLORER"),
		Status:               strPtr(FilterAll),
		HasPendingWithdrawal: boolPtr(false),
		EmailVerified:        boolPtr(false),
	}
	filter := criteria.ToBSON()

	assert.Equal(t, "member", filter["userType"])
	assert.Equal(t, "EXPLORER", filter["rank"])
	assert.NotContains(t, filter, "status")
	assert.NotContains(t, filter, "hasPendingWithdrawal")
	assert.Equal(t, false, filter["emailVerified"])
}
