package repositories

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/globerise/globerise_backend/models"
)

// FilterAll is the sentinel value meaning "do not filter on this field"
const FilterAll = "all"

const filterDateLayout = "2006-01-02"

func errInvalidFilter(key, value string) error {
	return fmt.Errorf("invalid %s filter value %q", key, value)
}

// UserFilterCriteria constrains admin user listings. Nil fields (and string
// fields set to the "all" sentinel) are inactive; active fields narrow the
// result set with logical AND.
type UserFilterCriteria struct {
	Rank                   *string
	LeaderID               *string
	Status                 *string
	EmailVerified          *bool
	PhoneVerified          *bool
	HasPendingWithdrawal   *bool
	HasPendingInvestment   *bool
	Country                *string
	LastWithdrawalDateFrom *time.Time
	LastWithdrawalDateTo   *time.Time
	LastInvestmentDateFrom *time.Time
	LastInvestmentDateTo   *time.Time
	DateFrom               *time.Time
	DateTo                 *time.Time
}

func activeString(field *string) bool {
	return field != nil && *field != "" && *field != FilterAll
}

// ToQuery serializes the criteria for the user listing endpoint. Inactive
// fields are omitted entirely, never sent empty.
func (f UserFilterCriteria) ToQuery(page, limit int) url.Values {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	if activeString(f.Rank) {
		query.Set("rank", *f.Rank)
	}
	if activeString(f.LeaderID) {
		query.Set("leaderId", *f.LeaderID)
	}
	if activeString(f.Status) {
		query.Set("status", *f.Status)
	}
	if f.EmailVerified != nil {
		query.Set("emailVerified", strconv.FormatBool(*f.EmailVerified))
	}
	if f.PhoneVerified != nil {
		query.Set("phoneVerified", strconv.FormatBool(*f.PhoneVerified))
	}
	if f.HasPendingWithdrawal != nil {
		query.Set("hasPendingWithdrawal", strconv.FormatBool(*f.HasPendingWithdrawal))
	}
	if f.HasPendingInvestment != nil {
		query.Set("hasPendingInvestment", strconv.FormatBool(*f.HasPendingInvestment))
	}
	if activeString(f.Country) {
		query.Set("country", *f.Country)
	}
	if f.LastWithdrawalDateFrom != nil {
		query.Set("lastWithdrawalDateFrom", f.LastWithdrawalDateFrom.Format(filterDateLayout))
	}
	if f.LastWithdrawalDateTo != nil {
		query.Set("lastWithdrawalDateTo", f.LastWithdrawalDateTo.Format(filterDateLayout))
	}
	if f.LastInvestmentDateFrom != nil {
		query.Set("lastInvestmentDateFrom", f.LastInvestmentDateFrom.Format(filterDateLayout))
	}
	if f.LastInvestmentDateTo != nil {
		query.Set("lastInvestmentDateTo", f.LastInvestmentDateTo.Format(filterDateLayout))
	}
	if f.DateFrom != nil {
		query.Set("dateFrom", f.DateFrom.Format(filterDateLayout))
	}
	if f.DateTo != nil {
		query.Set("dateTo", f.DateTo.Format(filterDateLayout))
	}

	return query
}

// ParseUserFilter reconstructs filter criteria plus pagination from a query
// string. It is the inverse of ToQuery: only present keys become active
// fields.
func ParseUserFilter(query url.Values) (UserFilterCriteria, int, int, error) {
	var criteria UserFilterCriteria

	page := 1
	if raw := query.Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return criteria, 0, 0, errInvalidFilter("page", raw)
		}
		page = parsed
	}

	limit := 20
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return criteria, 0, 0, errInvalidFilter("limit", raw)
		}
		limit = parsed
	}

	for _, key := range []string{"rank", "leaderId", "status", "country"} {
		raw := query.Get(key)
		if raw == "" || raw == FilterAll {
			continue
		}
		value := raw
		switch key {
		case "rank":
			criteria.Rank = &value
		case "leaderId":
			criteria.LeaderID = &value
		case "status":
			criteria.Status = &value
		case "country":
			criteria.Country = &value
		}
	}

	boolFields := map[string]**bool{
		"emailVerified":        &criteria.EmailVerified,
		"phoneVerified":        &criteria.PhoneVerified,
		"hasPendingWithdrawal": &criteria.HasPendingWithdrawal,
		"hasPendingInvestment": &criteria.HasPendingInvestment,
	}
	for key, target := range boolFields {
		raw := query.Get(key)
		if raw == "" {
			continue
		}
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return criteria, 0, 0, errInvalidFilter(key, raw)
		}
		*target = &parsed
	}

	dateFields := map[string]**time.Time{
		"lastWithdrawalDateFrom": &criteria.LastWithdrawalDateFrom,
		"lastWithdrawalDateTo":   &criteria.LastWithdrawalDateTo,
		"lastInvestmentDateFrom": &criteria.LastInvestmentDateFrom,
		"lastInvestmentDateTo":   &criteria.LastInvestmentDateTo,
		"dateFrom":               &criteria.DateFrom,
		"dateTo":                 &criteria.DateTo,
	}
	for key, target := range dateFields {
		raw := query.Get(key)
		if raw == "" {
			continue
		}
		parsed, err := time.ParseInLocation(filterDateLayout, raw, time.UTC)
		if err != nil {
			return criteria, 0, 0, errInvalidFilter(key, raw)
		}
		// "To" bounds are inclusive for the whole day
		if strings.HasSuffix(key, "To") {
			parsed = parsed.Add(24*time.Hour - time.Nanosecond)
		}
		*target = &parsed
	}

	return criteria, page, limit, nil
}

// ToBSON builds the MongoDB filter document equivalent to Apply
func (f UserFilterCriteria) ToBSON() bson.M {
	filter := bson.M{"userType": "member"}

	if activeString(f.Rank) {
		filter["rank"] = *f.Rank
	}
	if activeString(f.LeaderID) {
		if leaderID, err := primitive.ObjectIDFromHex(*f.LeaderID); err == nil {
			filter["leaderId"] = leaderID
		} else {
			filter["leaderId"] = *f.LeaderID
		}
	}
	if activeString(f.Status) {
		filter["status"] = *f.Status
	}
	if f.EmailVerified != nil {
		filter["emailVerified"] = *f.EmailVerified
	}
	if f.PhoneVerified != nil {
		filter["phoneVerified"] = *f.PhoneVerified
	}
	// Pending flags only narrow when the filter asks for true; an explicit
	// false is accepted but does not exclude anyone. Existing dashboards
	// depend on this, so keep it in lockstep with Apply.
	if f.HasPendingWithdrawal != nil && *f.HasPendingWithdrawal {
		filter["hasPendingWithdrawal"] = true
	}
	if f.HasPendingInvestment != nil && *f.HasPendingInvestment {
		filter["hasPendingInvestment"] = true
	}
	if activeString(f.Country) {
		filter["country"] = *f.Country
	}
	if rangeFilter := dateRange(f.LastWithdrawalDateFrom, f.LastWithdrawalDateTo); rangeFilter != nil {
		filter["lastWithdrawalDate"] = rangeFilter
	}
	if rangeFilter := dateRange(f.LastInvestmentDateFrom, f.LastInvestmentDateTo); rangeFilter != nil {
		filter["lastInvestmentDate"] = rangeFilter
	}
	if rangeFilter := dateRange(f.DateFrom, f.DateTo); rangeFilter != nil {
		filter["createdAt"] = rangeFilter
	}

	return filter
}

func dateRange(from, to *time.Time) bson.M {
	if from == nil && to == nil {
		return nil
	}
	rangeFilter := bson.M{}
	if from != nil {
		rangeFilter["$gte"] = *from
	}
	if to != nil {
		rangeFilter["$lte"] = *to
	}
	return rangeFilter
}

// Apply runs the same predicates as ToBSON over an in-memory snapshot. Used
// by the in-memory repository when the database is unavailable.
func (f UserFilterCriteria) Apply(users []models.User) []models.User {
	matched := make([]models.User, 0, len(users))
	for _, user := range users {
		if f.matches(user) {
			matched = append(matched, user)
		}
	}
	return matched
}

func (f UserFilterCriteria) matches(user models.User) bool {
	if activeString(f.Rank) && string(user.Rank) != *f.Rank {
		return false
	}
	if activeString(f.LeaderID) {
		if user.LeaderID == nil || user.LeaderID.Hex() != *f.LeaderID {
			return false
		}
	}
	if activeString(f.Status) && user.Status != *f.Status {
		return false
	}
	if f.EmailVerified != nil && user.EmailVerified != *f.EmailVerified {
		return false
	}
	if f.PhoneVerified != nil && user.PhoneVerified != *f.PhoneVerified {
		return false
	}
	if f.HasPendingWithdrawal != nil && *f.HasPendingWithdrawal && !user.HasPendingWithdrawal {
		return false
	}
	if f.HasPendingInvestment != nil && *f.HasPendingInvestment && !user.HasPendingInvestment {
		return false
	}
	if activeString(f.Country) && user.Country != *f.Country {
		return false
	}
	if !inRange(user.LastWithdrawalDate, f.LastWithdrawalDateFrom, f.LastWithdrawalDateTo) {
		return false
	}
	if !inRange(user.LastInvestmentDate, f.LastInvestmentDateFrom, f.LastInvestmentDateTo) {
		return false
	}
	createdAt := user.CreatedAt
	if !inRange(&createdAt, f.DateFrom, f.DateTo) {
		return false
	}
	return true
}

func inRange(value, from, to *time.Time) bool {
	if from == nil && to == nil {
		return true
	}
	if value == nil {
		return false
	}
	if from != nil && value.Before(*from) {
		return false
	}
	if to != nil && value.After(*to) {
		return false
	}
	return true
}

// ApplySearch filters users by a free-text term over username, email and
// full name. It runs as a separate stage after the structured filters so
// search stays independent of filter state.
func ApplySearch(users []models.User, term string) []models.User {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return users
	}

	matched := make([]models.User, 0, len(users))
	for _, user := range users {
		if strings.Contains(strings.ToLower(user.Username), term) ||
			strings.Contains(strings.ToLower(user.Email), term) ||
			strings.Contains(strings.ToLower(user.FullName), term) {
			matched = append(matched, user)
		}
	}
	return matched
}
