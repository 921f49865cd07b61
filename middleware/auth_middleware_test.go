package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/globerise/globerise_backend/models"
	"github.com/globerise/globerise_backend/repositories"
)

func invoke(mw echo.MiddlewareFunc, userID, userType string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set("userId", userID)
	}
	if userType != "" {
		c.Set("userType", userType)
	}

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	_ = handler(c)
	return rec
}

func TestRequireUserType(t *testing.T) {
	mw := RequireUserType("admin", "super_admin")

	assert.Equal(t, http.StatusOK, invoke(mw, "x", "admin").Code)
	assert.Equal(t, http.StatusOK, invoke(mw, "x", "super_admin").Code)
	assert.Equal(t, http.StatusForbidden, invoke(mw, "x", "member").Code)
	assert.Equal(t, http.StatusUnauthorized, invoke(mw, "x", "").Code)
}

func TestRequirePermission(t *testing.T) {
	admin := models.Admin{
		ID: primitive.NewObjectID(),
		Permissions: []models.PermissionEntry{
			{Feature: models.FeatureUsers, Access: models.AccessRead},
			{Feature: models.FeatureWithdrawals, Access: models.AccessEdit},
		},
	}
	repo := repositories.NewMemoryAdminRepository(admin)
	adminID := admin.ID.Hex()

	tests := []struct {
		name     string
		feature  models.Feature
		access   models.AccessLevel
		userID   string
		userType string
		want     int
	}{
		{"read grant allows read", models.FeatureUsers, models.AccessRead, adminID, "admin", http.StatusOK},
		{"read grant denies edit", models.FeatureUsers, models.AccessEdit, adminID, "admin", http.StatusForbidden},
		{"edit grant allows read", models.FeatureWithdrawals, models.AccessRead, adminID, "admin", http.StatusOK},
		{"ungranted feature denied", models.FeaturePlans, models.AccessRead, adminID, "admin", http.StatusForbidden},
		{"super admin bypasses", models.FeaturePlans, models.AccessEdit, adminID, "super_admin", http.StatusOK},
		{"empty feature passes through", "", models.AccessRead, adminID, "admin", http.StatusOK},
		{"unknown admin denied", models.FeatureUsers, models.AccessRead, primitive.NewObjectID().Hex(), "admin", http.StatusForbidden},
		{"malformed admin id", models.FeatureUsers, models.AccessRead, "not-an-oid", "admin", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := RequirePermission(repo, tt.feature, tt.access)
			rec := invoke(mw, tt.userID, tt.userType)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequirePermissionUsesLatestGrant(t *testing.T) {
	// Permissions are deduped to the most recent entry per feature, so a
	// later read grant downgrades an earlier edit grant.
	admin := models.Admin{
		ID: primitive.NewObjectID(),
		Permissions: []models.PermissionEntry{
			{Feature: models.FeatureUsers, Access: models.AccessEdit},
			{Feature: models.FeatureUsers, Access: models.AccessRead},
		},
	}
	repo := repositories.NewMemoryAdminRepository(admin)

	require.Equal(t, http.StatusOK, invoke(RequirePermission(repo, models.FeatureUsers, models.AccessRead), admin.ID.Hex(), "admin").Code)
	assert.Equal(t, http.StatusForbidden, invoke(RequirePermission(repo, models.FeatureUsers, models.AccessEdit), admin.ID.Hex(), "admin").Code)
}
