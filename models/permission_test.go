package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	grants := []PermissionEntry{
		{Feature: FeatureUsers, Access: AccessRead},
		{Feature: FeatureWithdrawals, Access: AccessEdit},
	}

	tests := []struct {
		name     string
		feature  Feature
		required AccessLevel
		want     bool
	}{
		{"read grant satisfies read", FeatureUsers, AccessRead, true},
		{"read grant denies edit", FeatureUsers, AccessEdit, false},
		{"edit grant satisfies edit", FeatureWithdrawals, AccessEdit, true},
		{"edit grant satisfies read", FeatureWithdrawals, AccessRead, true},
		{"ungranted feature denied", FeaturePlans, AccessRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasPermission(grants, tt.feature, tt.required))
		})
	}
}

func TestHasPermissionEmptySetDeniesEverything(t *testing.T) {
	for _, feature := range []Feature{FeatureUsers, FeatureDeposits, FeatureWithdrawals, FeaturePlans, FeatureRankings, FeatureSupport, FeatureReports} {
		assert.False(t, HasPermission(nil, feature, AccessRead))
		assert.False(t, HasPermission([]PermissionEntry{}, feature, AccessEdit))
	}
}

func TestDedupePermissionsKeepsMostRecent(t *testing.T) {
	entries := []PermissionEntry{
		{Feature: FeatureUsers, Access: AccessEdit},
		{Feature: FeaturePlans, Access: AccessRead},
		{Feature: FeatureUsers, Access: AccessRead},
	}

	deduped := DedupePermissions(entries)
	assert.Len(t, deduped, 2)
	assert.Contains(t, deduped, PermissionEntry{Feature: FeaturePlans, Access: AccessRead})
	assert.Contains(t, deduped, PermissionEntry{Feature: FeatureUsers, Access: AccessRead})

	// The later read entry downgrades the earlier edit grant.
	assert.False(t, HasPermission(entries, FeatureUsers, AccessEdit))
	assert.True(t, HasPermission(entries, FeatureUsers, AccessRead))
}

func TestDedupePermissionsEmpty(t *testing.T) {
	assert.Empty(t, DedupePermissions(nil))
}
