package models

// Feature identifies an admin capability area used as the unit of
// permission granting
type Feature string

const (
	FeatureUsers       Feature = "users"
	FeatureDeposits    Feature = "deposits"
	FeatureWithdrawals Feature = "withdrawals"
	FeaturePlans       Feature = "plans"
	FeatureRankings    Feature = "rankings"
	FeatureSupport     Feature = "support"
	FeatureReports     Feature = "reports"
)

// AccessLevel is the granted access on a feature. Edit access always
// satisfies a read check.
type AccessLevel string

const (
	AccessRead AccessLevel = "read"
	AccessEdit AccessLevel = "edit"
)

// PermissionEntry grants a single access level on a single feature
type PermissionEntry struct {
	Feature Feature     `json:"feature" bson:"feature"`
	Access  AccessLevel `json:"access" bson:"access"`
}

// DedupePermissions reduces a permission list to at most one entry per
// feature, keeping the most recent entry for each
func DedupePermissions(entries []PermissionEntry) []PermissionEntry {
	latest := make(map[Feature]int, len(entries))
	for i, entry := range entries {
		latest[entry.Feature] = i
	}

	deduped := make([]PermissionEntry, 0, len(latest))
	for i, entry := range entries {
		if latest[entry.Feature] == i {
			deduped = append(deduped, entry)
		}
	}
	return deduped
}

// HasPermission reports whether the permission set grants the required
// access on a feature. An edit entry satisfies any check on its feature;
// otherwise the entry must match the required access exactly. An empty set
// denies everything.
func HasPermission(entries []PermissionEntry, feature Feature, required AccessLevel) bool {
	for _, entry := range DedupePermissions(entries) {
		if entry.Feature != feature {
			continue
		}
		if entry.Access == AccessEdit || entry.Access == required {
			return true
		}
	}
	return false
}
