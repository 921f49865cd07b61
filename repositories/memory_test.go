package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globerise/globerise_backend/models"
)

func memberUser(username, country string) models.User {
	return models.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: username,
		UserType: "member",
		Status:   "active",
		Country:  country,
	}
}

func TestMemoryUserRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := memberUser("alice", "Canada")
	user.ReferralCode = "GRTESTCODE"
	require.NoError(t, repo.Create(ctx, &user))
	require.False(t, user.ID.IsZero())

	got, err := repo.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	got, err = repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	got, err = repo.GetByReferralCode(ctx, "GRTESTCODE")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	got.Country = "Germany"
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Germany", got.Country)

	require.NoError(t, repo.Delete(ctx, user.ID))
	_, err = repo.Get(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, user.ID), ErrNotFound)
}

func TestMemoryUserRepositoryListFiltersAndPaginates(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository(SeedDemoUsers(50)...)

	// Listing only ever returns members.
	admin := models.User{Username: "root", Email: "root@example.com", UserType: "super_admin"}
	require.NoError(t, repo.Create(ctx, &admin))

	all, total, err := repo.List(ctx, UserFilterCriteria{}, "", 1, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(50), total)
	assert.Len(t, all, 50)

	// Newest first.
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt))
	}

	// Pagination slices without changing the total.
	pageOne, total, err := repo.List(ctx, UserFilterCriteria{}, "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(50), total)
	assert.Len(t, pageOne, 20)

	pageThree, _, err := repo.List(ctx, UserFilterCriteria{}, "", 3, 20)
	require.NoError(t, err)
	assert.Len(t, pageThree, 10)

	pastEnd, total, err := repo.List(ctx, UserFilterCriteria{}, "", 9, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(50), total)
	assert.Empty(t, pastEnd)
}

func TestMemoryUserRepositoryListAppliesCriteriaAndSearch(t *testing.T) {
	ctx := context.Background()
	jan := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	seeded := []models.User{
		memberUser("farid_k", "Afghanistan"),
		memberUser("maria_s", "Brazil"),
		memberUser("jdoe", "Afghanistan"),
	}
	seeded[0].CreatedAt = jan
	seeded[1].CreatedAt = jan.AddDate(0, 0, 1)
	seeded[2].CreatedAt = jan.AddDate(0, 0, 2)
	repo := NewMemoryUserRepository(seeded...)

	criteria := UserFilterCriteria{Country: strPtr("Afghanistan")}
	matched, total, err := repo.List(ctx, criteria, "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, matched, 2)

	// Search narrows the filtered set, and the reported total reflects it.
	matched, total, err = repo.List(ctx, criteria, "farid", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, matched, 1)
	assert.Equal(t, "farid_k", matched[0].Username)
}

func TestSeedDemoUsersDeterministic(t *testing.T) {
	first := SeedDemoUsers(10)
	second := SeedDemoUsers(10)
	require.Len(t, first, 10)

	for i := range first {
		assert.Equal(t, first[i].Username, second[i].Username)
		assert.Equal(t, first[i].Country, second[i].Country)
		assert.Equal(t, first[i].TeamBusiness, second[i].TeamBusiness)
		assert.Equal(t, first[i].Rank, second[i].Rank)

		// The stored rank always agrees with the classifier.
		rank, err := models.ClassifyRank(first[i].TeamBusiness)
		require.NoError(t, err)
		assert.Equal(t, rank, first[i].Rank)
	}
}
