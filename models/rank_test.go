package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyRank(t *testing.T) {
	tests := []struct {
		name         string
		teamBusiness float64
		want         Rank
	}{
		{"zero volume", 0, RankNone},
		{"just below first threshold", 999.99, RankNone},
		{"exactly first threshold", 1000, RankExplorer},
		{"between tiers", 4999.99, RankExplorer},
		{"exactly pathfinder", 5000, RankPathfinder},
		{"exactly vanguard", 15000, RankVanguard},
		{"exactly luminary", 50000, RankLuminary},
		{"exactly titan", 150000, RankTitan},
		{"exactly sovereign", 500000, RankSovereign},
		{"exactly imperator", 1500000, RankImperator},
		{"far above top tier", 99999999, RankImperator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClassifyRank(tt.teamBusiness)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyRankInvalidVolume(t *testing.T) {
	_, err := ClassifyRank(-1)
	assert.ErrorIs(t, err, ErrInvalidBusinessVolume)

	_, err = ClassifyRank(math.NaN())
	assert.ErrorIs(t, err, ErrInvalidBusinessVolume)
}

func TestClassifyRankBoundariesMatchTiers(t *testing.T) {
	// Every tier threshold must classify into its own rank.
	for _, tier := range RankTiers() {
		got, err := ClassifyRank(tier.TeamBusiness)
		require.NoError(t, err)
		assert.Equal(t, tier.Rank, got, "threshold %.2f", tier.TeamBusiness)
	}
}

func TestClassifyRankMonotonic(t *testing.T) {
	volumes := []float64{0, 500, 1000, 3000, 5000, 10000, 15000, 40000, 50000, 100000, 150000, 400000, 500000, 1000000, 1500000, 2000000}
	prev := -1
	for _, v := range volumes {
		got, err := ClassifyRank(v)
		require.NoError(t, err)
		idx := rankIndex(got)
		assert.GreaterOrEqual(t, idx, prev, "rank must not decrease as volume grows (volume %.0f)", v)
		prev = idx
	}
}

func rankIndex(r Rank) int {
	if r == RankNone {
		return 0
	}
	for i, tier := range RankTiers() {
		if tier.Rank == r {
			return i + 1
		}
	}
	return -1
}

func TestProgressToNextRank(t *testing.T) {
	p, err := ProgressToNextRank(0)
	require.NoError(t, err)
	assert.Equal(t, RankNone, p.Current)
	assert.Equal(t, RankExplorer, p.Next)
	assert.Equal(t, 0.0, p.Progress)

	p, err = ProgressToNextRank(500)
	require.NoError(t, err)
	assert.Equal(t, RankNone, p.Current)
	assert.InDelta(t, 0.5, p.Progress, 1e-9)

	p, err = ProgressToNextRank(3000)
	require.NoError(t, err)
	assert.Equal(t, RankExplorer, p.Current)
	assert.Equal(t, RankPathfinder, p.Next)
	assert.InDelta(t, 0.5, p.Progress, 1e-9)
}

func TestProgressToNextRankTopTier(t *testing.T) {
	p, err := ProgressToNextRank(2500000)
	require.NoError(t, err)
	assert.Equal(t, RankImperator, p.Current)
	assert.Equal(t, Rank(""), p.Next)
	assert.Equal(t, 1.0, p.Progress)
}

func TestTierFor(t *testing.T) {
	tier, ok := TierFor(RankVanguard)
	require.True(t, ok)
	assert.Equal(t, 15000.0, tier.TeamBusiness)
	assert.Equal(t, 750.0, tier.OneTimeBonus)

	_, ok = TierFor(RankNone)
	assert.False(t, ok)

	_, ok = TierFor(Rank("bogus"))
	assert.False(t, ok)
}
