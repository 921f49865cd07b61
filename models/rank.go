package models

import (
	"errors"
	"math"
)

// Rank represents a leadership tier derived from accumulated team business
type Rank string

const (
	RankNone       Rank = "NONE"
	RankExplorer   Rank = "EXPLORER"
	RankPathfinder Rank = "PATHFINDER"
	RankVanguard   Rank = "VANGUARD"
	RankLuminary   Rank = "LUMINARY"
	RankTitan      Rank = "TITAN"
	RankSovereign  Rank = "SOVEREIGN"
	RankImperator  Rank = "IMPERATOR"
)

// RankTier maps a rank to the team business required to reach it and the
// one-time bonus credited when it is first reached
type RankTier struct {
	Rank         Rank    `json:"rank" bson:"rank"`
	TeamBusiness float64 `json:"teamBusiness" bson:"teamBusiness"`
	OneTimeBonus float64 `json:"oneTimeBonus" bson:"oneTimeBonus"`
}

// rankTiers is the single authoritative threshold table, ordered by ascending
// team business requirement. Thresholds must strictly increase.
var rankTiers = []RankTier{
	{Rank: RankExplorer, TeamBusiness: 1000, OneTimeBonus: 50},
	{Rank: RankPathfinder, TeamBusiness: 5000, OneTimeBonus: 250},
	{Rank: RankVanguard, TeamBusiness: 15000, OneTimeBonus: 750},
	{Rank: RankLuminary, TeamBusiness: 50000, OneTimeBonus: 2500},
	{Rank: RankTitan, TeamBusiness: 150000, OneTimeBonus: 7500},
	{Rank: RankSovereign, TeamBusiness: 500000, OneTimeBonus: 25000},
	{Rank: RankImperator, TeamBusiness: 1500000, OneTimeBonus: 100000},
}

// ErrInvalidBusinessVolume is returned when a caller passes a negative or NaN
// team business value to the classifier
var ErrInvalidBusinessVolume = errors.New("team business must be a non-negative number")

// RankTiers returns a copy of the ordered threshold table
func RankTiers() []RankTier {
	tiers := make([]RankTier, len(rankTiers))
	copy(tiers, rankTiers)
	return tiers
}

// TierFor returns the tier definition for a rank, or false for NONE and
// unknown ranks
func TierFor(rank Rank) (RankTier, bool) {
	for _, tier := range rankTiers {
		if tier.Rank == rank {
			return tier, true
		}
	}
	return RankTier{}, false
}

// ClassifyRank returns the highest rank whose threshold is less than or equal
// to the given team business. Reaching a threshold exactly counts as holding
// that rank. Values below the lowest threshold classify as NONE.
func ClassifyRank(teamBusiness float64) (Rank, error) {
	if math.IsNaN(teamBusiness) || teamBusiness < 0 {
		return RankNone, ErrInvalidBusinessVolume
	}

	for i := len(rankTiers) - 1; i >= 0; i-- {
		if teamBusiness >= rankTiers[i].TeamBusiness {
			return rankTiers[i].Rank, nil
		}
	}
	return RankNone, nil
}

// RankProgress describes how far a user has advanced from their current rank
// toward the next one
type RankProgress struct {
	Current      Rank    `json:"current"`
	Next         Rank    `json:"next,omitempty"`
	NextRequired float64 `json:"nextRequired,omitempty"`
	Progress     float64 `json:"progress"`
}

// ProgressToNextRank computes the fraction of the gap between the current and
// next rank thresholds covered by the given team business. At the top rank
// progress is 1 and there is no next rank.
func ProgressToNextRank(teamBusiness float64) (RankProgress, error) {
	current, err := ClassifyRank(teamBusiness)
	if err != nil {
		return RankProgress{}, err
	}

	currentIdx := -1
	for i, tier := range rankTiers {
		if tier.Rank == current {
			currentIdx = i
			break
		}
	}

	// Top rank is terminal
	if currentIdx == len(rankTiers)-1 {
		return RankProgress{Current: current, Progress: 1}, nil
	}

	next := rankTiers[currentIdx+1]
	var floor float64
	if currentIdx >= 0 {
		floor = rankTiers[currentIdx].TeamBusiness
	}

	progress := (teamBusiness - floor) / (next.TeamBusiness - floor)
	progress = math.Max(0, math.Min(1, progress))

	return RankProgress{
		Current:      current,
		Next:         next.Rank,
		NextRequired: next.TeamBusiness,
		Progress:     progress,
	}, nil
}
