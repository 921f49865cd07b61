package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^(GR|GRL)-[A-Z0-9]{6}$`)

func TestGenerateReferralCodeFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		member, err := GenerateMemberReferralCode()
		require.NoError(t, err)
		assert.Regexp(t, codePattern, member)
		assert.Equal(t, "GR-", member[:3])

		leader, err := GenerateLeaderReferralCode()
		require.NoError(t, err)
		assert.Regexp(t, codePattern, leader)
		assert.Equal(t, "GRL-", leader[:4])
	}
}

func TestGenerateReferralCodeUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := GenerateMemberReferralCode()
		require.NoError(t, err)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

func TestParseFloat(t *testing.T) {
	value, err := ParseFloat("")
	require.NoError(t, err)
	assert.Equal(t, 0.0, value)

	value, err = ParseFloat("1234.56")
	require.NoError(t, err)
	assert.Equal(t, 1234.56, value)

	_, err = ParseFloat("not a number")
	assert.Error(t, err)
}

func TestParseBusinessVolume(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want float64
	}{
		{"nil", nil, 0},
		{"float64", 1500.5, 1500.5},
		{"int32", int32(200), 200},
		{"int64", int64(300), 300},
		{"numeric string", "4500.25", 4500.25},
		{"empty string", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBusinessVolume(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseBusinessVolume([]string{"nope"})
	assert.Error(t, err)
}
