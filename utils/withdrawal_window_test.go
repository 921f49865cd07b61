package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 2025-01-06 is a Monday.
var (
	monday   = time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)
	tuesday  = monday.AddDate(0, 0, 1)
	saturday = monday.AddDate(0, 0, 5)
	sunday   = monday.AddDate(0, 0, 6)
)

func TestCanRequestWithdrawal(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		amount  float64
		balance float64
		wantErr error
	}{
		{"valid request on monday", monday, 50, 100, nil},
		{"exactly minimum amount", monday, 10.00, 100, nil},
		{"amount equals balance", monday, 100, 100, nil},
		{"tuesday rejected", tuesday, 50, 100, ErrOutsideWindow},
		{"sunday rejected", sunday, 50, 100, ErrOutsideWindow},
		{"below minimum", monday, 9.99, 100, ErrBelowMinimum},
		{"exceeds balance", monday, 100.01, 100, ErrInsufficientBalance},
		{"window checked before amount", tuesday, 5, 100, ErrOutsideWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanRequestWithdrawal(tt.now, tt.amount, tt.balance)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCanRequestWithdrawalUsesUTCWeekday(t *testing.T) {
	// Monday 01:00 in UTC+3 is still Sunday in UTC.
	loc := time.FixedZone("UTC+3", 3*3600)
	early := time.Date(2025, 1, 6, 1, 0, 0, 0, loc)
	assert.ErrorIs(t, CanRequestWithdrawal(early, 50, 100), ErrOutsideWindow)
}

func TestWithdrawalQuote(t *testing.T) {
	fee, net := WithdrawalQuote(100, 10)
	assert.Equal(t, 10.0, fee)
	assert.Equal(t, 90.0, net)

	fee, net = WithdrawalQuote(33.50, 10)
	assert.InDelta(t, 3.35, fee, 1e-9)
	assert.InDelta(t, 30.15, net, 1e-9)

	fee, net = WithdrawalQuote(100, 0)
	assert.Equal(t, 0.0, fee)
	assert.Equal(t, 100.0, net)
}

func TestWithdrawalFeePercent(t *testing.T) {
	t.Setenv("WITHDRAWAL_FEE_PERCENT", "")
	assert.Equal(t, DefaultWithdrawalFeePercent, WithdrawalFeePercent())

	t.Setenv("WITHDRAWAL_FEE_PERCENT", "7.5")
	assert.Equal(t, 7.5, WithdrawalFeePercent())

	t.Setenv("WITHDRAWAL_FEE_PERCENT", "not-a-number")
	assert.Equal(t, DefaultWithdrawalFeePercent, WithdrawalFeePercent())

	t.Setenv("WITHDRAWAL_FEE_PERCENT", "-5")
	assert.Equal(t, DefaultWithdrawalFeePercent, WithdrawalFeePercent())
}

func TestDaysUntilNextWindow(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"monday", monday, 0},
		{"tuesday", tuesday, 6},
		{"wednesday", monday.AddDate(0, 0, 2), 5},
		{"thursday", monday.AddDate(0, 0, 3), 4},
		{"friday", monday.AddDate(0, 0, 4), 3},
		{"saturday", saturday, 2},
		{"sunday", sunday, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntilNextWindow(tt.now))
		})
	}
}
