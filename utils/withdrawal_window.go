package utils

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// MinWithdrawalAmount is the smallest withdrawal a member may request
const MinWithdrawalAmount = 10.00

// DefaultWithdrawalFeePercent applies when WITHDRAWAL_FEE_PERCENT is unset
const DefaultWithdrawalFeePercent = 10.0

var (
	ErrOutsideWindow       = errors.New("withdrawals can only be requested on Mondays")
	ErrBelowMinimum        = errors.New("withdrawal amount is below the minimum")
	ErrInsufficientBalance = errors.New("withdrawal amount exceeds available balance")
)

// CanRequestWithdrawal checks the withdrawal gate: requests are only
// accepted on Mondays (UTC), for at least the minimum amount, and never for
// more than the available withdrawal wallet balance.
func CanRequestWithdrawal(now time.Time, amount, availableBalance float64) error {
	if now.UTC().Weekday() != time.Monday {
		return ErrOutsideWindow
	}
	if amount < MinWithdrawalAmount {
		return ErrBelowMinimum
	}
	if amount > availableBalance {
		return ErrInsufficientBalance
	}
	return nil
}

// WithdrawalQuote computes the fee and net payout for a withdrawal amount
func WithdrawalQuote(amount, feePercent float64) (fee, net float64) {
	fee = amount * feePercent / 100
	net = amount - fee
	return fee, net
}

// WithdrawalFeePercent returns the configured fee rate
func WithdrawalFeePercent() float64 {
	if raw := os.Getenv("WITHDRAWAL_FEE_PERCENT"); raw != "" {
		if percent, err := strconv.ParseFloat(raw, 64); err == nil && percent >= 0 {
			return percent
		}
	}
	return DefaultWithdrawalFeePercent
}

// DaysUntilNextWindow returns how many days remain until withdrawals open
// again: 0 on Monday, 1 on Sunday, otherwise (8 - weekday) mod 7.
func DaysUntilNextWindow(now time.Time) int {
	weekday := int(now.UTC().Weekday())
	if weekday == 1 {
		return 0
	}
	if weekday == 0 {
		return 1
	}
	return (8 - weekday) % 7
}
