package controllers

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumeOTP(t *testing.T) {
	storeOTP("admin@example.com", "1234", time.Now().Add(10*time.Minute))

	assert.False(t, consumeOTP("admin@example.com", "9999"), "wrong code must not consume")
	assert.True(t, consumeOTP("admin@example.com", "1234"))
	assert.False(t, consumeOTP("admin@example.com", "1234"), "a code cannot be replayed")
}

func TestConsumeOTPExpired(t *testing.T) {
	storeOTP("expired@example.com", "1234", time.Now().Add(-time.Minute))
	assert.False(t, consumeOTP("expired@example.com", "1234"))
}

func TestOTPStoreConcurrentAccess(t *testing.T) {
	// Reset requests and verifications run on separate request goroutines.
	// Run with -race.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				storeOTP(fmt.Sprintf("admin-%d-%d@example.com", n, j), "1234", time.Now().Add(10*time.Minute))
			}
		}(i)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				consumeOTP(fmt.Sprintf("admin-%d-%d@example.com", n, j), "1234")
			}
		}(i)
	}
	wg.Wait()
}

func TestGenerateOTPFormat(t *testing.T) {
	for i := 0; i < 20; i++ {
		otp, err := generateOTP()
		require.NoError(t, err)
		require.Len(t, otp, 4)
		for _, r := range otp {
			assert.True(t, r >= '0' && r <= '9', "OTP must be numeric, got %q", otp)
		}
	}
}
