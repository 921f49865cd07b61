package middleware

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBlacklistToken(t *testing.T) {
	token := "test-token-basic"
	assert.False(t, IsTokenBlacklisted(token))

	BlacklistToken(token, time.Now().Add(time.Hour))
	assert.True(t, IsTokenBlacklisted(token))
}

func TestBlacklistConcurrentAccess(t *testing.T) {
	// Logouts write the blacklist while every authenticated request reads
	// it, so the map must tolerate concurrent access. Run with -race.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				BlacklistToken(fmt.Sprintf("token-%d-%d", n, j), time.Now().Add(time.Hour))
			}
		}(i)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				IsTokenBlacklisted(fmt.Sprintf("token-%d-%d", n, j))
			}
		}(i)
	}
	wg.Wait()

	assert.True(t, IsTokenBlacklisted("token-0-0"))
}

func TestRemoveExpiredTokens(t *testing.T) {
	BlacklistToken("expired-token", time.Now().Add(-time.Minute))
	BlacklistToken("live-token", time.Now().Add(time.Hour))

	removeExpiredTokens(time.Now())

	assert.False(t, IsTokenBlacklisted("expired-token"))
	assert.True(t, IsTokenBlacklisted("live-token"))
}

func TestRemoveExpiredTokensDuringReads(t *testing.T) {
	for i := 0; i < 50; i++ {
		BlacklistToken(fmt.Sprintf("sweep-%d", i), time.Now().Add(-time.Minute))
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		removeExpiredTokens(time.Now())
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			IsTokenBlacklisted(fmt.Sprintf("sweep-%d", i))
		}
	}()
	wg.Wait()

	assert.False(t, IsTokenBlacklisted("sweep-0"))
}
