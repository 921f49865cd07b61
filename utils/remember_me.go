package utils

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-redis/redis/v8"
)

const rememberMeTTL = 30 * 24 * time.Hour

// RememberedSession is the session payload stored in Redis for "Remember Me"
type RememberedSession struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	UserType  string    `json:"userType"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// GenerateRememberMeToken generates a secure token for "Remember Me"
func GenerateRememberMeToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// StoreRememberMeSession persists a remember-me session under its token
func StoreRememberMeSession(ctx context.Context, client *redis.Client, token string, session RememberedSession) error {
	if client == nil {
		return errors.New("redis is not available")
	}

	session.ExpiresAt = time.Now().Add(rememberMeTTL)
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return client.Set(ctx, rememberMeKey(token), payload, rememberMeTTL).Err()
}

// GetRememberMeSession retrieves a remember-me session by its token
func GetRememberMeSession(ctx context.Context, client *redis.Client, token string) (*RememberedSession, error) {
	if client == nil {
		return nil, errors.New("redis is not available")
	}

	payload, err := client.Get(ctx, rememberMeKey(token)).Result()
	if err == redis.Nil {
		return nil, errors.New("remember me session not found")
	}
	if err != nil {
		return nil, err
	}

	var session RememberedSession
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, err
	}

	if time.Now().After(session.ExpiresAt) {
		client.Del(ctx, rememberMeKey(token))
		return nil, errors.New("remember me session expired")
	}

	return &session, nil
}

// DeleteRememberMeSession removes a remember-me session on logout
func DeleteRememberMeSession(ctx context.Context, client *redis.Client, token string) error {
	if client == nil {
		return nil
	}
	return client.Del(ctx, rememberMeKey(token)).Err()
}

func rememberMeKey(token string) string {
	return fmt.Sprintf("remember_me:%s", token)
}
