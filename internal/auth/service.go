package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL          = 24 * 30 * time.Hour
	tokenKeyPrefix      = "gymplanner-token||"
	userTokensKeyPrefix = "gymplanner-user-tokens||"
	tokenLength         = 35
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Service issues and resolves device tokens. A token maps to exactly one user id
// and expires after ttl.
type Service struct {
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewService(ttl time.Duration, redisClient *redis.Client) *Service {
	return &Service{
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: GenerateRandomString,
	}
}

func (s *Service) IssueToken(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user id empty")
	}

	token, err := s.RandStringFunc(tokenLength)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	if err := s.redisClient.Set(ctx, tokenKeyPrefix+token, userID, s.ttl).Err(); err != nil {
		return "", err
	}
	if err := s.redisClient.SAdd(ctx, userTokensKeyPrefix+userID, token).Err(); err != nil {
		return "", err
	}

	return token, nil
}

// UserID resolves the user a token was issued to.
func (s *Service) UserID(ctx context.Context, token string) (string, error) {
	userID, err := s.redisClient.Get(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	if userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}

// RevokeAll removes every token issued to userID and returns how many were removed.
func (s *Service) RevokeAll(ctx context.Context, userID string) (int, error) {
	setKey := userTokensKeyPrefix + userID
	tokens, err := s.redisClient.SMembers(ctx, setKey).Result()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, token := range tokens {
		n, err := s.redisClient.Del(ctx, tokenKeyPrefix+token).Result()
		if err != nil {
			log.Errorf("auth service, revoke token for [%s]: %s", userID, err)
			continue
		}
		removed += int(n)
	}

	if err := s.redisClient.Del(ctx, setKey).Err(); err != nil {
		return removed, err
	}
	return removed, nil
}

// GenerateRandomString returns a URL-safe, base64 encoded
// securely generated random string of length s.
func GenerateRandomString(s int) (string, error) {
	if s <= 0 {
		return "", errors.New("length must be positive")
	}
	b := make([]byte, s)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:s], nil
}
