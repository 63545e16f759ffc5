package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/arkade-dev/storefront-api/internal/redisx"
)

var ErrNoSession = errors.New("session not found")

// Sessions stores login sessions in redis: an opaque uuid token maps to the
// identity JSON with a sliding 24h TTL.
type Sessions struct {
	Redis *redis.Client
}

func (s *Sessions) Create(ctx context.Context, who Identity) (string, error) {
	token := uuid.NewString()
	b, err := json.Marshal(who)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf(redisx.KeySession, token)
	if err := s.Redis.Set(ctx, key, b, redisx.TTLSession).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Sessions) Get(ctx context.Context, token string) (Identity, error) {
	key := fmt.Sprintf(redisx.KeySession, token)
	b, err := s.Redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Identity{}, ErrNoSession
	}
	if err != nil {
		return Identity{}, err
	}
	var who Identity
	if err := json.Unmarshal(b, &who); err != nil {
		return Identity{}, err
	}
	// refresh the TTL so active users stay logged in
	_ = s.Redis.Expire(ctx, key, redisx.TTLSession).Err()
	return who, nil
}

func (s *Sessions) Delete(ctx context.Context, token string) error {
	return s.Redis.Del(ctx, fmt.Sprintf(redisx.KeySession, token)).Err()
}
