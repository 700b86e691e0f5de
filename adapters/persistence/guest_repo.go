package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/foliolab/folio-api/internal/domain/profile"
	"github.com/foliolab/folio-api/pkg/apperror"
	"github.com/foliolab/folio-api/pkg/logger"
)

const guestKeyPrefix = "guest_profile:"

// redisGuestRepo keeps anonymous profiles as JSON values with a TTL. Expiry
// is entirely Redis's job; the application never sweeps.
type redisGuestRepo struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewRedisGuestRepo(rdb *redis.Client, ttl time.Duration, log logger.Logger) profile.GuestRepository {
	return &redisGuestRepo{rdb: rdb, ttl: ttl, logger: log}
}

func guestKey(username string) string {
	return guestKeyPrefix + username
}

func (r *redisGuestRepo) FindByUsername(ctx context.Context, username string) (*profile.Profile, error) {
	data, err := r.rdb.Get(ctx, guestKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read guest profile: %w", err)
	}

	p := &profile.Profile{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal guest profile: %w", err)
	}
	return p, nil
}

func (r *redisGuestRepo) Create(ctx context.Context, p *profile.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal guest profile: %w", err)
	}
	if err := r.rdb.Set(ctx, guestKey(p.Username), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store guest profile: %w", err)
	}
	return nil
}

// Update rewrites the whole record, keeping whatever TTL remains so edits do
// not extend a guest record's life.
func (r *redisGuestRepo) Update(ctx context.Context, username string, data *profile.UpdateProfile) (*profile.Profile, error) {
	p, err := r.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NewNotFound("guest profile", username)
	}

	p.Apply(data)
	p.UpdatedAt = time.Now().UTC()

	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal guest profile: %w", err)
	}
	if err := r.rdb.Set(ctx, guestKey(username), raw, redis.KeepTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store guest profile: %w", err)
	}
	return p, nil
}

func (r *redisGuestRepo) Delete(ctx context.Context, username string) error {
	if err := r.rdb.Del(ctx, guestKey(username)).Err(); err != nil {
		return fmt.Errorf("failed to delete guest profile: %w", err)
	}
	return nil
}
