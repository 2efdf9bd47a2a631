package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	deadlinesKey      = "gymplanner:session:deadlines"
	deadlineKeyPrefix = "gymplanner:session:"
)

// RedisDeadlineStore keeps one hash per running session and a sorted set of
// session ids scored by deadline (unix millis).
type RedisDeadlineStore struct {
	redisClient *redis.Client
}

func NewRedisDeadlineStore(redisClient *redis.Client) *RedisDeadlineStore {
	return &RedisDeadlineStore{
		redisClient: redisClient,
	}
}

func deadlineHashKey(id string) string {
	return deadlineKeyPrefix + id
}

func (s *RedisDeadlineStore) Save(ctx context.Context, d Deadline) error {
	id := d.ID()
	if err := s.redisClient.HSet(ctx, deadlineHashKey(id),
		"userId", d.UserID,
		"dayId", d.DayID,
		"fingerprint", d.Fingerprint,
		"start", strconv.FormatInt(d.Start.UnixMilli(), 10),
		"deadline", strconv.FormatInt(d.Deadline.UnixMilli(), 10),
	).Err(); err != nil {
		return fmt.Errorf("save deadline hash: %w", err)
	}

	if err := s.redisClient.ZAdd(ctx, deadlinesKey, &redis.Z{
		Score:  float64(d.Deadline.UnixMilli()),
		Member: id,
	}).Err(); err != nil {
		return fmt.Errorf("schedule deadline: %w", err)
	}

	return nil
}

func (s *RedisDeadlineStore) Expired(ctx context.Context, now time.Time) ([]Deadline, error) {
	ids, err := s.redisClient.ZRangeByScore(ctx, deadlinesKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return nil, err
	}

	deadlines := make([]Deadline, 0, len(ids))
	for _, id := range ids {
		fields, err := s.redisClient.HGetAll(ctx, deadlineHashKey(id)).Result()
		if err != nil {
			return nil, err
		}

		d, err := deadlineFromHash(fields)
		if err != nil {
			log.Warnf("deadline store: drop broken entry [%s]: %s", id, err)
			if err := s.redisClient.ZRem(ctx, deadlinesKey, id).Err(); err != nil {
				log.Errorf("deadline store: remove [%s]: %s", id, err)
			}
			continue
		}
		deadlines = append(deadlines, d)
	}

	return deadlines, nil
}

func (s *RedisDeadlineStore) Claim(ctx context.Context, id string) (bool, error) {
	removed, err := s.redisClient.ZRem(ctx, deadlinesKey, id).Result()
	if err != nil {
		return false, err
	}
	return removed == 1, nil
}

func (s *RedisDeadlineStore) Delete(ctx context.Context, id string) error {
	if err := s.redisClient.ZRem(ctx, deadlinesKey, id).Err(); err != nil {
		return err
	}
	return s.redisClient.Del(ctx, deadlineHashKey(id)).Err()
}

func deadlineFromHash(fields map[string]string) (Deadline, error) {
	if len(fields) == 0 {
		return Deadline{}, errors.New("hash missing")
	}

	startMs, err := strconv.ParseInt(fields["start"], 10, 64)
	if err != nil {
		return Deadline{}, fmt.Errorf("parse start: %w", err)
	}
	deadlineMs, err := strconv.ParseInt(fields["deadline"], 10, 64)
	if err != nil {
		return Deadline{}, fmt.Errorf("parse deadline: %w", err)
	}

	d := Deadline{
		UserID:      fields["userId"],
		DayID:       fields["dayId"],
		Fingerprint: fields["fingerprint"],
		Start:       time.UnixMilli(startMs),
		Deadline:    time.UnixMilli(deadlineMs),
	}
	if d.UserID == "" || d.DayID == "" {
		return Deadline{}, errors.New("user or day id missing")
	}
	return d, nil
}
