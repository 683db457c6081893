package state

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// ProgressRecorder remembers how many items of a run are durable in the output
type ProgressRecorder interface {
	SetDurable(ctx context.Context, runID string, items int) error
	GetDurable(ctx context.Context, runID string) (int, error)
	LastRun(ctx context.Context) (string, error)
}

type redisProgressRecorder struct {
	redisClient *redis.Client
	keyPrefix   string
}

func NewRedisProgressRecorder(redisClient *redis.Client) ProgressRecorder {
	return &redisProgressRecorder{
		redisClient: redisClient,
		keyPrefix:   "acquire:progress:",
	}
}

func (s *redisProgressRecorder) SetDurable(ctx context.Context, runID string, items int) error {
	_, err := s.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.keyPrefix+runID, items, 0)
		pipe.Set(ctx, s.keyPrefix+"last_run", runID, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record progress for run %s: %w", runID, err)
	}
	return nil
}

func (s *redisProgressRecorder) GetDurable(ctx context.Context, runID string) (int, error) {
	val, err := s.redisClient.Get(ctx, s.keyPrefix+runID).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get progress for run %s: %w", runID, err)
	}

	items, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("failed to parse progress for run %s: %w", runID, err)
	}

	return items, nil
}

func (s *redisProgressRecorder) LastRun(ctx context.Context) (string, error) {
	val, err := s.redisClient.Get(ctx, s.keyPrefix+"last_run").Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("failed to get last run: %w", err)
	}
	return val, nil
}

// MemoryProgressRecorder keeps progress in process; used when Redis is disabled
type MemoryProgressRecorder struct {
	durable map[string]int
	lastRun string
}

func NewMemoryProgressRecorder() *MemoryProgressRecorder {
	return &MemoryProgressRecorder{durable: make(map[string]int)}
}

func (m *MemoryProgressRecorder) SetDurable(ctx context.Context, runID string, items int) error {
	m.durable[runID] = items
	m.lastRun = runID
	return nil
}

func (m *MemoryProgressRecorder) GetDurable(ctx context.Context, runID string) (int, error) {
	return m.durable[runID], nil
}

func (m *MemoryProgressRecorder) LastRun(ctx context.Context) (string, error) {
	return m.lastRun, nil
}
