package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// OutcomeStream is the stream every run publishes to
const OutcomeStream = "acquire:stream:outcomes"

type Publisher interface {
	Publish(ctx context.Context, event Event) (string, error) // Returns message ID
}

type RedisPublisher struct {
	redisClient *redis.Client
	stream      string
	maxLen      int64
}

// NewRedisPublisher appends events to OutcomeStream, trimming it approximately to maxLen
// entries. maxLen <= 0 disables trimming.
func NewRedisPublisher(redisClient *redis.Client, maxLen int64) *RedisPublisher {
	return &RedisPublisher{
		redisClient: redisClient,
		stream:      OutcomeStream,
		maxLen:      maxLen,
	}
}

func (q *RedisPublisher) Publish(ctx context.Context, event Event) (string, error) {
	eventType := event.EventType()

	eventValue, err := event.EventValue()
	if err != nil {
		return "", fmt.Errorf("failed to serialize event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: q.stream,
		Values: map[string]interface{}{
			"event_type": eventType,
			"event_data": string(eventValue),
		},
	}
	if q.maxLen > 0 {
		args.MaxLen = q.maxLen
		args.Approx = true
	}

	messageID, err := q.redisClient.XAdd(ctx, args).Result()
	if err != nil {
		return "", fmt.Errorf("failed to add event to Redis stream %s: %w", q.stream, err)
	}

	log.Debugf("Added event %s to stream %s with message ID: %s", eventType, q.stream, messageID)
	return messageID, nil
}

// NopPublisher drops every event; used when Redis is disabled
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Event) (string, error) {
	return "", nil
}
