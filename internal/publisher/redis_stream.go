package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// ProgressStream is the Redis stream collection progress events land on.
const ProgressStream = "collector.progress"

// PhaseEvent describes one collection phase finishing (or failing).
type PhaseEvent struct {
	RunID   string `json:"run_id"`
	Season  string `json:"season"`
	Phase   string `json:"phase"`
	Records int    `json:"records"`
	Error   string `json:"error,omitempty"`
}

// RedisPublisher publishes collection progress events to Redis streams
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher creates a new Redis stream publisher
func NewRedisPublisher(redisURL string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisPublisher{
		client: client,
	}, nil
}

// NewRedisPublisherFromClient wraps an existing Redis client
func NewRedisPublisherFromClient(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// Close closes the Redis connection
func (rp *RedisPublisher) Close() error {
	return rp.client.Close()
}

// PublishPhase publishes a phase completion event to the progress stream
func (rp *RedisPublisher) PublishPhase(ctx context.Context, event PhaseEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return rp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: ProgressStream,
		MaxLen: 1000,
		Approx: true,
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}
