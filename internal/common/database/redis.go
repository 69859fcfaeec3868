// internal/common/database/redis.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pitch-workers/internal/common/config"
	apperrors "pitch-workers/internal/common/errors"
	"pitch-workers/internal/models"
)

const jobKeyPrefix = "pitch:job:"

// RedisClient wraps the Redis client
type RedisClient struct {
	Client *redis.Client
}

// NewRedis creates a new Redis client
func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	return &RedisClient{Client: rdb}, nil
}

// Ping tests the Redis connection
func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}

// JobEntry is what the registry remembers about a submitted pitch job.
type JobEntry struct {
	JobID       string           `json:"job_id"`
	Status      models.JobStatus `json:"status"`
	SubmittedAt time.Time        `json:"submitted_at"`
}

// JobRegistry maps a workflow instance to the pitch job submitted for it, so
// a retried BPMN job resumes tracking instead of submitting a second time.
type JobRegistry struct {
	client *redis.Client
	ttl    time.Duration
}

func NewJobRegistry(c *RedisClient, ttl time.Duration) *JobRegistry {
	return &JobRegistry{client: c.Client, ttl: ttl}
}

func jobKey(workflowInstanceKey int64) string {
	return fmt.Sprintf("%s%d", jobKeyPrefix, workflowInstanceKey)
}

// Remember records the job for the workflow instance. An existing entry is
// kept, and the job that won is returned.
func (r *JobRegistry) Remember(ctx context.Context, workflowInstanceKey int64, job *models.Job) (*JobEntry, error) {
	entry := JobEntry{JobID: job.ID, Status: job.Status, SubmittedAt: time.Now().UTC()}
	payload, err := json.Marshal(entry)
	if err != nil {
		return nil, apperrors.NewRegistryUnavailableError(err)
	}

	key := jobKey(workflowInstanceKey)
	ok, err := r.client.SetNX(ctx, key, payload, r.ttl).Result()
	if err != nil {
		return nil, apperrors.NewRegistryUnavailableError(err)
	}
	if ok {
		return &entry, nil
	}

	existing, found, err := r.Lookup(ctx, workflowInstanceKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return &entry, nil
	}
	return existing, nil
}

// Lookup returns the remembered job, if any.
func (r *JobRegistry) Lookup(ctx context.Context, workflowInstanceKey int64) (*JobEntry, bool, error) {
	raw, err := r.client.Get(ctx, jobKey(workflowInstanceKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewRegistryUnavailableError(err)
	}

	var entry JobEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// A corrupt entry is as good as none.
		return nil, false, nil
	}
	return &entry, true, nil
}

// Forget drops the entry once the pitch job reached a terminal state.
func (r *JobRegistry) Forget(ctx context.Context, workflowInstanceKey int64) error {
	if err := r.client.Del(ctx, jobKey(workflowInstanceKey)).Err(); err != nil {
		return apperrors.NewRegistryUnavailableError(err)
	}
	return nil
}
