package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"ideas-service/model"
)

// ErrMiss is returned when no cached timeline exists for the viewer.
var ErrMiss = fmt.Errorf("timeline cache miss")

// TimelineCache stores each viewer's composed timeline as a marshaled list
// under a single key. Mutations that can change a timeline must call
// Invalidate synchronously before returning, so readers never see a stale
// feed; the TTL only bounds memory, it is not the consistency mechanism.
//
// A nil *TimelineCache is valid and behaves as an always-miss cache.
type TimelineCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTimelineCache(client *redis.Client, ttl time.Duration) *TimelineCache {
	return &TimelineCache{client: client, ttl: ttl}
}

func timelineKey(viewerID uuid.UUID) string {
	return fmt.Sprintf("timeline:%s", viewerID.String())
}

func (c *TimelineCache) Get(ctx context.Context, viewerID uuid.UUID) ([]models.Idea, error) {
	if c == nil || c.client == nil {
		return nil, ErrMiss
	}

	data, err := c.client.Get(ctx, timelineKey(viewerID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to read cached timeline: %w", err)
	}

	var ideas []models.Idea
	if err := json.Unmarshal(data, &ideas); err != nil {
		return nil, fmt.Errorf("failed to decode cached timeline: %w", err)
	}

	return ideas, nil
}

func (c *TimelineCache) Set(ctx context.Context, viewerID uuid.UUID, ideas []models.Idea) error {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := json.Marshal(ideas)
	if err != nil {
		return fmt.Errorf("failed to encode timeline: %w", err)
	}

	if err := c.client.Set(ctx, timelineKey(viewerID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache timeline: %w", err)
	}

	return nil
}

// Invalidate drops the cached timelines of the given viewers.
func (c *TimelineCache) Invalidate(ctx context.Context, viewerIDs ...uuid.UUID) error {
	if c == nil || c.client == nil || len(viewerIDs) == 0 {
		return nil
	}

	keys := make([]string, len(viewerIDs))
	for i, id := range viewerIDs {
		keys[i] = timelineKey(id)
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate timelines: %w", err)
	}

	return nil
}
