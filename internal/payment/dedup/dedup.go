package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const eventKeyTTL = 24 * time.Hour

// Store suppresses duplicate webhook deliveries with a Redis SETNX fast
// path. It is best-effort only: the authoritative guard is the conditional
// status transition in the order repository, so a Redis outage degrades to
// pass-through instead of blocking reconciliation.
type Store struct {
	client *redis.Client
}

// NewStore creates a dedup store. A nil client disables deduplication.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Seen records the event and reports whether it was already processed.
func (s *Store) Seen(ctx context.Context, provider, eventID string) (bool, error) {
	if s.client == nil || eventID == "" {
		return false, nil
	}

	key := fmt.Sprintf("webhook:%s:%s", provider, eventID)
	fresh, err := s.client.SetNX(ctx, key, 1, eventKeyTTL).Result()
	if err != nil {
		return false, err
	}
	return !fresh, nil
}
