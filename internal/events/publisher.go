package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Channel is the Redis pub/sub channel activity events are mirrored to.
const Channel = "docsync:events"

// Event mirrors a document activity notification onto Redis so sibling
// services can observe joins, leaves and edits. The mirror is write-only:
// nothing in the synchronization path ever reads it back.
type Event struct {
	Type       string    `json:"type"` // "user_joined", "user_left", "content_updated", "title_updated"
	DocumentID string    `json:"documentId"`
	UserID     string    `json:"userId"`
	InstanceID string    `json:"instanceId"`
	Timestamp  time.Time `json:"timestamp"`
}

type Publisher struct {
	rdb        *redis.Client
	instanceID string
}

func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb, instanceID: uuid.NewString()}
}

func (p *Publisher) InstanceID() string { return p.instanceID }

func (p *Publisher) Publish(ctx context.Context, event Event) error {
	event.InstanceID = p.instanceID
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal activity event: %w", err)
	}
	return p.rdb.Publish(ctx, Channel, data).Err()
}
