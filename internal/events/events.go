// AngelaMos | 2026
// events.go

// Package events publishes domain notifications such as asset uploads,
// moderation decisions and completed purchases.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	KeyAssetCreated      = "asset.created"
	KeyAssetModerated    = "asset.moderated"
	KeyPurchaseCompleted = "purchase.completed"
)

type Publisher interface {
	Publish(ctx context.Context, key string, payload any) error
	Close() error
}

// Envelope is the wire shape of every published event.
type Envelope struct {
	ID         string    `json:"id"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

func NewEnvelope(key string, payload any) Envelope {
	return Envelope{
		ID:         uuid.New().String(),
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Data:       payload,
	}
}

// Emit publishes and logs a failure instead of returning it. Callers use it
// after their own state change has committed.
func Emit(
	ctx context.Context,
	publisher Publisher,
	logger *slog.Logger,
	key string,
	payload any,
) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, key, payload); err != nil {
		logger.WarnContext(ctx, "event publish failed",
			"key", key,
			"error", err,
		)
	}
}

// LogPublisher writes events to the logger. Used when no broker is
// configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, key string, payload any) error {
	p.logger.DebugContext(ctx, "event", "key", key, "data", payload)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}

// Recorder keeps published envelopes in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Envelope
	Err    error
}

func (r *Recorder) Publish(_ context.Context, key string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, NewEnvelope(key, payload))
	return nil
}

func (r *Recorder) Close() error {
	return nil
}

func (r *Recorder) Events() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Envelope, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.events))
	for _, e := range r.events {
		keys = append(keys, e.Key)
	}
	return keys
}
