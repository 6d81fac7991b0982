package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/larsgeorge/ontos-sub000/internal/logger"
)

// Event is a catalog mutation broadcast to all running instances. Role
// override changes use it to invalidate cached permission snapshots.
type Event struct {
	Type       string    `json:"type"`
	EntityType string    `json:"entity_type,omitempty"`
	EntityID   string    `json:"entity_id,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	At         time.Time `json:"at"`
}

const (
	EventRoleOverrideChanged = "role-override-changed"
	EventRolesChanged        = "roles-changed"
	EventEntityMutated       = "entity-mutated"
)

type CatalogBus interface {
	Publish(ctx context.Context, event Event) error
	StartForwarder(ctx context.Context, onEvent func(event Event)) error
	Close() error
}

type catalogBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewCatalogBus(log *logger.Logger) (CatalogBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(os.Getenv("REDIS_CHANNEL"))
	if ch == "" {
		ch = "catalog-events"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &catalogBus{
		log:     log.With("service", "RedisCatalogBus"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (b *catalogBus) Publish(ctx context.Context, event Event) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("catalog bus not initialized")
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *catalogBus) StartForwarder(ctx context.Context, onEvent func(event Event)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("catalog bus not initialized")
	}
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(m.Payload), &event); err != nil {
					b.log.Warn("Dropping malformed catalog event", "error", err)
					continue
				}
				onEvent(event)
			}
		}
	}()
	return nil
}

func (b *catalogBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
