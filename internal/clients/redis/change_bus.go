package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/platform/logger"
)

const DefaultChannel = "catalog.changes"

// ChangeBus fans catalog change events out over Redis pub/sub.
type ChangeBus interface {
	Publish(ctx context.Context, change domain.Change) error
	StartForwarder(ctx context.Context, onChange func(domain.Change)) error
	Close() error
}

type changeBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewChangeBus(log *logger.Logger, addr, channel string) (ChangeBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = DefaultChannel
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

	return &changeBus{
		log:     log.With("service", "RedisChangeBus", "channel", channel),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (b *changeBus) Publish(ctx context.Context, change domain.Change) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis change bus not initialized")
	}
	raw, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *changeBus) StartForwarder(ctx context.Context, onChange func(domain.Change)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis change bus not initialized")
	}
	if onChange == nil {
		return fmt.Errorf("onChange callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)
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
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				change, err := DecodeChange(m.Payload)
				if err != nil {
					b.log.Warn("bad change payload", "error", err)
					continue
				}
				onChange(change)
			}
		}
	}()
	return nil
}

func (b *changeBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}

func DecodeChange(payload string) (domain.Change, error) {
	var change domain.Change
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		return domain.Change{}, err
	}
	if change.Kind == "" || change.Action == "" {
		return domain.Change{}, fmt.Errorf("change payload missing kind or action")
	}
	return change, nil
}
