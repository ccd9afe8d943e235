package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/KAILASATEJANI/nam/core"
)

// RedisBus relays events through a Redis Pub/Sub channel so every instance sharing it
// delivers them to its own subscribers.
type RedisBus struct {
	client  *redis.Client
	channel string
	logger  core.Logger
}

var _ Bus = (*RedisBus)(nil)

// NewRedisBus connects to conf.Redis.Addr and checks the server answers.
func NewRedisBus(ctx context.Context, conf *core.Config, logger core.Logger) (*RedisBus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         conf.Redis.Addr,
		Password:     conf.Redis.Password,
		DB:           conf.Redis.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return &RedisBus{client: client, channel: conf.Redis.Channel, logger: logger}, nil
}

func (b *RedisBus) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "encoding event")
	}
	return errors.Wrap(b.client.Publish(ctx, b.channel, payload).Err(), "publishing event")
}

func (b *RedisBus) Subscribe(handler func(Event)) (func(), error) {
	ctx := context.Background()
	sub := b.client.Subscribe(ctx, b.channel)
	// wait for the subscription to be confirmed so no event published afterwards is missed
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, errors.Wrap(err, "subscribing to redis channel")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range sub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.logger.Warn(fmt.Sprintf("decoding event from %s: %v", b.channel, err), err)
				continue
			}
			handler(ev)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = sub.Close()
			<-done
		})
	}, nil
}

func (b *RedisBus) Healthy(ctx context.Context) bool {
	return b.client.Ping(ctx).Err() == nil
}

func (b *RedisBus) Close() error {
	return errors.Wrap(b.client.Close(), "closing redis client")
}

// NewBus returns a Redis bus when conf.Redis.Addr is set and reachable, an in-process one otherwise.
func NewBus(ctx context.Context, conf *core.Config, logger core.Logger) Bus {
	if conf.Redis.Addr != "" {
		bus, err := NewRedisBus(ctx, conf, logger)
		if err == nil {
			logger.Info(fmt.Sprintf("realtime bus: redis (%s)", conf.Redis.Channel))
			return bus
		}
		logger.Warn(fmt.Sprintf("redis unavailable, falling back to in-process bus: %v", err), err)
	}
	return NewMemoryBus()
}
