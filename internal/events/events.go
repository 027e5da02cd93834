package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/yojanasetu/apiserver/config"
)

// Publisher defines the broker-agnostic publish operation used by the
// account service.
type Publisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Close() error
}

// New constructs the publisher selected by the config. An empty backend
// disables event publishing and returns (nil, nil).
func New(ctx context.Context, cfg config.EventsConfig) (Publisher, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "":
		return nil, nil
	case "rabbitmq":
		return NewRabbitMQPublisher(cfg.RabbitMQ)
	case "pubsub":
		return NewPubSubPublisher(ctx, cfg.PubSub)
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}
