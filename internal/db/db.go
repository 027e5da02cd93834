package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yojanasetu/apiserver/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultPingTimeout = 5 * time.Second
	defaultMaxPoolSize = 25
	defaultMinPoolSize = 2
	defaultIdleTime    = 2 * time.Minute
)

// Connect opens a MongoDB client with pooling defaults and verifies the
// connection with a ping before returning it.
func Connect(ctx context.Context, cfg config.Config) (*mongo.Client, error) {
	if strings.TrimSpace(cfg.Mongo.URI) == "" {
		return nil, errors.New("mongo uri is required")
	}

	opts := options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetMaxPoolSize(defaultMaxPoolSize).
		SetMinPoolSize(defaultMinPoolSize).
		SetMaxConnIdleTime(defaultIdleTime)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}
