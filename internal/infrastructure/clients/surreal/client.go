package surreal

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	"github.com/surrealdb/surrealdb.go/surrealcbor"

	"github.com/platescout/platescout/pkg/config"
	"github.com/platescout/platescout/pkg/retry"
)

// Client represents a SurrealDB client
type Client struct {
	db *surrealdb.DB
}

// NewClient connects to SurrealDB over WebSocket, signs in, and selects the
// configured namespace and database. The surrealcbor codec is wired in so
// time.Time values and record IDs round-trip in SurrealDB's native format.
func NewClient(ctx context.Context, cfg *config.SurrealDBConfig) (*Client, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SurrealDB URL: %w", err)
	}

	conf := connection.NewConfig(u)
	codec := surrealcbor.New()
	conf.Marshaler = codec
	conf.Unmarshaler = codec

	// The database often comes up after the app in container setups, so
	// retry the initial connection with backoff
	var db *surrealdb.DB
	connectRetry := retry.Config{
		MaxAttempts:     5,
		InitialDelay:    500 * time.Millisecond,
		MaxDelay:        5 * time.Second,
		BackoffFactor:   2.0,
		MaxTotalTimeout: 30 * time.Second,
	}
	err = retry.DoWithLog(ctx, connectRetry, "surrealdb", func() error {
		conn := gorillaws.New(conf)
		connected, connErr := surrealdb.FromConnection(ctx, conn)
		if connErr != nil {
			return connErr
		}
		db = connected
		return nil
	}, func(attempt int, attemptErr error, nextDelay time.Duration) {
		log.Warn().Err(attemptErr).Int("attempt", attempt).Dur("next_delay", nextDelay).
			Msg("SurrealDB connection failed, retrying")
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if cfg.User != "" && cfg.Password != "" {
		if _, err := db.SignIn(ctx, map[string]any{
			"user": cfg.User,
			"pass": cfg.Password,
		}); err != nil {
			return nil, fmt.Errorf("failed to authenticate with SurrealDB: %w", err)
		}
	}

	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	return &Client{db: db}, nil
}

// DB returns the underlying SurrealDB handle
func (c *Client) DB() *surrealdb.DB {
	return c.db
}

// Close closes the SurrealDB connection
func (c *Client) Close(ctx context.Context) error {
	return c.db.Close(ctx)
}
