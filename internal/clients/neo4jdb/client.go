package neo4jdb

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/utils"
)

type Config struct {
	URI            string
	User           string
	Password       string
	Database       string
	TimeoutSeconds int
	MaxPoolSize    int
}

// LoadConfig reads the graph connection settings. An empty URI means the
// concept graph is off.
func LoadConfig(log *logger.Logger) Config {
	return Config{
		URI:            utils.GetEnv("NEO4J_URI", "", log),
		User:           utils.GetEnv("NEO4J_USER", "neo4j", log),
		Password:       utils.GetEnv("NEO4J_PASSWORD", "", log),
		Database:       utils.GetEnv("NEO4J_DATABASE", "", log),
		TimeoutSeconds: utils.GetEnvAsInt("NEO4J_TIMEOUT_SECONDS", 10, log),
		MaxPoolSize:    utils.GetEnvAsInt("NEO4J_MAX_POOL_SIZE", 50, log),
	}
}

type Client struct {
	Driver   neo4j.DriverWithContext
	Database string
	log      *logger.Logger
}

// New returns (nil, nil) when cfg.URI is empty: the graph store is optional
// and callers fall back to the relational hierarchy only.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("neo4jdb: logger required")
	}
	if cfg.URI == "" {
		return nil, nil
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 10
	}
	if cfg.MaxPoolSize <= 0 {
		cfg.MaxPoolSize = 50
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	auth := neo4j.BasicAuth(cfg.User, cfg.Password, "")
	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth, func(c *neo4j.Config) {
		c.MaxConnectionPoolSize = cfg.MaxPoolSize
		c.SocketConnectTimeout = timeout
	})
	if err != nil {
		return nil, fmt.Errorf("neo4jdb: init driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4jdb: verify connectivity: %w", err)
	}

	return &Client{
		Driver:   driver,
		Database: cfg.Database,
		log:      log.With("client", "Neo4jDB"),
	}, nil
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.Driver == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := c.Driver.Close(ctx)
	c.Driver = nil
	return err
}
