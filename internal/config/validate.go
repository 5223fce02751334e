package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Server.WriteRateLimit < 0 {
		return fmt.Errorf("server.write_rate_limit must be >= 0 (got %d)", c.Server.WriteRateLimit)
	}

	if err := c.Database.validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := c.Network.validate(); err != nil {
		return fmt.Errorf("network: %w", err)
	}

	if c.Scheduler.Enabled && strings.TrimSpace(c.Scheduler.PruneRejected) == "" {
		return fmt.Errorf("scheduler: prune_rejected must be set when the scheduler is enabled")
	}

	return nil
}

func (d *DatabaseConfig) validate() error {
	switch d.Driver {
	case DriverPostgres:
		if d.DSN == "" {
			return fmt.Errorf("dsn is required for the postgres driver")
		}
		if d.MaxConns <= 0 {
			return fmt.Errorf("max_conns must be > 0 (got %d)", d.MaxConns)
		}
		if d.MinConns < 0 || d.MinConns > d.MaxConns {
			return fmt.Errorf("min_conns must be between 0 and max_conns (got %d)", d.MinConns)
		}
	case DriverSQLite:
		if d.SQLitePath == "" {
			return fmt.Errorf("sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown driver %q (want %q or %q)", d.Driver, DriverPostgres, DriverSQLite)
	}
	return nil
}

func (n *NetworkConfig) validate() error {
	if n.RejectionCooldown < 0 {
		return fmt.Errorf("rejection_cooldown must be >= 0 (got %v)", n.RejectionCooldown)
	}
	if n.RejectedRetention < n.RejectionCooldown {
		return fmt.Errorf("rejected_retention (%v) must be >= rejection_cooldown (%v)", n.RejectedRetention, n.RejectionCooldown)
	}
	if n.DiscoveryPageSize <= 0 {
		return fmt.Errorf("discovery_page_size must be > 0 (got %d)", n.DiscoveryPageSize)
	}
	if n.DiscoveryMaxLimit <= 0 {
		return fmt.Errorf("discovery_max_limit must be > 0 (got %d)", n.DiscoveryMaxLimit)
	}
	if n.ListDefaultLimit <= 0 || n.ListDefaultLimit > n.ListMaxLimit {
		return fmt.Errorf("list_default_limit must be between 1 and list_max_limit (got %d)", n.ListDefaultLimit)
	}
	if n.MessageMaxLength <= 0 {
		return fmt.Errorf("message_max_length must be > 0 (got %d)", n.MessageMaxLength)
	}
	return nil
}
