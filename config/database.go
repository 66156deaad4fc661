package config

import "time"

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"ruralconnect"`
	Password string `env:"PASSWORD" envDefault:"ruralconnect"`
	Name     string `env:"NAME"     envDefault:"ruralconnect"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // 'require' in production

	MaxOpenConns    int           `env:"MAX_OPEN_CONNS"    envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS"    envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`

	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// Sanitize keeps the pool settings usable.
func (d *DBConfig) Sanitize() {
	if d.MaxOpenConns < 1 {
		d.MaxOpenConns = 1
	}
	if d.MaxIdleConns < 0 {
		d.MaxIdleConns = 0
	}
	if d.MaxIdleConns > d.MaxOpenConns {
		d.MaxIdleConns = d.MaxOpenConns
	}
	if d.ConnMaxLifetime < 0 {
		d.ConnMaxLifetime = 0
	}
}

// RedisConfig contains Redis configuration.
// Redis is optional: leave URI empty and disable sentinel/cluster to run without
// the unread-count cache, broadcast dedupe and the session token store.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}

// Enabled reports whether any Redis topology is configured.
func (r RedisConfig) Enabled() bool {
	return r.URI != "" || r.UseSentinel || r.UseCluster
}
