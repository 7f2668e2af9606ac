package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"trivia-service"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres   Postgres
	Redis      Redis
	Pagination Pagination
	CORS       CORS
	Import     Import
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host            string        `env:"PG_HOST,notEmpty"`
	Port            int           `env:"PG_PORT" envDefault:"5432"`
	User            string        `env:"PG_USER,notEmpty"`
	Password        string        `env:"PG_PASSWORD,notEmpty"`
	Database        string        `env:"PG_DATABASE,notEmpty"`
	SSLMode         string        `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns        int32         `env:"PG_MAX_CONNS" envDefault:"10"`
	MaxConnLifetime time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`
}

// Redis holds the pub/sub connection for question events. Empty Addr disables events.
type Redis struct {
	Addr         string `env:"REDIS_ADDR" envDefault:""`
	DB           int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize     int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
	EventChannel string `env:"REDIS_EVENT_CHANNEL" envDefault:"trivia:questions"`
}

// Pagination governs listing page size.
type Pagination struct {
	QuestionsPerPage int `env:"QUESTIONS_PER_PAGE" envDefault:"10"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,PUT,POST,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Import configures the OpenTDB importer.
type Import struct {
	OpenTDBURL  string        `env:"OPENTDB_URL" envDefault:"https://opentdb.com"`
	HTTPTimeout time.Duration `env:"OPENTDB_HTTP_TIMEOUT" envDefault:"5s"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Pagination.QuestionsPerPage <= 0 {
		return nil, fmt.Errorf("QUESTIONS_PER_PAGE must be positive, got %d", cfg.Pagination.QuestionsPerPage)
	}
	return cfg, nil
}
