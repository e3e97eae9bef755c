package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"
)

// insecureSecret is a well-known placeholder and is refused.
const insecureSecret = "secret"

type Config struct {
	HTTPAddr       string        `env:"HTTP_ADDR" envDefault:":4101"`
	SocketAddr     string        `env:"SOCKET_ADDR" envDefault:":8000"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	JWTSecret      string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	RoomIdleTimeout time.Duration `env:"ROOM_IDLE_TIMEOUT" envDefault:"30m"`
	SweepInterval   time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`

	RedisURL    string        `env:"REDIS_URL"`
	SnapshotTTL time.Duration `env:"SNAPSHOT_TTL" envDefault:"6h"`

	DB DBConfig

	// per connection action budget
	ActionsPerSecond float64 `env:"ACTIONS_PER_SECOND" envDefault:"5"`
	ActionBurst      int     `env:"ACTION_BURST" envDefault:"10"`
}

type DBConfig struct {
	User     string `env:"DB_USER"`
	Addr     string `env:"DB_ADDR"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME"`
}

func (d DBConfig) Enabled() bool {
	return d.Addr != ""
}

// Load reads the configuration from the environment (and a .env file if present).
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.JWTSecret == insecureSecret {
		return Config{}, fmt.Errorf("JWT_SECRET must not be %q", insecureSecret)
	}
	if cfg.ActionsPerSecond <= 0 || cfg.ActionBurst <= 0 {
		return Config{}, fmt.Errorf("action rate must be positive, got %v/s burst %d", cfg.ActionsPerSecond, cfg.ActionBurst)
	}
	if cfg.SweepInterval <= 0 {
		return Config{}, fmt.Errorf("sweep interval must be positive, got %s", cfg.SweepInterval)
	}
	return cfg, nil
}
