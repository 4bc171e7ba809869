package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

var validate = validator.New()

type Config struct {
	LogLevel      string `yaml:"log-level" env:"TICTACTOE_LOG_LEVEL" env-default:"warn" validate:"oneof=debug info warn error"`
	LogFormat     string `yaml:"log-format" env:"TICTACTOE_LOG_FORMAT" env-default:"json" validate:"oneof=json text"`
	Storage       string `yaml:"storage" env:"TICTACTOE_STORAGE" env-default:"memory" validate:"oneof=memory redis"`
	FirstPlayer   string `yaml:"first-player" env:"TICTACTOE_FIRST_PLAYER" env-default:"X" validate:"oneof=X O"`
	OneBasedInput bool   `yaml:"one-based-input" env:"TICTACTOE_ONE_BASED_INPUT" env-default:"false"`
	Redis         Redis  `yaml:"redis" env-prefix:"TICTACTOE_REDIS_"`
}

type Redis struct {
	Host string        `yaml:"host" env:"HOST" env-default:"localhost" validate:"required"`
	Port string        `yaml:"port" env:"PORT" env-default:"6379" validate:"required,numeric"`
	TTL  time.Duration `yaml:"ttl" env:"TTL" env-default:"1h" validate:"gt=0s"`
}

// Load - reads an optional .env, then the yaml file at path, and validates the
// result. An empty path reads only the environment and defaults; a non-empty
// path must exist.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	config := &Config{}

	if path == "" {
		if err := cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}

		if err := cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate - checks the values after flags have been applied.
func (that *Config) Validate() error {
	if err := validate.Struct(that); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return net.JoinHostPort(that.Host, that.Port)
}
