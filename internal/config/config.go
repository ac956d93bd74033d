package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Redis    Redis  `yaml:"redis"`
	Game     Game   `yaml:"game"`
	Player   Player `yaml:"player"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Game struct {
	// TTL drops abandoned games from storage.
	TTL time.Duration `yaml:"ttl" env:"GAME_TTL" env-default:"24h"`
}

type Player struct {
	// TTL drops players that stopped writing, every write restarts it.
	TTL time.Duration `yaml:"ttl" env:"PLAYER_TTL" env-default:"168h"`
}

// Console is the configuration of the terminal client, read from the environment only.
type Console struct {
	ThinkDelay time.Duration `env:"TTT_THINK_DELAY" env-default:"1s"`
	LogFile    string        `env:"TTT_LOG_FILE" env-default:""`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// LoadConsole reads the console configuration from the environment.
func LoadConsole() (*Console, error) {
	config := &Console{}

	if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("unable to read console env: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
