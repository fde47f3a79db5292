package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	SinkRedis = "redis"
	SinkNATS  = "nats"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	Redis      Redis  `yaml:"redis"`
	Score      Score  `yaml:"score"`
	NATS       NATS   `yaml:"nats"`
	Socket     Socket `yaml:"socket"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Score selects where finished wins are reported.
type Score struct {
	Sink      string        `yaml:"sink" env:"SCORE_SINK" env-default:"redis"`
	QueueSize int           `yaml:"queue-size" env:"SCORE_QUEUE_SIZE" env-default:"256"`
	Timeout   time.Duration `yaml:"timeout" env:"SCORE_TIMEOUT" env-default:"3s"`
}

type NATS struct {
	URL     string `yaml:"url" env:"NATS_URL" env-default:"nats://localhost:4222"`
	Subject string `yaml:"subject" env:"NATS_SUBJECT" env-default:"tictactoe.wins"`
}

type Socket struct {
	SendBuffer int           `yaml:"send-buffer" env:"SOCKET_SEND_BUFFER" env-default:"64"`
	PingPeriod time.Duration `yaml:"ping-period" env:"SOCKET_PING_PERIOD" env-default:"54s"`
	PongWait   time.Duration `yaml:"pong-wait" env:"SOCKET_PONG_WAIT" env-default:"60s"`
	WriteWait  time.Duration `yaml:"write-wait" env:"SOCKET_WRITE_WAIT" env-default:"10s"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	switch {
	case that.Score.Sink != SinkRedis && that.Score.Sink != SinkNATS:
		return fmt.Errorf("%w: unknown score sink %q", ErrInvalidConfig, that.Score.Sink)
	case that.Score.QueueSize < 1:
		return fmt.Errorf("%w: score queue size must be positive", ErrInvalidConfig)
	case that.Score.Timeout <= 0:
		return fmt.Errorf("%w: score timeout must be positive", ErrInvalidConfig)
	case that.Socket.SendBuffer < 1:
		return fmt.Errorf("%w: socket send buffer must be positive", ErrInvalidConfig)
	case that.Socket.PingPeriod <= 0 || that.Socket.PingPeriod >= that.Socket.PongWait:
		return fmt.Errorf("%w: socket ping period must be shorter than pong wait", ErrInvalidConfig)
	case that.Socket.WriteWait <= 0:
		return fmt.Errorf("%w: socket write wait must be positive", ErrInvalidConfig)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
