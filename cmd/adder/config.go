package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-kit/kit/log/level"
)

type config struct {
	NameSpace       string        `env:"NAMESPACE" envDefault:"aidevops"`
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"adder"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"error"`
	Host            string        `env:"HOST" envDefault:"0.0.0.0"`
	HTTPPort        int           `env:"PORT" envDefault:"3000"`
	GRPCPort        string        `env:"GRPC_PORT"`
	ServiceHost     string        `env:"SERVICE_HOST" envDefault:"localhost"`
	ZipkinV2URL     string        `env:"ZIPKIN_V2_URL"`
	ConsulAddr      string        `env:"CONSUL_ADDR"`
	MetricsEnabled  bool          `env:"METRICS_ENABLED" envDefault:"true"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// loadConfig reads the process configuration from the environment.
func loadConfig() (cfg config, err error) {
	if err = env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if err = cfg.validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c config) validate() error {
	if c.HTTPPort < 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.GRPCPort != "" {
		p, err := strconv.Atoi(c.GRPCPort)
		if err != nil || p < 0 || p > 65535 {
			return fmt.Errorf("invalid gRPC port: %q", c.GRPCPort)
		}
	}
	if _, err := levelOption(c.LogLevel); err != nil {
		return err
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

func levelOption(s string) (level.Option, error) {
	switch s {
	case "debug":
		return level.AllowDebug(), nil
	case "info":
		return level.AllowInfo(), nil
	case "warn":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	default:
		return nil, fmt.Errorf("invalid log level: %q", s)
	}
}
