package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds the ambient settings that come from the process
// environment rather than CLI flags: where the metrics server listens and
// how long a local dial is allowed to take before it's treated as a
// failure.
type EnvConfig struct {
	MetricsListen string        `env:"WORMHOLE_METRICS_LISTEN" envDefault:":9090"`
	DialTimeout   time.Duration `env:"WORMHOLE_DIAL_TIMEOUT" envDefault:"10s"`
}

// LoadEnv parses EnvConfig from the environment, falling back to its
// defaults if parsing fails for any reason (a malformed duration, say)
// rather than aborting startup over an ambient setting.
func LoadEnv() *EnvConfig {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return &EnvConfig{
			MetricsListen: ":9090",
			DialTimeout:   10 * time.Second,
		}
	}
	return &cfg
}
