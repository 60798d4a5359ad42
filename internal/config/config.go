package config

import (
	"errors"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/dyastin0/wormhole-client/internal/wire"
)

// DefaultRendezvousAddr is the public rendezvous server used when --address
// isn't given.
const DefaultRendezvousAddr = "wormhole.dyastin.dev:443"

// Config holds everything one tunnel run needs: the registration request,
// where to forward accepted streams, and which knobs are opt-in.
type Config struct {
	Proto          wire.Proto
	Name           string
	TargetAddr     string
	RendezvousAddr string
	WithMetrics    bool
	WithTLS        bool

	// Env holds settings sourced from the process environment rather than
	// CLI flags.
	Env *EnvConfig
}

// Load builds a Config from explicit values plus whatever EnvConfig
// contributes, and validates the result.
func Load(proto wire.Proto, name, targetAddr, rendezvousAddr string, withMetrics, withTLS bool) (*Config, error) {
	if rendezvousAddr == "" {
		rendezvousAddr = DefaultRendezvousAddr
	}
	cfg := &Config{
		Proto:          proto,
		Name:           strings.TrimSpace(name),
		TargetAddr:     targetAddr,
		RendezvousAddr: rendezvousAddr,
		WithMetrics:    withMetrics,
		WithTLS:        withTLS,
		Env:            LoadEnv(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration and collects every validation failure
// found, reporting them together instead of stopping at the first one.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Name == "" {
		result = multierror.Append(result, errors.New("name is required"))
	}
	if len(c.Name) > wire.MaxNameLength {
		result = multierror.Append(result, errors.New("name exceeds maximum length"))
	}
	if c.TargetAddr == "" {
		result = multierror.Append(result, errors.New("target address is required"))
	}
	if c.RendezvousAddr == "" {
		result = multierror.Append(result, errors.New("rendezvous address is required"))
	}
	if c.Proto != wire.ProtoHTTP && c.Proto != wire.ProtoTCP {
		result = multierror.Append(result, errors.New("proto must be http or tcp"))
	}

	if result == nil {
		return nil
	}
	result.ErrorFormat = func(errs []error) string {
		lines := make([]string, len(errs))
		for i, e := range errs {
			lines[i] = e.Error()
		}
		return "config validation failed:\n  - " + strings.Join(lines, "\n  - ")
	}
	return result
}
