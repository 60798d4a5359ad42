package config

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyastin0/wormhole-client/internal/wire"
)

func TestValidateCollectsEveryProblem(t *testing.T) {
	c := &Config{}
	err := c.Validate()
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 4) // name, target addr, rendezvous addr, proto

	assert.Contains(t, err.Error(), "config validation failed:")
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "target address is required")
	assert.Contains(t, err.Error(), "rendezvous address is required")
	assert.Contains(t, err.Error(), "proto must be http or tcp")
}

func TestValidateRejectsOversizedName(t *testing.T) {
	name := make([]byte, wire.MaxNameLength+1)
	for i := range name {
		name[i] = 'a'
	}
	c := &Config{
		Name:           string(name),
		TargetAddr:     "127.0.0.1:8080",
		RendezvousAddr: "wormhole.example:443",
		Proto:          wire.ProtoHTTP,
	}
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name exceeds maximum length")
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	c := &Config{
		Name:           "alpha",
		TargetAddr:     "127.0.0.1:8080",
		RendezvousAddr: "wormhole.example:443",
		Proto:          wire.ProtoTCP,
	}
	assert.NoError(t, c.Validate())
}

func TestLoadDefaultsRendezvousAddrAndTrimsName(t *testing.T) {
	cfg, err := Load(wire.ProtoHTTP, "  alpha  ", "127.0.0.1:8080", "", false, false)
	require.NoError(t, err)
	assert.Equal(t, "alpha", cfg.Name)
	assert.Equal(t, DefaultRendezvousAddr, cfg.RendezvousAddr)
	require.NotNil(t, cfg.Env)
}

func TestLoadPropagatesValidationFailure(t *testing.T) {
	_, err := Load(wire.ProtoHTTP, "", "", "", false, false)
	assert.Error(t, err)
}
