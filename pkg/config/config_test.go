package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	var c Config
	c.API.Versions = []string{"6.5.0", "7.0.0", "7.1.0", "8.0.0"}
	c.Backends.PackageURL = "http://pkgapi:8081"
	c.Backends.ImageURL = "http://imgapi:8082"
	c.Backends.MachineURL = "http://orchestrator:8083"
	c.Cache.Store = "memory"
	c.Cache.TTLSeconds = 60
	return &c
}

func TestValidate(t *testing.T) {
	t.Run("valid config parses versions once", func(t *testing.T) {
		c := validConfig()
		require.NoError(t, c.Validate())
		require.Len(t, c.SupportedVersions(), 4)
		assert.Equal(t, "6.5.0", c.SupportedVersions()[0].String())
	})

	t.Run("no versions", func(t *testing.T) {
		c := validConfig()
		c.API.Versions = nil
		assert.Error(t, c.Validate())
	})

	t.Run("malformed version fails fast", func(t *testing.T) {
		c := validConfig()
		c.API.Versions = []string{"7.0.0", "banana"}
		err := c.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "banana")
	})

	t.Run("malformed whitelist entry fails fast", func(t *testing.T) {
		c := validConfig()
		c.Features.BleedingEdgeWhitelist = []string{"alice", "bad login"}
		err := c.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad login")
	})

	t.Run("empty whitelist entry fails fast", func(t *testing.T) {
		c := validConfig()
		c.Features.BleedingEdgeWhitelist = []string{""}
		assert.Error(t, c.Validate())
	})

	t.Run("non-positive TTL", func(t *testing.T) {
		c := validConfig()
		c.Cache.TTLSeconds = 0
		assert.Error(t, c.Validate())
	})

	t.Run("unknown cache store", func(t *testing.T) {
		c := validConfig()
		c.Cache.Store = "memcached"
		assert.Error(t, c.Validate())
	})

	t.Run("bad backend URL", func(t *testing.T) {
		c := validConfig()
		c.Backends.ImageURL = "not a url"
		assert.Error(t, c.Validate())
	})
}
