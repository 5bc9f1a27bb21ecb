package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyAgainstEmbeddedSchema(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		cfg.Generation.OpenAI.APIKey = "key"
		setDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name   string
		modify func(cfg *Config)
		errMsg string
	}{
		{name: "valid config", modify: func(*Config) {}},
		{name: "missing server listen", modify: func(cfg *Config) { cfg.Server.Listen = "" }, errMsg: "server.listen is required"},
		{name: "missing feed url", modify: func(cfg *Config) { cfg.Feed.URL = "" }, errMsg: "feed.url is required"},
		{name: "non http feed url", modify: func(cfg *Config) { cfg.Feed.URL = "ftp://example.com/feed" }, errMsg: "feed.url must be http"},
		{name: "extraction without timeout", modify: func(cfg *Config) {
			cfg.Extraction.Enabled = true
			cfg.Extraction.Timeout = 0
		}, errMsg: "extraction.timeout is required"},
		{name: "missing audit path", modify: func(cfg *Config) { cfg.Audit.Path = "" }, errMsg: "audit.path is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.modify(cfg)
			err := VerifyAgainstEmbeddedSchema(cfg)
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestGenerateSchema(t *testing.T) {
	schema, err := GenerateSchema()
	require.NoError(t, err)
	require.NotNil(t, schema)
	require.NotNil(t, schema.Properties)

	for _, key := range []string{"server", "feed", "schedule", "generation", "extraction", "overlay", "audit", "notify"} {
		_, ok := schema.Properties.Get(key)
		assert.True(t, ok, "schema misses %s", key)
	}
}
