package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfig_applyDefaults(t *testing.T) {
	t.Parallel()

	t.Run("empty config gets defaults", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{}
		cfg.applyDefaults()

		require.Equal(t, DefaultRegion, cfg.Region)
		require.Equal(t, ACLPrivate, cfg.DefaultACL)
	})

	t.Run("existing values preserved", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Region: "eu-central-1", DefaultACL: ACLPublicRead}
		cfg.applyDefaults()

		require.Equal(t, "eu-central-1", cfg.Region)
		require.Equal(t, ACLPublicRead, cfg.DefaultACL)
	})
}

func TestConfig_validate(t *testing.T) {
	t.Parallel()

	valid := Config{Bucket: "reports", AccessKey: "key", SecretKey: "secret", DefaultACL: ACLPrivate}

	tests := []struct {
		mutate  func(*Config)
		name    string
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing bucket", mutate: func(c *Config) { c.Bucket = "" }, wantErr: true},
		{name: "missing access key", mutate: func(c *Config) { c.AccessKey = "" }, wantErr: true},
		{name: "missing secret key", mutate: func(c *Config) { c.SecretKey = "" }, wantErr: true},
		{name: "unknown acl", mutate: func(c *Config) { c.DefaultACL = "authenticated-read" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
		})
	}
}
