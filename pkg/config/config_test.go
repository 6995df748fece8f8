package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.InDelta(t, 0.10, cfg.TopValueFraction, 1e-9)
	assert.Equal(t, 3000, cfg.MinSlotSalary)
	assert.Equal(t, "cash", cfg.DefaultStrategy)
	assert.NotEmpty(t, cfg.CorsOrigins)
	assert.Equal(t, 6*time.Hour, cfg.SessionIdleTimeout)
	assert.Equal(t, 10*time.Minute, cfg.FeedCacheTTL)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("TOP_VALUE_FRACTION", "0.25")
	t.Setenv("DEFAULT_STRATEGY", "greedy")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.InDelta(t, 0.25, cfg.TopValueFraction, 1e-9)
	assert.Equal(t, "greedy", cfg.DefaultStrategy)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{TopValueFraction: 0.1, DatabaseDriver: "sqlite"}, false},
		{"zero fraction", Config{TopValueFraction: 0, DatabaseDriver: "sqlite"}, true},
		{"fraction of one", Config{TopValueFraction: 1, DatabaseDriver: "postgres"}, true},
		{"negative min salary", Config{TopValueFraction: 0.1, MinSlotSalary: -1, DatabaseDriver: "postgres"}, true},
		{"unknown driver", Config{TopValueFraction: 0.1, DatabaseDriver: "mysql"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnvironmentHelpers(t *testing.T) {
	assert.True(t, (&Config{Env: "development"}).IsDevelopment())
	assert.True(t, (&Config{Env: "production"}).IsProduction())
	assert.False(t, (&Config{Env: "production"}).IsDevelopment())
}
