package refresh

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 15*time.Minute, cfg.TTL)
	assert.Equal(t, 5*time.Minute, cfg.EmergencyTTL)
	assert.Equal(t, "@every 15m0s", cfg.Schedule())
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TTL = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Timeout = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want Config
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			want: DefaultConfig(),
		},
		{
			name: "overrides",
			env: map[string]string{
				"CACHE_TTL":           "30m",
				"EMERGENCY_CACHE_TTL": "2m",
				"REFRESH_TIMEOUT":     "5m",
			},
			want: Config{TTL: 30 * time.Minute, EmergencyTTL: 2 * time.Minute, Timeout: 5 * time.Minute},
		},
		{
			name: "invalid values fall back",
			env: map[string]string{
				"CACHE_TTL":           "10s",
				"EMERGENCY_CACHE_TTL": "soon",
				"REFRESH_TIMEOUT":     "48h",
			},
			want: DefaultConfig(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"CACHE_TTL", "EMERGENCY_CACHE_TTL", "REFRESH_TIMEOUT"} {
				t.Setenv(k, tt.env[k])
			}
			assert.Equal(t, tt.want, LoadConfigFromEnv(nil))
		})
	}
}
