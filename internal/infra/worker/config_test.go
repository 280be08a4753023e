package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 9091, cfg.HealthPort)
	assert.Equal(t, ":9091", cfg.HealthAddr())
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "valid tokyo", cfg: Config{Timezone: "Asia/Tokyo", HealthPort: 9091}},
		{name: "bad timezone", cfg: Config{Timezone: "Mars/Olympus", HealthPort: 9091}, wantErr: true},
		{name: "privileged port", cfg: Config{Timezone: "UTC", HealthPort: 80}, wantErr: true},
		{name: "port too high", cfg: Config{Timezone: "UTC", HealthPort: 70000}, wantErr: true},
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

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("TIMEZONE", "Europe/London")
	t.Setenv("HEALTH_PORT", "9191")

	cfg := LoadConfigFromEnv(nil)

	assert.Equal(t, Config{Timezone: "Europe/London", HealthPort: 9191}, cfg)
}

func TestLoadConfigFromEnv_InvalidFallsBack(t *testing.T) {
	t.Setenv("TIMEZONE", "Nowhere/Special")
	t.Setenv("HEALTH_PORT", "22")

	cfg := LoadConfigFromEnv(nil)

	assert.Equal(t, DefaultConfig(), cfg)
}
