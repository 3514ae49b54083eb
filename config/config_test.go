package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(env map[string]string) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range env {
		v.Set(k, val)
	}
	return v
}

func required() map[string]string {
	return map[string]string{
		"APP_PASSWORD":        "secret",
		"JWT_SECRET":          "jwt",
		"GOOGLE_MAPS_API_KEY": "key",
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := fromViper(newViper(required()))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "mongo", cfg.Store)
	assert.Equal(t, []string{"me", "partner"}, cfg.Members)
	assert.Equal(t, "ko", cfg.MapsLanguage)
	assert.Equal(t, "us", cfg.MapsRegion)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestPortGetsColon(t *testing.T) {
	env := required()
	env["PORT"] = "9000"
	cfg, err := fromViper(newViper(env))
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Port)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"missing password", "APP_PASSWORD", ""},
		{"missing jwt secret", "JWT_SECRET", ""},
		{"missing maps key", "GOOGLE_MAPS_API_KEY", ""},
		{"one member", "TRIP_MEMBERS", "solo"},
		{"same member twice", "TRIP_MEMBERS", "a, a"},
		{"unknown store", "STORE", "postgres"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := required()
			env[tt.key] = tt.val
			_, err := fromViper(newViper(env))
			assert.Error(t, err)
		})
	}
}
