package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "dam_aji.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "dam-aji-tournament-storage", cfg.SessionKey)
	assert.Equal(t, 24*time.Hour, cfg.SessionLifetime)
	assert.Equal(t, "file://migrations", cfg.MigrationsPath)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.MainAdminEmails)
	assert.False(t, cfg.Google.Enabled())
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"SERVER_PORT":       "9000",
		"SESSION_LIFETIME":  "2h",
		"MAIN_ADMIN_EMAILS": " Ketua@LKIM.gov.my, ,urusan@lkim.gov.my",
		"GOOGLE_KEY":        "key",
		"GOOGLE_SECRET":     "secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Equal(t, 2*time.Hour, cfg.SessionLifetime)
	assert.Equal(t, []string{"ketua@lkim.gov.my", "urusan@lkim.gov.my"}, cfg.MainAdminEmails)
	assert.True(t, cfg.Google.Enabled())
}

func TestFromEnvInvalid(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "Port not a number", env: map[string]string{"SERVER_PORT": "http"}},
		{name: "Port out of range", env: map[string]string{"SERVER_PORT": "70000"}},
		{name: "Bad lifetime", env: map[string]string{"SESSION_LIFETIME": "sehari"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromEnv(envOf(tc.env))
			assert.Error(t, err)
		})
	}
}
