package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name:    "default configuration",
			envVars: map[string]string{},
			wantErr: false,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "development", cfg.Environment)
				assert.True(t, cfg.IsDevelopment())
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
				assert.Equal(t, "http://localhost:8081", cfg.Keycloak.BaseURL)
				assert.Equal(t, "demo", cfg.Keycloak.Realm)
				assert.Equal(t, "/login", cfg.Keycloak.LoginURL)
				assert.Equal(t, 30*time.Second, cfg.Keycloak.TokenLeeway)
				assert.Equal(t, "info", cfg.Observability.LogLevel)
				assert.Equal(t, "json", cfg.Observability.LogFormat)
			},
		},
		{
			name: "environment overrides",
			envVars: map[string]string{
				"ENVIRONMENT":        "production",
				"SERVER_PORT":        "9000",
				"KEYCLOAK_BASE_URL":  "https://id.example.com",
				"KEYCLOAK_REALM":     "prod",
				"KEYCLOAK_CLIENT_ID": "gateway",
				"TOKEN_LEEWAY":       "1m",
				"LOG_LEVEL":          "warn",
				"LOG_FORMAT":         "console",
			},
			wantErr: false,
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.IsProduction())
				assert.Equal(t, 9000, cfg.Server.Port)
				assert.Equal(t, "https://id.example.com", cfg.Keycloak.BaseURL)
				assert.Equal(t, "prod", cfg.Keycloak.Realm)
				assert.Equal(t, time.Minute, cfg.Keycloak.TokenLeeway)
				assert.Equal(t, "warn", cfg.Observability.LogLevel)
				assert.Equal(t, "console", cfg.Observability.LogFormat)
			},
		},
		{
			name: "invalid environment is rejected",
			envVars: map[string]string{
				"ENVIRONMENT": "sandbox",
			},
			wantErr: true,
		},
		{
			name: "invalid log level is rejected",
			envVars: map[string]string{
				"LOG_LEVEL": "verbose",
			},
			wantErr: true,
		},
		{
			name: "non-url keycloak base is rejected",
			envVars: map[string]string{
				"KEYCLOAK_BASE_URL": "not a url",
			},
			wantErr: true,
		},
		{
			name: "unparseable port falls back to default",
			envVars: map[string]string{
				"SERVER_PORT": "not-a-number",
			},
			wantErr: false,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := New()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}
