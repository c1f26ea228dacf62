package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080"},
		Remote: RemoteConfig{BaseURL: "http://api.local"},
		Email:  EmailConfig{Transport: EmailTransportAPI},
		WhatsApp: WhatsAppConfig{
			Mode: WhatsAppModeSimulated,
		},
		Settings:  SettingsConfig{Refresh: RefreshAlways},
		Audit:     AuditConfig{Capacity: 100},
		Scheduler: SchedulerConfig{Enabled: true, TriageIntervalMinutes: 15},
	}
}

func TestConfigValidation(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	invalidConfig := &Config{
		Server: ServerConfig{
			Port: "",
		},
	}
	assert.Error(t, invalidConfig.Validate())
}

func TestConfigValidationModes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing remote url", func(c *Config) { c.Remote.BaseURL = "" }},
		{"database without credentials", func(c *Config) { c.Database.Enabled = true }},
		{"gmail without credentials", func(c *Config) { c.Email.Transport = EmailTransportGmail }},
		{"unknown email transport", func(c *Config) { c.Email.Transport = "smtp" }},
		{"cloud whatsapp without token", func(c *Config) { c.WhatsApp.Mode = WhatsAppModeCloud }},
		{"unknown whatsapp mode", func(c *Config) { c.WhatsApp.Mode = "sms" }},
		{"max age policy without duration", func(c *Config) { c.Settings.Refresh = RefreshMaxAge }},
		{"unknown refresh policy", func(c *Config) { c.Settings.Refresh = "sometimes" }},
		{"zero audit capacity", func(c *Config) { c.Audit.Capacity = 0 }},
		{"zero triage interval", func(c *Config) { c.Scheduler.TriageIntervalMinutes = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := validConfig()
	cfg.Settings.Refresh = RefreshMaxAge
	cfg.Settings.MaxAge = time.Minute
	cfg.WhatsApp = WhatsAppConfig{Mode: WhatsAppModeCloud, Token: "t", PhoneNumberID: "123"}
	assert.NoError(t, cfg.Validate())
}

func TestDatabaseDSN(t *testing.T) {
	config := DatabaseConfig{
		Host:     "localhost",
		Port:     3306,
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
	}

	expected := "testuser:testpass@tcp(localhost:3306)/testdb?charset=utf8mb4&parseTime=True&loc=Local"
	assert.Equal(t, expected, config.GetDSN())
}

func TestLoadConfigDefaultsAndEnv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("REMOTE_API_URL=http://from-dotenv\nWHATSAPP_MODE=simulated\nSERVER_PORT=7070\n"), 0o600))
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port, "environment wins over .env")
	assert.Equal(t, "http://from-dotenv", cfg.Remote.BaseURL)
	assert.Equal(t, EmailTransportAPI, cfg.Email.Transport)
	assert.Equal(t, WhatsAppModeSimulated, cfg.WhatsApp.Mode)
	assert.Equal(t, time.Second, cfg.WhatsApp.SimulatedDelay)
	assert.Equal(t, RefreshAlways, cfg.Settings.Refresh)
	assert.Equal(t, 100, cfg.Audit.Capacity)
	assert.NoError(t, cfg.Validate())

	os.Unsetenv("REMOTE_API_URL")
	os.Unsetenv("WHATSAPP_MODE")
}
