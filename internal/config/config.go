package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Remote    RemoteConfig    `mapstructure:"remote"`
	Email     EmailConfig     `mapstructure:"email"`
	WhatsApp  WhatsAppConfig  `mapstructure:"whatsapp"`
	Settings  SettingsConfig  `mapstructure:"settings"`
	Audit     AuditConfig     `mapstructure:"audit"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database connection configuration.
// When Enabled is false the audit log lives in memory only.
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// RemoteConfig points at the social-assistance REST API
type RemoteConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Email transports
const (
	EmailTransportAPI   = "api"
	EmailTransportGmail = "gmail"
)

// EmailConfig selects and configures the email channel
type EmailConfig struct {
	Transport string      `mapstructure:"transport"`
	Gmail     GmailConfig `mapstructure:"gmail"`
}

// GmailConfig holds Gmail API configuration
type GmailConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RefreshToken string `mapstructure:"refresh_token"`
	UserEmail    string `mapstructure:"user_email"`
}

// WhatsApp modes
const (
	WhatsAppModeSimulated = "simulated"
	WhatsAppModeCloud     = "cloud"
)

// WhatsAppConfig selects and configures the WhatsApp channel
type WhatsAppConfig struct {
	Mode           string        `mapstructure:"mode"`
	SimulatedDelay time.Duration `mapstructure:"simulated_delay"`
	APIURL         string        `mapstructure:"api_url"`
	Token          string        `mapstructure:"token"`
	PhoneNumberID  string        `mapstructure:"phone_number_id"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// Settings refresh policies
const (
	RefreshAlways = "always"
	RefreshMaxAge = "max_age"
	RefreshManual = "manual"
)

// SettingsConfig controls how the forwarding settings cache is invalidated
type SettingsConfig struct {
	Refresh string        `mapstructure:"refresh"`
	MaxAge  time.Duration `mapstructure:"max_age"`
}

// AuditConfig holds forwarding audit log configuration
type AuditConfig struct {
	Capacity int `mapstructure:"capacity"`
}

// SchedulerConfig holds scheduler configuration
type SchedulerConfig struct {
	Enabled                bool `mapstructure:"enabled"`
	TriageIntervalMinutes  int  `mapstructure:"triage_interval_minutes"`
	SettingsRefreshMinutes int  `mapstructure:"settings_refresh_minutes"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// LoadConfig loads configuration from a .env file, environment variables and config file
func LoadConfig() (*Config, error) {
	loadDotEnv(".env")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Environment variables override config file
	v.AutomaticEnv()
	bindEnvVars(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// loadDotEnv loads path into the environment. Variables already set win.
func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("Failed to load %s: %v", path, err)
	}
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)

	v.SetDefault("remote.timeout", "15s")

	v.SetDefault("email.transport", EmailTransportAPI)

	v.SetDefault("whatsapp.mode", WhatsAppModeSimulated)
	v.SetDefault("whatsapp.simulated_delay", "1s")
	v.SetDefault("whatsapp.api_url", "https://graph.facebook.com/v18.0")
	v.SetDefault("whatsapp.timeout", "15s")

	v.SetDefault("settings.refresh", RefreshAlways)
	v.SetDefault("settings.max_age", "1m")

	v.SetDefault("audit.capacity", 100)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.triage_interval_minutes", 15)
	v.SetDefault("scheduler.settings_refresh_minutes", 0)

	v.SetDefault("log.level", "info")
}

// bindEnvVars binds environment variables to configuration keys
func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.read_timeout", "SERVER_READ_TIMEOUT")
	v.BindEnv("server.write_timeout", "SERVER_WRITE_TIMEOUT")

	// Database
	v.BindEnv("database.enabled", "DB_ENABLED")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.dbname", "DB_NAME")

	// Remote API
	v.BindEnv("remote.base_url", "REMOTE_API_URL")
	v.BindEnv("remote.token", "REMOTE_API_TOKEN")
	v.BindEnv("remote.timeout", "REMOTE_API_TIMEOUT")

	// Email
	v.BindEnv("email.transport", "EMAIL_TRANSPORT")
	v.BindEnv("email.gmail.client_id", "GMAIL_CLIENT_ID")
	v.BindEnv("email.gmail.client_secret", "GMAIL_CLIENT_SECRET")
	v.BindEnv("email.gmail.refresh_token", "GMAIL_REFRESH_TOKEN")
	v.BindEnv("email.gmail.user_email", "GMAIL_USER_EMAIL")

	// WhatsApp
	v.BindEnv("whatsapp.mode", "WHATSAPP_MODE")
	v.BindEnv("whatsapp.simulated_delay", "WHATSAPP_SIMULATED_DELAY")
	v.BindEnv("whatsapp.api_url", "WHATSAPP_API_URL")
	v.BindEnv("whatsapp.token", "WHATSAPP_TOKEN")
	v.BindEnv("whatsapp.phone_number_id", "WHATSAPP_PHONE_NUMBER_ID")

	// Settings cache
	v.BindEnv("settings.refresh", "SETTINGS_REFRESH")
	v.BindEnv("settings.max_age", "SETTINGS_MAX_AGE")

	v.BindEnv("audit.capacity", "AUDIT_CAPACITY")

	// Scheduler
	v.BindEnv("scheduler.enabled", "SCHEDULER_ENABLED")
	v.BindEnv("scheduler.triage_interval_minutes", "SCHEDULER_TRIAGE_INTERVAL_MINUTES")
	v.BindEnv("scheduler.settings_refresh_minutes", "SCHEDULER_SETTINGS_REFRESH_MINUTES")

	v.BindEnv("log.level", "LOG_LEVEL")
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if c.Remote.BaseURL == "" {
		return fmt.Errorf("remote API base URL is required")
	}

	if c.Database.Enabled {
		if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
			return fmt.Errorf("database host, user, and dbname are required when the database is enabled")
		}
	}

	switch c.Email.Transport {
	case EmailTransportAPI:
	case EmailTransportGmail:
		g := c.Email.Gmail
		if g.ClientID == "" || g.ClientSecret == "" || g.RefreshToken == "" || g.UserEmail == "" {
			return fmt.Errorf("Gmail OAuth2 credentials and user email are required for the gmail transport")
		}
	default:
		return fmt.Errorf("unknown email transport %q", c.Email.Transport)
	}

	switch c.WhatsApp.Mode {
	case WhatsAppModeSimulated:
	case WhatsAppModeCloud:
		if c.WhatsApp.Token == "" || c.WhatsApp.PhoneNumberID == "" {
			return fmt.Errorf("WhatsApp token and phone number ID are required in cloud mode")
		}
	default:
		return fmt.Errorf("unknown WhatsApp mode %q", c.WhatsApp.Mode)
	}

	switch c.Settings.Refresh {
	case RefreshAlways, RefreshManual:
	case RefreshMaxAge:
		if c.Settings.MaxAge <= 0 {
			return fmt.Errorf("settings max_age must be greater than 0")
		}
	default:
		return fmt.Errorf("unknown settings refresh policy %q", c.Settings.Refresh)
	}

	if c.Audit.Capacity <= 0 {
		return fmt.Errorf("audit capacity must be greater than 0")
	}

	if c.Scheduler.Enabled && c.Scheduler.TriageIntervalMinutes <= 0 {
		return fmt.Errorf("scheduler triage interval must be greater than 0")
	}

	if c.Scheduler.SettingsRefreshMinutes < 0 {
		return fmt.Errorf("scheduler settings refresh interval cannot be negative")
	}

	return nil
}
