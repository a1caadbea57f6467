package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// InsecureDefaultSecret используется, если секрет подписи cookie не задан. Только для локального запуска
const InsecureDefaultSecret = "dev-insecure-rate-limit-secret"

// Допустимые значения
const (
	FormBasic = "basic"
	FormFull  = "full"

	PhoneFormatGeneric = "generic"
	PhoneFormatSwedish = "swedish"

	BackendAuto    = ""
	BackendSMS     = "sms"
	BackendWebhook = "webhook"
)

var ErrInvalidConfig = errors.New("config: invalid value")

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	RateLimit  RateLimitConfig  `toml:"ratelimit"`
	Validation ValidationConfig `toml:"validation"`
	Notifier   NotifierConfig   `toml:"notifier"`
	SMS        SMSConfig        `toml:"sms"`
	Webhook    WebhookConfig    `toml:"webhook"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type RateLimitConfig struct {
	Secret        string `toml:"secret"`
	CookieName    string `toml:"cookie_name"`
	WindowSeconds int    `toml:"window_seconds"`
	MaxAgeSeconds int    `toml:"max_age_seconds"`
	// ChargeFailedSends выставлять cookie даже если уведомление не ушло
	ChargeFailedSends bool `toml:"charge_failed_sends"`
}

type ValidationConfig struct {
	Form        string `toml:"form"`
	PhoneFormat string `toml:"phone_format"`
}

type NotifierConfig struct {
	Backend        string `toml:"backend"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type SMSConfig struct {
	BaseURL             string   `toml:"base_url"`
	AccountSID          string   `toml:"account_sid"`
	AuthToken           string   `toml:"auth_token"`
	FromNumber          string   `toml:"from_number"`
	MessagingServiceSID string   `toml:"messaging_service_sid"`
	Recipients          []string `toml:"recipients"`
}

type WebhookConfig struct {
	URL string `toml:"url"`
}

// LookupFunc источник переменных окружения
type LookupFunc func(key string) (string, bool)

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    30,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "pant_booking",
		},
		RateLimit: RateLimitConfig{
			CookieName:        "rl",
			WindowSeconds:     60,
			MaxAgeSeconds:     86400,
			ChargeFailedSends: true,
		},
		Validation: ValidationConfig{
			Form:        FormBasic,
			PhoneFormat: PhoneFormatGeneric,
		},
		Notifier: NotifierConfig{
			Backend:        BackendAuto,
			TimeoutSeconds: 10,
		},
		SMS: SMSConfig{
			BaseURL: "https://api.twilio.com",
		},
	}
}

// Load загружает конфигурацию: значения по умолчанию, затем TOML файл, затем .env, затем окружение процесса.
// Отсутствующие файлы пропускаются
func Load(configPath, envPath string) (*Config, error) {
	dotenv := map[string]string{}
	if envPath != "" {
		values, err := godotenv.Read(envPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read env file %s: %w", envPath, err)
		}
		if values != nil {
			dotenv = values
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	return LoadWithLookup(configPath, lookup)
}

// LoadWithLookup то же, что Load, но с явным источником переменных окружения
func LoadWithLookup(configPath string, lookup LookupFunc) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if _, err := toml.DecodeFile(configPath, cfg); err != nil {
				return nil, fmt.Errorf("failed to decode config file %s: %w", configPath, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file %s: %w", configPath, err)
		}
	}

	if err := applyEnv(cfg, lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config, lookup LookupFunc) error {
	var errs []error

	setString := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	setInt := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			i, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, v))
				return
			}
			*dst = i
		}
	}
	setBool := func(key string, dst *bool) {
		if v, ok := lookup(key); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, key, v))
				return
			}
			*dst = b
		}
	}

	setInt("PORT", &cfg.Server.HTTPPort)
	setString("LOG_LEVEL", &cfg.Logs.Level)
	setString("LOG_FILE", &cfg.Logs.File)
	setBool("METRICS_ENABLED", &cfg.Metrics.Enabled)

	setString("RATE_LIMIT_SECRET", &cfg.RateLimit.Secret)
	setInt("RATE_LIMIT_WINDOW_SECONDS", &cfg.RateLimit.WindowSeconds)
	setBool("RATE_LIMIT_CHARGE_FAILED_SENDS", &cfg.RateLimit.ChargeFailedSends)

	setString("BOOKING_FORM", &cfg.Validation.Form)
	setString("PHONE_FORMAT", &cfg.Validation.PhoneFormat)

	setString("NOTIFIER_BACKEND", &cfg.Notifier.Backend)
	setInt("NOTIFIER_TIMEOUT_SECONDS", &cfg.Notifier.TimeoutSeconds)

	setString("TWILIO_BASE_URL", &cfg.SMS.BaseURL)
	setString("TWILIO_ACCOUNT_SID", &cfg.SMS.AccountSID)
	setString("TWILIO_AUTH_TOKEN", &cfg.SMS.AuthToken)
	setString("TWILIO_FROM_NUMBER", &cfg.SMS.FromNumber)
	setString("TWILIO_MESSAGING_SERVICE_SID", &cfg.SMS.MessagingServiceSID)
	if v, ok := lookup("OWNER_PHONE_NUMBERS"); ok {
		cfg.SMS.Recipients = SplitList(v)
	}

	setString("DISCORD_WEBHOOK_URL", &cfg.Webhook.URL)

	return errors.Join(errs...)
}

// Validate проверяет значения, с которыми сервис не может стартовать.
// Отсутствие учётных данных уведомителя здесь не ошибка: оно проявляется ответом 500 на запрос
func (c *Config) Validate() error {
	switch c.Validation.Form {
	case FormBasic, FormFull:
	default:
		return fmt.Errorf("%w: validation.form=%q", ErrInvalidConfig, c.Validation.Form)
	}

	switch c.Validation.PhoneFormat {
	case PhoneFormatGeneric, PhoneFormatSwedish:
	default:
		return fmt.Errorf("%w: validation.phone_format=%q", ErrInvalidConfig, c.Validation.PhoneFormat)
	}

	switch c.Notifier.Backend {
	case BackendAuto, BackendSMS, BackendWebhook:
	default:
		return fmt.Errorf("%w: notifier.backend=%q", ErrInvalidConfig, c.Notifier.Backend)
	}

	if c.RateLimit.WindowSeconds <= 0 {
		return fmt.Errorf("%w: ratelimit.window_seconds must be positive", ErrInvalidConfig)
	}
	if c.RateLimit.MaxAgeSeconds <= 0 {
		return fmt.Errorf("%w: ratelimit.max_age_seconds must be positive", ErrInvalidConfig)
	}
	if c.RateLimit.CookieName == "" {
		return fmt.Errorf("%w: ratelimit.cookie_name is empty", ErrInvalidConfig)
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port=%d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("%w: metrics.path=%q must start with /", ErrInvalidConfig, c.Metrics.Path)
	}
	if c.Notifier.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: notifier.timeout_seconds must be positive", ErrInvalidConfig)
	}

	return nil
}

// UsesInsecureSecret true, если секрет не задан и будет использован небезопасный дефолт
func (c *Config) UsesInsecureSecret() bool {
	return c.RateLimit.Secret == ""
}

// SigningSecret секрет подписи cookie с учётом дефолта
func (c *Config) SigningSecret() string {
	if c.RateLimit.Secret == "" {
		return InsecureDefaultSecret
	}
	return c.RateLimit.Secret
}

// SplitList разбирает список через запятую, отбрасывая пустые элементы
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
