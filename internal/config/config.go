package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	AccessSecret string
}

type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type WhatsAppConfig struct {
	Token   string
	PhoneID string
	BaseURL string
	Timeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	StatsTTL time.Duration
}

type WorkflowConfig struct {
	// Strict switches the transition policy from the permissive any-to-any
	// graph to the forward adjacency table.
	Strict bool
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	AI          AIConfig
	WhatsApp    WhatsAppConfig
	Redis       RedisConfig
	Workflow    WorkflowConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")

	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		AI: AIConfig{
			APIKey:  v.GetString("GROQ_API_KEY"),
			BaseURL: v.GetString("GROQ_BASE_URL"),
			Model:   v.GetString("GROQ_MODEL"),
			Timeout: v.GetDuration("AI_TIMEOUT"),
		},
		WhatsApp: WhatsAppConfig{
			Token:   v.GetString("WHATSAPP_TOKEN"),
			PhoneID: v.GetString("WHATSAPP_PHONE_ID"),
			BaseURL: v.GetString("WHATSAPP_BASE_URL"),
			Timeout: v.GetDuration("NOTIFY_TIMEOUT"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			StatsTTL: v.GetDuration("STATS_CACHE_TTL"),
		},
		Workflow: WorkflowConfig{
			Strict: v.GetBool("WORKFLOW_STRICT"),
		},
	}

	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "llama-3.1-8b-instant"
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 20 * time.Second
	}
	if cfg.WhatsApp.BaseURL == "" {
		cfg.WhatsApp.BaseURL = "https://graph.facebook.com/v19.0"
	}
	if cfg.WhatsApp.Timeout == 0 {
		cfg.WhatsApp.Timeout = 5 * time.Second
	}
	if cfg.Redis.StatsTTL == 0 {
		cfg.Redis.StatsTTL = 30 * time.Second
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.AI.APIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is required")
	}
	return nil
}
