package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port          string
	AllowedOrigin string
	BaseURL       string

	// Upstream LLM (Groq, OpenAI-compatible wire protocol)
	GroqAPIKey  string
	GroqBaseURL string
	Model       string
	PromptSpec  string

	// Database
	DatabaseURL string

	// Sessions
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// Mail (SES)
	AWSRegion  string
	MailSender string

	// Default timezone for users without one
	Timezone string
}

// Load reads .env (when present) and the environment. Every setting has an
// env override; only the secrets have no default. DB_URL may be left unset,
// in which case the server runs on the in-memory store.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("allowed_origin", "*")
	v.SetDefault("base_url", "http://localhost:8080")
	v.SetDefault("groq_base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("groq_model", "llama-3.3-70b-versatile")
	v.SetDefault("prompt_spec", "prompts/assistant.yaml")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("session_ttl_hours", 72)
	v.SetDefault("google_redirect_url", "http://localhost:8080/api/auth/google/callback")
	v.SetDefault("aws_region", "eu-west-1")
	v.SetDefault("mail_sender", "no-reply@localhost")
	v.SetDefault("app_timezone", "UTC")

	cfg := Config{
		Port:               v.GetString("port"),
		AllowedOrigin:      v.GetString("allowed_origin"),
		BaseURL:            strings.TrimRight(v.GetString("base_url"), "/"),
		GroqAPIKey:         v.GetString("groq_api_key"),
		GroqBaseURL:        v.GetString("groq_base_url"),
		Model:              v.GetString("groq_model"),
		PromptSpec:         v.GetString("prompt_spec"),
		DatabaseURL:        v.GetString("db_url"),
		RedisAddr:          v.GetString("redis_addr"),
		RedisPassword:      v.GetString("redis_password"),
		RedisDB:            v.GetInt("redis_db"),
		SessionTTL:         time.Duration(v.GetInt("session_ttl_hours")) * time.Hour,
		GoogleClientID:     v.GetString("google_client_id"),
		GoogleClientSecret: v.GetString("google_client_secret"),
		GoogleRedirectURL:  v.GetString("google_redirect_url"),
		AWSRegion:          v.GetString("aws_region"),
		MailSender:         v.GetString("mail_sender"),
		Timezone:           v.GetString("app_timezone"),
	}

	return cfg, nil
}
