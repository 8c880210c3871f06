package config

import (
	"encoding/json"
	"log"
	"os"
	"strings"
)

type Configuration struct {
	ApiPort string `json:"api_port"`
	LogMode string `json:"log_mode"` // "dev" or "prod"

	Database string `json:"database"` // "sqlite3" or "postgres"
	DbHost   string `json:"db_host"`
	DbPort   string `json:"db_port"`
	DbUser   string `json:"db_user"`
	DbName   string `json:"db_name"`
	DbPass   string `json:"db_pass"`

	// Redis backs the webhook dedup window. Optional: when empty the
	// service falls back to an in-process window (single instance only).
	RedisAddr string `json:"redis_addr"`

	AI struct {
		BaseURL        string `json:"base_url"`
		Model          string `json:"model"`
		TimeoutSeconds int    `json:"timeout_seconds"`
	} `json:"ai"`

	Webhook struct {
		VerifyToken string `json:"verify_token"`
		AppSecret   string `json:"app_secret"`
	} `json:"webhook"`
}

func Get(path string) Configuration {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	var c Configuration
	if err := json.Unmarshal(b, &c); err != nil {
		log.Fatal(err)
	}
	return withDefaults(c)
}

func withDefaults(c Configuration) Configuration {
	if c.ApiPort == "" {
		c.ApiPort = "8080"
	}
	if c.LogMode == "" {
		c.LogMode = "dev"
	}
	if c.Database == "" {
		c.Database = "sqlite3"
	}
	if c.AI.BaseURL == "" {
		c.AI.BaseURL = getenv("AI_BASE_URL", "http://localhost:11434")
	}
	if c.AI.Model == "" {
		c.AI.Model = getenv("AI_MODEL", "llama3")
	}
	if c.AI.TimeoutSeconds <= 0 {
		c.AI.TimeoutSeconds = 45
	}
	if c.RedisAddr == "" {
		c.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	}
	if c.Webhook.VerifyToken == "" {
		c.Webhook.VerifyToken = strings.TrimSpace(os.Getenv("WEBHOOK_VERIFY_TOKEN"))
	}
	if c.Webhook.AppSecret == "" {
		c.Webhook.AppSecret = strings.TrimSpace(os.Getenv("META_APP_SECRET"))
	}
	return c
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}
