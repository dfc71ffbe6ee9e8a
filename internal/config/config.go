package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// API
	APIPort         int
	APIKey          string
	CORSAllowOrigin string

	// Database
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	// Dashboard render probe
	ProbeURL             string
	ProbeIntervalMinutes int

	// Notifications
	WebhookURL string
	AppName    string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		// API
		APIPort:         envInt("API_PORT", 3001),
		APIKey:          envStr("API_KEY", ""),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),

		// Database
		DBHost:     envStr("DB_HOST", "localhost"),
		DBPort:     envInt("DB_PORT", 5432),
		DBName:     envStr("DB_NAME", "income_clarity"),
		DBUser:     envStr("DB_USER", ""),
		DBPassword: envStr("DB_PASSWORD", ""),

		// Render probe
		ProbeURL:             envStr("PROBE_URL", "http://localhost:3000"),
		ProbeIntervalMinutes: envInt("PROBE_INTERVAL_MINUTES", 0),

		// Notifications
		WebhookURL: envStr("WEBHOOK_URL", ""),
		AppName:    envStr("APP_NAME", "IncomeClarityPrices"),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	if c.DBUser == "" {
		errs = append(errs, "DB_USER is required")
	}
	if c.DBName == "" {
		errs = append(errs, "DB_NAME is required")
	}
	if c.APIKey == "" {
		fmt.Println("[WARN] API_KEY not set, REST API has no authentication")
	}
	if c.WebhookURL == "" && c.ProbeIntervalMinutes > 0 {
		fmt.Println("[WARN] WEBHOOK_URL not set, probe alerts will only reach the console")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Print() {
	fmt.Println("=== Income Clarity Prices Backend Configuration ===")
	fmt.Printf("API Port: %d\n", c.APIPort)
	fmt.Printf("Auth: %s\n", boolLabel(c.APIKey != "", "enabled (Bearer token)", "disabled"))
	fmt.Printf("CORS Origin: %s\n", c.CORSAllowOrigin)
	fmt.Println("---------------------------------------------------")
	fmt.Printf("Database: %s:%d/%s\n", c.DBHost, c.DBPort, c.DBName)
	fmt.Println("---------------------------------------------------")
	if c.ProbeIntervalMinutes > 0 {
		fmt.Printf("Render Probe: %s every %d minutes\n", c.ProbeURL, c.ProbeIntervalMinutes)
	} else {
		fmt.Println("Render Probe: disabled (PROBE_INTERVAL_MINUTES = 0)")
	}
	fmt.Printf("Webhook: %s\n", boolLabel(c.WebhookURL != "", "configured", "not set"))
	fmt.Println("===================================================")
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
