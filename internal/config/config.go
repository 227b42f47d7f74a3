package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	AppEnv   string
	HTTPAddr string

	DatabaseURL string

	JWTIssuer   string
	JWTSecret   string
	TokenTTLHrs int

	CORSOrigins []string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	// storefront client settings
	APIBaseURL    string
	StateFile     string
	OrdersBackend string
}

func Load() Config {
	return Config{
		AppEnv:   get("APP_ENV", "dev"),
		HTTPAddr: get("HTTP_ADDR", ":8081"),

		DatabaseURL: get("DATABASE_URL", ""),

		JWTIssuer:   get("JWT_ISSUER", "Smartbuy"),
		JWTSecret:   get("JWT_SECRET", ""),
		TokenTTLHrs: getInt("TOKEN_TTL_HOURS", 24),

		CORSOrigins: getList("CORS_ORIGINS", "http://localhost:3000"),

		SMTPHost: get("SMTP_HOST", ""),
		SMTPPort: getInt("SMTP_PORT", 587),
		SMTPUser: get("SMTP_USER", ""),
		SMTPPass: get("SMTP_PASS", ""),
		SMTPFrom: get("SMTP_FROM", ""),

		APIBaseURL:    get("API_BASE_URL", "http://localhost:8081"),
		StateFile:     get("STATE_FILE", ""),
		OrdersBackend: get("ORDERS_BACKEND", "mock"),
	}
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getList(k, def string) []string {
	v := get(k, def)
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
