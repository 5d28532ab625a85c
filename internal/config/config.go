package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBUri  string
	DBName string

	JWTSecret            string
	ClientSignupTokenTTL time.Duration
	ClientLoginTokenTTL  time.Duration
	UserTokenTTL         time.Duration
	AuthTokenTTL         time.Duration
	ResetTokenTTL        time.Duration

	SMTPHost  string
	SMTPPort  int
	EmailUser string
	EmailPass string
	EmailFrom string

	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Endpoint        string

	FrontendURL string

	RateLimit float64
	RateBurst int

	LogLevel string
	LogFile  string
}

var required = []string{
	"DB_URI",
	"JWT_SECRET",
	"EMAIL_USER",
	"EMAIL_PASS",
	"S3_REGION",
	"S3_BUCKET",
	"S3_ACCESS_KEY_ID",
	"S3_SECRET_ACCESS_KEY",
	"URL_BASE_FRONTEND",
}

// LoadConfig reads the environment once at startup. A missing required
// variable or an unparsable value is an error.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, reading configuration from the environment")
	}

	var missing []string
	for _, key := range required {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	p := &parser{}
	cfg := &Config{
		Port:   getEnv("PORT", "8080"),
		DBUri:  os.Getenv("DB_URI"),
		DBName: getEnv("DB_NAME", "bazar-isa"),

		JWTSecret:            os.Getenv("JWT_SECRET"),
		ClientSignupTokenTTL: p.duration("CLIENT_SIGNUP_TOKEN_TTL", 3*time.Hour),
		ClientLoginTokenTTL:  p.duration("CLIENT_LOGIN_TOKEN_TTL", time.Hour),
		UserTokenTTL:         p.duration("USER_TOKEN_TTL", time.Hour),
		AuthTokenTTL:         p.duration("AUTH_TOKEN_TTL", 8*time.Hour),
		ResetTokenTTL:        p.duration("RESET_TOKEN_TTL", time.Hour),

		SMTPHost:  getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:  p.integer("SMTP_PORT", 587),
		EmailUser: os.Getenv("EMAIL_USER"),
		EmailPass: os.Getenv("EMAIL_PASS"),
		EmailFrom: getEnv("EMAIL_FROM", os.Getenv("EMAIL_USER")),

		S3Region:          os.Getenv("S3_REGION"),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),

		FrontendURL: strings.TrimRight(os.Getenv("URL_BASE_FRONTEND"), "/"),

		RateLimit: p.float("RATE_LIMIT", 10),
		RateBurst: p.integer("RATE_BURST", 20),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),
	}
	if len(p.errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(p.errs, "; "))
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parser collects conversion errors so they can be reported together.
type parser struct {
	errs []string
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		p.errs = append(p.errs, fmt.Sprintf("%s: %q is not a positive duration", key, v))
		return def
	}
	return d
}

func (p *parser) integer(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Sprintf("%s: %q is not an integer", key, v))
		return def
	}
	return n
}

func (p *parser) float(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Sprintf("%s: %q is not a number", key, v))
		return def
	}
	return f
}
