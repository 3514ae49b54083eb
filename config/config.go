package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	CORSOrigins []string
	LogLevel    string

	// Store selects the document store backend: "mongo" or "memory".
	Store    string
	MongoURI string
	MongoDB  string

	// RedisURL is optional; without it lookups are not cached and the change
	// feed stays in-process.
	RedisURL      string
	RedisPassword string

	MapsAPIKey   string
	MapsLanguage string
	MapsRegion   string
	MapsQPS      float64

	AppPassword string
	JWTSecret   string
	SessionTTL  time.Duration

	// PDFFont is an optional UTF-8 TrueType font for the trip PDF.
	PDFFont string

	// Members are the two trip members; checklist and expenses are per member.
	Members []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", ":8080")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE", "mongo")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "roadtrip")
	v.SetDefault("MAPS_LANGUAGE", "ko")
	v.SetDefault("MAPS_REGION", "us")
	v.SetDefault("MAPS_QPS", 10)
	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("TRIP_MEMBERS", "me,partner")
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found; using system environment")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:          v.GetString("PORT"),
		CORSOrigins:   splitList(v.GetString("CORS_ORIGINS")),
		LogLevel:      v.GetString("LOG_LEVEL"),
		Store:         strings.ToLower(v.GetString("STORE")),
		MongoURI:      v.GetString("MONGO_URI"),
		MongoDB:       v.GetString("MONGO_DB"),
		RedisURL:      v.GetString("REDIS_URL"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		MapsAPIKey:    v.GetString("GOOGLE_MAPS_API_KEY"),
		MapsLanguage:  v.GetString("MAPS_LANGUAGE"),
		MapsRegion:    v.GetString("MAPS_REGION"),
		MapsQPS:       v.GetFloat64("MAPS_QPS"),
		AppPassword:   v.GetString("APP_PASSWORD"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		SessionTTL:    v.GetDuration("SESSION_TTL"),
		PDFFont:       v.GetString("PDF_FONT"),
		Members:       splitList(v.GetString("TRIP_MEMBERS")),
	}

	if cfg.Port != "" && cfg.Port[0] != ':' {
		cfg.Port = ":" + cfg.Port
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.AppPassword == "":
		return fmt.Errorf("APP_PASSWORD is not set")
	case c.JWTSecret == "":
		return fmt.Errorf("JWT_SECRET is not set")
	case c.MapsAPIKey == "":
		return fmt.Errorf("GOOGLE_MAPS_API_KEY is not set")
	case len(c.Members) != 2:
		return fmt.Errorf("TRIP_MEMBERS must name exactly two members, got %d", len(c.Members))
	case c.Members[0] == c.Members[1]:
		return fmt.Errorf("TRIP_MEMBERS must be distinct")
	case c.Store != "mongo" && c.Store != "memory":
		return fmt.Errorf("STORE must be mongo or memory, got %q", c.Store)
	case c.SessionTTL <= 0:
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
