package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Identity provider (OIDC-style issuer with a JWKS endpoint)
	IdentityIssuer   string
	IdentityAudience string
	JWKSRefresh      time.Duration

	// Object storage (Cloudinary)
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	UploadFolder        string
	MaxImageSizeMB      int
	AllowedImageTypes   []string
	UploadSignatureTTL  time.Duration

	// Geocoding
	GeocoderBaseURL   string
	GeocoderUserAgent string
	GeocoderTimeout   time.Duration

	// Search
	DefaultSearchRadiusMiles float64

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using process environment")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "swapcircle"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		IdentityIssuer:   getEnv("IDENTITY_ISSUER", ""),
		IdentityAudience: getEnv("IDENTITY_AUDIENCE", ""),
		JWKSRefresh:      parseDuration(getEnv("JWKS_REFRESH_INTERVAL", "1h"), time.Hour),

		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		UploadFolder:        getEnv("UPLOAD_FOLDER", "images"),
		MaxImageSizeMB:      parseInt(getEnv("MAX_IMAGE_SIZE_MB", "5"), 5),
		AllowedImageTypes: splitCSV(getEnv("ALLOWED_IMAGE_TYPES",
			"image/jpeg,image/png,image/webp")),
		UploadSignatureTTL: parseDuration(getEnv("UPLOAD_SIGNATURE_TTL", "15m"), 15*time.Minute),

		GeocoderBaseURL:   getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent: getEnv("GEOCODER_USER_AGENT", "SwapCircle/1.0"),
		GeocoderTimeout:   parseDuration(getEnv("GEOCODER_TIMEOUT", "10s"), 10*time.Second),

		DefaultSearchRadiusMiles: parseFloat(getEnv("DEFAULT_SEARCH_RADIUS_MILES", "25"), 25),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// JWKSURL derives the key-set endpoint from the issuer.
func (c *Config) JWKSURL() string {
	return strings.TrimRight(c.IdentityIssuer, "/") + "/.well-known/jwks.json"
}

// MaxImageSizeBytes converts the configured MB limit to bytes.
func (c *Config) MaxImageSizeBytes() int64 {
	return int64(c.MaxImageSizeMB) * 1024 * 1024
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseFloat(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
