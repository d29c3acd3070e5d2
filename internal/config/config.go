package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the full application configuration.
type Config struct {
	Server      ServerConfig
	CORS        CORSConfig
	History     HistoryConfig
	Containment ContainmentConfig
	Board       BoardConfig
	Auth        AuthConfig
	Redis       RedisConfig
}

// ServerConfig tunes the HTTP server.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// CORSConfig controls cross-origin access.
type CORSConfig struct {
	AllowOrigins string
	AllowHeaders string
}

// HistoryConfig tunes the per-board undo/redo engine.
type HistoryConfig struct {
	// MaxSize caps the undo stack; older entries are evicted silently.
	MaxSize int
	// MergeWindow is how close together two mergeable commands must land to
	// collapse into one undo step.
	MergeWindow time.Duration
}

// ContainmentConfig tunes frame auto-containment.
type ContainmentConfig struct {
	// OverlapThreshold is the fraction of an object's area that must overlap
	// a frame before a drop attaches it.
	OverlapThreshold float64
	SnapGridSize     float64
}

// BoardConfig tunes session lifecycle and persistence.
type BoardConfig struct {
	IdleTimeout     time.Duration
	JanitorInterval time.Duration
	SnapshotTTL     time.Duration
}

// AuthConfig holds JWT settings.
type AuthConfig struct {
	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// RedisConfig holds snapshot cache settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load reads configuration from the environment, with .env support.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	jwtSecret := getRequiredEnv("JWT_SECRET")
	if jwtSecret == "change-this-secret-in-production" {
		log.Fatal("JWT_SECRET must be changed from default value in production")
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8080"),
			ReadTimeout:  getDuration("READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("IDLE_TIMEOUT", 120*time.Second),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000"),
			AllowHeaders: getEnv("CORS_ALLOW_HEADERS", "Origin, Content-Type, Accept, Authorization"),
		},
		History: HistoryConfig{
			MaxSize:     getInt("HISTORY_MAX_SIZE", 50),
			MergeWindow: getDuration("HISTORY_MERGE_WINDOW", 300*time.Millisecond),
		},
		Containment: ContainmentConfig{
			OverlapThreshold: getFloat("CONTAINMENT_OVERLAP_THRESHOLD", 0.5),
			SnapGridSize:     getFloat("SNAP_GRID_SIZE", 8),
		},
		Board: BoardConfig{
			IdleTimeout:     getDuration("BOARD_IDLE_TIMEOUT", 30*time.Minute),
			JanitorInterval: getDuration("BOARD_JANITOR_INTERVAL", 5*time.Minute),
			SnapshotTTL:     getDuration("BOARD_SNAPSHOT_TTL", 1*time.Hour),
		},
		Auth: AuthConfig{
			JWTSecret:          jwtSecret,
			AccessTokenExpiry:  getDuration("ACCESS_TOKEN_EXPIRY", 1*time.Hour),
			RefreshTokenExpiry: getDuration("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
		},
	}
}

func getRequiredEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("required environment variable %s is not set", key)
	}
	return value
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		// bare numbers are seconds
		if !strings.ContainsAny(value, "smh") {
			if secs, err := strconv.Atoi(value); err == nil {
				return time.Duration(secs) * time.Second
			}
		}
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
