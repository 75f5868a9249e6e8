package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/jengzang/places-backend-go/internal/engine"
)

// Config 应用配置
type Config struct {
	Port           string
	DBPath         string
	MigrationsPath string
	JWTSecret      string
	DefaultOwner   string

	Engine engine.Config
}

// Load 加载配置
func Load() *Config {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", ":8080"),
		DBPath:         getEnv("DB_PATH", "./data/places/places.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		JWTSecret:      getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		DefaultOwner:   getEnv("DEFAULT_OWNER", "default_user"),
		Engine:         engine.DefaultConfig(),
	}

	cfg.Engine.SearchRadiusMeters = getEnvFloat("SEARCH_RADIUS_M", cfg.Engine.SearchRadiusMeters)
	cfg.Engine.DefaultPlaceRadiusMeters = getEnvFloat("DEFAULT_PLACE_RADIUS_M", cfg.Engine.DefaultPlaceRadiusMeters)
	cfg.Engine.NearbyRadiusMeters = getEnvFloat("NEARBY_RADIUS_M", cfg.Engine.NearbyRadiusMeters)
	cfg.Engine.MergeDistanceMeters = getEnvFloat("DISCOVERY_MERGE_DISTANCE_M", cfg.Engine.MergeDistanceMeters)
	cfg.Engine.DiscoveryWindowDays = getEnvInt("DISCOVERY_WINDOW_DAYS", cfg.Engine.DiscoveryWindowDays)
	cfg.Engine.DiscoveryMinDays = getEnvInt("DISCOVERY_MIN_DAYS", cfg.Engine.DiscoveryMinDays)
	cfg.Engine.RoutineWindowDays = getEnvInt("ROUTINE_WINDOW_DAYS", cfg.Engine.RoutineWindowDays)
	cfg.Engine.RoutineMinOccurrences = getEnvInt("ROUTINE_MIN_OCCURRENCES", cfg.Engine.RoutineMinOccurrences)
	cfg.Engine.RoutineBucketHours = getEnvInt("ROUTINE_BUCKET_HOURS", cfg.Engine.RoutineBucketHours)
	cfg.Engine.DeviationMinConfidence = getEnvFloat("DEVIATION_MIN_CONFIDENCE", cfg.Engine.DeviationMinConfidence)
	cfg.Engine.DefaultCooldownMinutes = int64(getEnvInt("TRIGGER_COOLDOWN_MIN", int(cfg.Engine.DefaultCooldownMinutes)))

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
