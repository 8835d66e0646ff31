package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds application configuration loaded from environment variables and .env file.
type AppConfig struct {
	// HTTP
	Port    string
	GinMode string

	// Database config
	DBHost        string
	DBPort        int
	DBUser        string
	DBPass        string
	DBName        string
	DBEmbedded    bool // serve the schema from an in-process go-mysql-server instead of DB_HOST
	DBAutoMigrate bool

	// Logging config
	LogLevel      string
	LogFile       string // empty = stdout only
	LogMaxSize    int    // MB
	LogMaxBackups int
	LogMaxAge     int // days
	LogCompress   bool

	// Video hosting API
	StreamableAPIURL   string
	StreamableUsername string
	StreamablePassword string
	StreamableTimeout  time.Duration

	// Visibility and expiry
	AdminBypassExpiry   bool
	ExpirySweepInterval time.Duration // 0 disables the sweeper
	ExpirySweepMode     string        // deactivate | delete

	// Bootstrap
	SeedMainAdminCode string

	// Login throttling per client IP, 0 disables
	LoginRateLimit float64
	LoginRateBurst int
}

// Cfg is the global application configuration instance.
var Cfg AppConfig

// LoadConfig loads application configuration from .env file and environment variables.
func LoadConfig() error {
	if err := godotenv.Load(); err != nil {
		// logger is not initialized yet
		log.Printf("[WARN] .env file not found or cannot be loaded: %v", err)
	} else {
		log.Printf("[INFO] .env file loaded successfully")
	}

	Cfg.Port = getEnv("PORT", "8081")
	Cfg.GinMode = getEnv("GIN_MODE", "release")

	Cfg.DBHost = getEnv("DB_HOST", "127.0.0.1")
	Cfg.DBPort = getEnvInt("DB_PORT", 3306)
	Cfg.DBUser = getEnv("DB_USER", "root")
	Cfg.DBPass = getEnv("DB_PASS", "")
	Cfg.DBName = getEnv("DB_NAME", "videoportal")
	Cfg.DBEmbedded = getEnvBool("DB_EMBEDDED", false)
	Cfg.DBAutoMigrate = getEnvBool("DB_AUTO_MIGRATE", true)

	Cfg.LogLevel = getEnv("LOG_LEVEL", "INFO")
	Cfg.LogFile = getEnv("LOG_FILE", "")
	Cfg.LogMaxSize = getEnvInt("LOG_MAX_SIZE", 10)
	Cfg.LogMaxBackups = getEnvInt("LOG_MAX_BACKUPS", 3)
	Cfg.LogMaxAge = getEnvInt("LOG_MAX_AGE", 28)
	Cfg.LogCompress = getEnvBool("LOG_COMPRESS", true)

	Cfg.StreamableAPIURL = strings.TrimRight(getEnv("STREAMABLE_API_URL", "https://api.streamable.com"), "/")
	Cfg.StreamableUsername = getEnv("STREAMABLE_USERNAME", "")
	Cfg.StreamablePassword = getEnv("STREAMABLE_PASSWORD", "")
	Cfg.StreamableTimeout = getEnvDuration("STREAMABLE_TIMEOUT", 30*time.Second)

	Cfg.AdminBypassExpiry = getEnvBool("ADMIN_BYPASS_EXPIRY", false)
	Cfg.ExpirySweepInterval = getEnvDuration("EXPIRY_SWEEP_INTERVAL", time.Hour)
	Cfg.ExpirySweepMode = strings.ToLower(getEnv("EXPIRY_SWEEP_MODE", "deactivate"))

	Cfg.SeedMainAdminCode = getEnv("SEED_MAIN_ADMIN_CODE", "7016565502")

	Cfg.LoginRateLimit = getEnvFloat("LOGIN_RATE_LIMIT", 0)
	Cfg.LoginRateBurst = getEnvInt("LOGIN_RATE_BURST", 5)

	if Cfg.DBEmbedded {
		log.Printf("[INFO] Config loaded - DB: embedded/%s, LogLevel: %s", Cfg.DBName, Cfg.LogLevel)
	} else {
		log.Printf("[INFO] Config loaded - DB: %s@%s:%d/%s, LogLevel: %s",
			Cfg.DBUser, Cfg.DBHost, Cfg.DBPort, Cfg.DBName, Cfg.LogLevel)
	}
	log.Printf("[INFO] Expiry config - AdminBypass: %v, SweepInterval: %v, SweepMode: %s",
		Cfg.AdminBypassExpiry, Cfg.ExpirySweepInterval, Cfg.ExpirySweepMode)

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

// getEnvDuration accepts Go duration syntax ("90s", "1h") or a bare number of seconds.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultVal
}
