package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration.
type Config struct {
	Port             string
	JWTSecret        string
	DatabaseURL      string
	DatabaseConfig   DatabaseConfig
	MongoConfig      MongoConfig
	CloudinaryConfig CloudinaryConfig
	BcryptCost       int
	AppEnv           string
}

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// MongoConfig holds the MongoDB connection settings for the audit and
// notification stores.
type MongoConfig struct {
	URI      string
	Database string
}

// CloudinaryConfig holds the image upload credentials.
type CloudinaryConfig struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadPreset string
}

// LoadConfig reads .env if present and builds the configuration from the
// environment. Missing JWT_SECRET is fatal.
func LoadConfig() *Config {
	loadDotenv()

	dbConfig, dbURL := resolveDatabase()

	mongoConfig := MongoConfig{
		URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		Database: getEnv("MONGO_DATABASE", "campusswap"),
	}

	cloudinaryConfig := CloudinaryConfig{
		CloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
		APIKey:       getEnv("CLOUDINARY_API_KEY", ""),
		APISecret:    getEnv("CLOUDINARY_API_SECRET", ""),
		UploadPreset: getEnv("CLOUDINARY_UPLOAD_PRESET", "campusswap_items"),
	}

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		DatabaseURL:      dbURL,
		DatabaseConfig:   dbConfig,
		MongoConfig:      mongoConfig,
		CloudinaryConfig: cloudinaryConfig,
		BcryptCost:       getEnvInt("BCRYPT_COST", 12),
		AppEnv:           getEnv("APP_ENV", "production"),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	return cfg
}

// DatabaseURL resolves just the PostgreSQL connection string. campusctl
// uses it so admin commands run without the API's full configuration.
func DatabaseURL() string {
	loadDotenv()
	_, url := resolveDatabase()
	return url
}

func loadDotenv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}
}

// resolveDatabase assembles the connection settings. DATABASE_URL wins over
// the PG* parts when set.
func resolveDatabase() (DatabaseConfig, string) {
	dbConfig := DatabaseConfig{
		Host:     getEnv("PGHOST", "localhost"),
		Port:     getEnv("PGPORT", "5432"),
		User:     getEnv("PGUSER", "campusswap_user"),
		Password: getEnv("PGPASSWORD", "campusswap_pass"),
		Name:     getEnv("PGDATABASE", "campusswap"),
		SSLMode:  getEnv("PGSSLMODE", "disable"),
	}

	url := getEnv("DATABASE_URL", "")
	if url == "" {
		url = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name, dbConfig.SSLMode)
	}
	return dbConfig, url
}

// getEnv returns the environment value or the default when unset.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
