package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadENV loads variables from .env unless GO_ENV marks a deployed environment
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

type EnvironmentVariable struct {
	// All variables
	GO_ENV       string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	PORT         int
	// Identity provider configuration
	IDENTITY_SERVICE_URL string
	IDENTITY_SERVICE_KEY string
	// Geocoding configuration
	GEOCODING_URL     string
	GEOCODING_API_KEY string
	// Redis Configuration
	REDIS_URL string
	// CORS
	ALLOWED_ORIGINS string
	// Background jobs
	CRON_ENABLED bool
}

func Get() (*EnvironmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	// Database defaults
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}

	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}

	geocodingURL := os.Getenv("GEOCODING_URL")
	if geocodingURL == "" {
		geocodingURL = "https://maps.googleapis.com/maps/api"
	}

	envVariables := &EnvironmentVariable{
		GO_ENV:       os.Getenv("GO_ENV"),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      dbHost,
		DB_PORT:      dbPort,
		DB_SSL_MODE:  os.Getenv("DB_SSL_MODE"),
		PORT:         port,
		// Identity provider
		IDENTITY_SERVICE_URL: os.Getenv("IDENTITY_SERVICE_URL"),
		IDENTITY_SERVICE_KEY: os.Getenv("IDENTITY_SERVICE_KEY"),
		// Geocoding
		GEOCODING_URL:     geocodingURL,
		GEOCODING_API_KEY: os.Getenv("GEOCODING_API_KEY"),
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
		// CORS
		ALLOWED_ORIGINS: os.Getenv("ALLOWED_ORIGINS"),
		// Background jobs run unless explicitly switched off
		CRON_ENABLED: os.Getenv("CRON_ENABLED") != "false",
	}

	return envVariables, nil
}
