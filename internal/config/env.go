package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr   string
	GinMode   string
	Database  string
	APIKey    string
	RedisAddr string
	Staging   bool
}

// LoadEnv reads configuration from the environment, seeded from a local
// .env file when one exists.
func LoadEnv() Env {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not read .env: %v", err)
	}

	appAddr := strings.TrimSpace(os.Getenv("OFFSETSDB_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	return Env{
		AppAddr:   appAddr,
		GinMode:   strings.TrimSpace(os.Getenv("GIN_MODE")),
		Database:  strings.TrimSpace(os.Getenv("OFFSETSDB_DATABASE")),
		APIKey:    strings.TrimSpace(os.Getenv("OFFSETSDB_API_KEY")),
		RedisAddr: strings.TrimSpace(os.Getenv("OFFSETSDB_REDIS_ADDR")),
		Staging:   strings.EqualFold(strings.TrimSpace(os.Getenv("OFFSETSDB_STAGING")), "true"),
	}
}
