// Save as: internal/config/environment.go
package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port         int
	DBPath       string
	BaseURL      string // overrides the callback host derived from the request
	NewsBlurURL  string
	ClientID     string
	ClientSecret string
}

func GetConfig() Config {
	config := Config{
		Port:        8080, // default port
		DBPath:      "data/baffle.db",
		NewsBlurURL: "https://newsblur.com",
	}

	// Override with environment variables if present
	if port := os.Getenv("BAFFLE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Port = p
		}
	}

	if dbPath := os.Getenv("BAFFLE_DB_PATH"); dbPath != "" {
		config.DBPath = dbPath
	}

	if baseURL := os.Getenv("BAFFLE_BASE_URL"); baseURL != "" {
		config.BaseURL = baseURL
	}

	if nbURL := os.Getenv("NEWSBLUR_URL"); nbURL != "" {
		config.NewsBlurURL = nbURL
	}

	config.ClientID = os.Getenv("NEWSBLUR_CLIENT_ID")
	config.ClientSecret = os.Getenv("NEWSBLUR_CLIENT_SECRET")

	return config
}

func (c Config) GetAddress() string {
	return fmt.Sprintf(":%d", c.Port)
}
