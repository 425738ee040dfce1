package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Host string
		Port int
	}
	Database struct {
		Type   string // "sqlite" or "libsql"
		DBName string
		Url    string
		Token  string
	}
	Feed struct {
		PageSize    int
		MaxPageSize int
	}
	Auth struct {
		VerifyURL      string
		SessionTTLSecs int
		SecureCookies  bool
	}
	Scraper struct {
		Galleries     []string
		PageLimit     int
		BatchLimit    int
		RateLimitSecs int
	}
	Transform struct {
		APIKey    string
		Model     string
		BatchSize int
	}
}

func Load() (*Config, error) {
	v := viper.New()

	// Set config file name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Set defaults
	setDefaults(v)

	// Read config file (optional - will use env vars if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using defaults and env vars
	}

	cfg := &Config{}

	// Server config
	cfg.Server.Host = v.GetString("server.host")
	cfg.Server.Port = v.GetInt("server.port")

	// Database config
	cfg.Database.Type = v.GetString("database.type")
	cfg.Database.DBName = v.GetString("database.dbname")
	cfg.Database.Url = v.GetString("database.url")
	cfg.Database.Token = v.GetString("database.token")

	// Feed config
	cfg.Feed.PageSize = v.GetInt("feed.page_size")
	cfg.Feed.MaxPageSize = v.GetInt("feed.max_page_size")

	// Auth config
	cfg.Auth.VerifyURL = v.GetString("auth.verify_url")
	cfg.Auth.SessionTTLSecs = v.GetInt("auth.session_ttl_secs")
	cfg.Auth.SecureCookies = v.GetBool("auth.secure_cookies")

	// Scraper config
	cfg.Scraper.Galleries = v.GetStringSlice("scraper.galleries")
	cfg.Scraper.PageLimit = v.GetInt("scraper.page_limit")
	cfg.Scraper.BatchLimit = v.GetInt("scraper.batch_limit")
	cfg.Scraper.RateLimitSecs = v.GetInt("scraper.rate_limit_secs")

	// Transform config
	cfg.Transform.APIKey = v.GetString("transform.api_key")
	cfg.Transform.Model = v.GetString("transform.model")
	cfg.Transform.BatchSize = v.GetInt("transform.batch_size")

	// Validate required fields
	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)

	// Database defaults
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dbname", "eureka.db")

	// Feed defaults
	v.SetDefault("feed.page_size", 10)
	v.SetDefault("feed.max_page_size", 50)

	// Auth defaults
	v.SetDefault("auth.session_ttl_secs", 3600)
	v.SetDefault("auth.secure_cookies", false)

	// Scraper defaults
	v.SetDefault("scraper.galleries", []string{})
	v.SetDefault("scraper.page_limit", 1000)
	v.SetDefault("scraper.batch_limit", 500)
	v.SetDefault("scraper.rate_limit_secs", 2)

	// Transform defaults
	v.SetDefault("transform.model", "mistral-small-latest")
	v.SetDefault("transform.batch_size", 100)
}

func validate(cfg *Config) error {
	if cfg.Database.DBName == "" && cfg.Database.Url == "" {
		return fmt.Errorf("database.dbname or database.url is required")
	}
	if cfg.Database.Type == "libsql" && cfg.Database.Url == "" {
		return fmt.Errorf("database.url is required for libsql")
	}
	if cfg.Feed.PageSize < 1 || cfg.Feed.PageSize > cfg.Feed.MaxPageSize {
		return fmt.Errorf("feed.page_size must be between 1 and feed.max_page_size")
	}
	return nil
}
