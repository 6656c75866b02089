// config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type ATMoviesConfig struct {
	BaseURL      string `yaml:"base_url"`
	FirstRunURL  string `yaml:"first_run_url"`
	SecondRunURL string `yaml:"second_run_url"`
	UserAgent    string `yaml:"user_agent"`
}

type ScraperConfig struct {
	TimeoutStr            string `yaml:"timeout"`
	MaxRetries            int    `yaml:"max_retries"`
	RetryDelayStr         string `yaml:"retry_delay"`
	MaxConcurrentRequests int    `yaml:"max_concurrent_requests"`

	Timeout    time.Duration `yaml:"-"`
	RetryDelay time.Duration `yaml:"-"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

type ScraperSelectorsConfig struct {
	MovieItems []string `yaml:"movie_items"`
	MoreButton string   `yaml:"more_button"`
}

type Config struct {
	Server           ServerConfig           `yaml:"server"`
	Database         DatabaseConfig         `yaml:"database"`
	ATMovies         ATMoviesConfig         `yaml:"atmovies"`
	Scraper          ScraperConfig          `yaml:"scraper"`
	Output           OutputConfig           `yaml:"output"`
	ScraperSelectors ScraperSelectorsConfig `yaml:"scraper_selectors"`
}

var AppConfig Config

// Defaults returns the configuration used when a key is missing from
// config.yaml.
func Defaults() Config {
	return Config{
		Server: ServerConfig{Port: "8080"},
		Database: DatabaseConfig{
			Host:   "127.0.0.1",
			Port:   "3306",
			DBName: "time2cinema",
		},
		ATMovies: ATMoviesConfig{
			BaseURL:      "https://www.atmovies.com.tw/",
			FirstRunURL:  "https://www.atmovies.com.tw/movie/now/1/",
			SecondRunURL: "https://www.atmovies.com.tw/movie/now2/1/",
			UserAgent:    "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
		},
		Scraper: ScraperConfig{
			TimeoutStr:            "30s",
			MaxRetries:            3,
			RetryDelayStr:         "3s",
			MaxConcurrentRequests: 5,
		},
		Output: OutputConfig{Dir: "output/scrapers"},
		ScraperSelectors: ScraperSelectorsConfig{
			MovieItems: []string{
				"article.filmList",
				".filmList",
				".filmList li",
				".filmListPA li",
				"li.filmList",
				"div.filmList",
				"ul.filmList li",
			},
			MoreButton: ".listTab a[onclick*='grabFile']",
		},
	}
}

// LoadConfig reads configuration from the yaml file at configPath, then
// applies overrides from the environment (and a .env file, if present).
// An empty configPath means defaults plus environment only.
func LoadConfig(configPath string) error {
	cfg := Defaults()

	if configPath != "" {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	// .env is optional; a missing file is not an error.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARN Config: could not load .env file: %v", err)
	}
	applyEnv(&cfg)

	if err := cfg.parseDurations(); err != nil {
		return err
	}

	if cfg.Output.Dir != "" {
		if err := os.MkdirAll(filepath.Clean(cfg.Output.Dir), 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", cfg.Output.Dir, err)
		}
	}

	AppConfig = cfg
	return nil
}

// FindConfigFile returns the first existing config.yaml among the usual
// locations, or "" when none exists.
func FindConfigFile() string {
	if p := os.Getenv("ATMOVIES_CONFIG"); p != "" {
		return p
	}
	potentialPaths := []string{
		"config/config.yaml",
		"config.yaml",
		"../config/config.yaml",
	}
	for _, p := range potentialPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func applyEnv(cfg *Config) {
	overrides := map[string]*string{
		"DB_HOST":     &cfg.Database.Host,
		"DB_PORT":     &cfg.Database.Port,
		"DB_USER":     &cfg.Database.User,
		"DB_PASSWORD": &cfg.Database.Password,
		"DB_NAME":     &cfg.Database.DBName,
		"PORT":        &cfg.Server.Port,
	}
	for key, dst := range overrides {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
}

func (c *Config) parseDurations() error {
	var err error
	c.Scraper.Timeout = 30 * time.Second
	if c.Scraper.TimeoutStr != "" {
		c.Scraper.Timeout, err = time.ParseDuration(c.Scraper.TimeoutStr)
		if err != nil {
			return fmt.Errorf("failed to parse scraper timeout: %w", err)
		}
	}

	c.Scraper.RetryDelay = 3 * time.Second
	if c.Scraper.RetryDelayStr != "" {
		c.Scraper.RetryDelay, err = time.ParseDuration(c.Scraper.RetryDelayStr)
		if err != nil {
			return fmt.Errorf("failed to parse scraper retry_delay: %w", err)
		}
	}

	if c.Scraper.MaxRetries < 1 {
		c.Scraper.MaxRetries = 1
	}
	if c.Scraper.MaxConcurrentRequests < 1 {
		c.Scraper.MaxConcurrentRequests = 1
	}
	return nil
}
