package config

import (
	"fmt"
	"strings"
	"time"

	"productcat/scraper/internal/domain"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Input    InputConfig    `mapstructure:"input"`
	Output   OutputConfig   `mapstructure:"output"`
	Sampler  SamplerConfig  `mapstructure:"sampler"`
	Taxonomy []string       `mapstructure:"taxonomy"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Database DatabaseConfig `mapstructure:"database"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	S3       S3Config       `mapstructure:"s3"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
}

// InputConfig describes the cleaned review corpus
type InputConfig struct {
	Path       string `mapstructure:"path"`
	IDColumn   string `mapstructure:"id_column"`
	TextColumn string `mapstructure:"text_column"`
}

// OutputConfig selects where the labeled dataset is checkpointed
type OutputConfig struct {
	Driver  string `mapstructure:"driver"` // csv, s3, postgres or sqlite
	Path    string `mapstructure:"path"`
	Cadence int    `mapstructure:"cadence"`
}

// SamplerConfig holds the targeted sampling parameters
type SamplerConfig struct {
	Quota    int                   `mapstructure:"quota"`
	Seed     int64                 `mapstructure:"seed"`
	Keywords []domain.KeywordGroup `mapstructure:"keywords"`
}

// FetchConfig holds the product page fetch configuration
type FetchConfig struct {
	Driver               string        `mapstructure:"driver"` // browser or http
	URLTemplate          string        `mapstructure:"url_template"`
	MarkerSelector       string        `mapstructure:"marker_selector"`
	WaitTimeout          time.Duration `mapstructure:"wait_timeout"`
	NavigationTimeout    time.Duration `mapstructure:"navigation_timeout"`
	MinDelay             time.Duration `mapstructure:"min_delay"`
	MaxDelay             time.Duration `mapstructure:"max_delay"`
	UserAgent            string        `mapstructure:"user_agent"`
	Headless             bool          `mapstructure:"headless"`
	BrowserBin           string        `mapstructure:"browser_bin"`
	MaxRequestsPerSecond int           `mapstructure:"max_requests_per_second"`
	Proxies              []string      `mapstructure:"proxies"`
}

// DatabaseConfig holds Postgres configuration for the postgres output driver
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// DSN builds the pgx connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

// SQLiteConfig holds the database file for the sqlite output driver
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// S3Config holds S3-compatible object storage configuration
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

// RedisConfig holds Redis connection details for progress tracking
type RedisConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	Database     int    `mapstructure:"database"`
	StreamMaxLen int64  `mapstructure:"stream_max_len"`
}

// Addr returns the host:port pair for the Redis client
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MetricsConfig holds the Prometheus exposition address; empty disables the endpoint
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig holds logrus settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// KeywordMap returns the configured keyword groups in order
func (c Config) KeywordMap() domain.KeywordMap {
	return domain.KeywordMap(c.Sampler.Keywords)
}

// TaxonomyList returns the configured taxonomy in order
func (c Config) TaxonomyList() domain.Taxonomy {
	return domain.Taxonomy(c.Taxonomy)
}

// Load loads configuration from a YAML file with environment variable overrides.
// An empty path searches for config.yaml in the current directory; a missing file
// there is not an error, defaults and env vars are used instead.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if len(config.Sampler.Keywords) == 0 {
		config.Sampler.Keywords = append([]domain.KeywordGroup(nil), domain.DefaultKeywordMap...)
	}
	if len(config.Taxonomy) == 0 {
		config.Taxonomy = append([]string(nil), domain.DefaultTaxonomy...)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input.path", "./client_files/Cleaned_Reviews.csv")
	v.SetDefault("input.id_column", "ProductId")
	v.SetDefault("input.text_column", "CleanedText")

	v.SetDefault("output.driver", "csv")
	v.SetDefault("output.path", "./client_files/product_categories_standardized.csv")
	v.SetDefault("output.cadence", 50)

	v.SetDefault("sampler.quota", 2500)
	v.SetDefault("sampler.seed", 42)

	v.SetDefault("fetch.driver", "browser")
	v.SetDefault("fetch.url_template", "https://www.amazon.com/dp/%s")
	v.SetDefault("fetch.marker_selector", "#wayfinding-breadcrumbs_feature_div")
	v.SetDefault("fetch.wait_timeout", "10s")
	v.SetDefault("fetch.navigation_timeout", "30s")
	v.SetDefault("fetch.min_delay", "500ms")
	v.SetDefault("fetch.max_delay", "1500ms")
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	v.SetDefault("fetch.headless", true)
	v.SetDefault("fetch.browser_bin", "")
	v.SetDefault("fetch.max_requests_per_second", 2)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "productcat")
	v.SetDefault("database.user", "productcat_user")
	v.SetDefault("database.password", "productcat_pass")

	v.SetDefault("sqlite.path", "./client_files/product_categories.db")

	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.use_path_style", false)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.stream_max_len", 10000)

	v.SetDefault("metrics.addr", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

func validate(config *Config) error {
	if config.Input.Path == "" {
		return fmt.Errorf("input path is required")
	}
	if config.Input.IDColumn == "" || config.Input.TextColumn == "" {
		return fmt.Errorf("input id and text columns are required")
	}
	if config.Sampler.Quota <= 0 {
		return fmt.Errorf("sampler quota must be positive, got: %d", config.Sampler.Quota)
	}
	if config.Output.Cadence <= 0 {
		return fmt.Errorf("checkpoint cadence must be positive, got: %d", config.Output.Cadence)
	}
	for _, group := range config.Sampler.Keywords {
		if group.Label == "" || len(group.Keywords) == 0 {
			return fmt.Errorf("keyword group %q must have a label and at least one keyword", group.Label)
		}
	}

	switch config.Output.Driver {
	case "csv":
		if config.Output.Path == "" {
			return fmt.Errorf("output path is required for the csv driver")
		}
	case "s3":
		if config.S3.Bucket == "" || config.Output.Path == "" {
			return fmt.Errorf("s3 bucket and output path (object key) are required for the s3 driver")
		}
	case "postgres":
	case "sqlite":
		if config.SQLite.Path == "" {
			return fmt.Errorf("sqlite path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("output driver must be 'csv', 's3', 'postgres' or 'sqlite', got: %s", config.Output.Driver)
	}

	if config.Fetch.Driver != "browser" && config.Fetch.Driver != "http" {
		return fmt.Errorf("fetch driver must be 'browser' or 'http', got: %s", config.Fetch.Driver)
	}
	if !strings.Contains(config.Fetch.URLTemplate, "%s") {
		return fmt.Errorf("fetch url_template must contain %%s for the product id")
	}
	if config.Fetch.MarkerSelector == "" {
		return fmt.Errorf("fetch marker_selector is required")
	}
	if config.Fetch.WaitTimeout <= 0 {
		return fmt.Errorf("fetch wait_timeout must be positive")
	}
	if config.Fetch.MinDelay < 0 || config.Fetch.MaxDelay < config.Fetch.MinDelay {
		return fmt.Errorf("fetch delay range is invalid: min %v, max %v", config.Fetch.MinDelay, config.Fetch.MaxDelay)
	}
	if config.Fetch.MaxRequestsPerSecond <= 0 {
		return fmt.Errorf("fetch max_requests_per_second must be positive")
	}

	return nil
}
