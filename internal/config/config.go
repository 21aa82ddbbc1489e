package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Staging   StagingConfig   `mapstructure:"staging" yaml:"staging"`
	Scan      ScanConfig      `mapstructure:"scan" yaml:"scan"`
	Discovery DiscoveryConfig `mapstructure:"discovery" yaml:"discovery"`
	Metadata  MetadataConfig  `mapstructure:"metadata" yaml:"metadata"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	Path       string `mapstructure:"path" yaml:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// StagingConfig controls the staging dispatcher and its ERROR retry task.
type StagingConfig struct {
	InitialDelay time.Duration `mapstructure:"initial_delay" yaml:"initial_delay"`
	Delay        time.Duration `mapstructure:"delay" yaml:"delay"`
	RetryCron    string        `mapstructure:"retry_cron" yaml:"retry_cron"`
	MaxAttempts  int           `mapstructure:"max_attempts" yaml:"max_attempts"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff" yaml:"retry_backoff"`
}

// ScanConfig controls the metadata scan worker pool.
type ScanConfig struct {
	InitialDelay  time.Duration `mapstructure:"initial_delay" yaml:"initial_delay"`
	Delay         time.Duration `mapstructure:"delay" yaml:"delay"`
	PoolSize      int           `mapstructure:"pool_size" yaml:"pool_size"`
	QueueCapacity int           `mapstructure:"queue_capacity" yaml:"queue_capacity"`
	PollInterval  time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	RescanCron    string        `mapstructure:"rescan_cron" yaml:"rescan_cron"`
	RescanAfter   time.Duration `mapstructure:"rescan_after" yaml:"rescan_after"`

	// Source names per scanner family, in priority order.
	MovieSources   []string `mapstructure:"movie_sources" yaml:"movie_sources"`
	SeriesSources  []string `mapstructure:"series_sources" yaml:"series_sources"`
	FanartSources  []string `mapstructure:"fanart_sources" yaml:"fanart_sources"`
	TrailerSources []string `mapstructure:"trailer_sources" yaml:"trailer_sources"`
}

// DiscoveryConfig controls the directory walker that stages files.
type DiscoveryConfig struct {
	Roots        []string      `mapstructure:"roots" yaml:"roots"`
	InitialDelay time.Duration `mapstructure:"initial_delay" yaml:"initial_delay"`
	Delay        time.Duration `mapstructure:"delay" yaml:"delay"`

	// Watch triggers a discovery pass shortly after files change under the roots.
	Watch         bool          `mapstructure:"watch" yaml:"watch"`
	WatchDebounce time.Duration `mapstructure:"watch_debounce" yaml:"watch_debounce"`
}

// MetadataConfig holds configuration for the bundled scanner plugins.
type MetadataConfig struct {
	TMDB    TMDBConfig    `mapstructure:"tmdb" yaml:"tmdb"`
	OMDB    OMDBConfig    `mapstructure:"omdb" yaml:"omdb"`
	TVDB    TVDBConfig    `mapstructure:"tvdb" yaml:"tvdb"`
	Fanart  FanartConfig  `mapstructure:"fanart" yaml:"fanart"`
	Trailer TrailerConfig `mapstructure:"trailer" yaml:"trailer"`
}

// TMDBConfig holds TMDB API configuration.
type TMDBConfig struct {
	APIKey       string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL      string `mapstructure:"base_url" yaml:"base_url"`
	ImageBaseURL string `mapstructure:"image_base_url" yaml:"image_base_url"`
	Language     string `mapstructure:"language" yaml:"language"`
	Timeout      int    `mapstructure:"timeout" yaml:"timeout"` // seconds
}

// OMDBConfig holds OMDb API configuration.
type OMDBConfig struct {
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	Timeout int    `mapstructure:"timeout" yaml:"timeout"`
}

// TVDBConfig holds TVDB v4 API configuration.
type TVDBConfig struct {
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	Timeout int    `mapstructure:"timeout" yaml:"timeout"`
}

// FanartConfig holds fanart.tv API configuration.
type FanartConfig struct {
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	Timeout int    `mapstructure:"timeout" yaml:"timeout"`
}

// TrailerConfig holds configuration for the HTML trailer scraper.
type TrailerConfig struct {
	// DefinitionPath points to a YAML site definition. Empty uses the built-in one.
	DefinitionPath string `mapstructure:"definition_path" yaml:"definition_path"`
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	Timeout        int    `mapstructure:"timeout" yaml:"timeout"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "./data/mediascan.db",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
		Staging: StagingConfig{
			InitialDelay: 10 * time.Second,
			Delay:        30 * time.Second,
			RetryCron:    "*/15 * * * *",
			MaxAttempts:  3,
			RetryBackoff: 5 * time.Minute,
		},
		Scan: ScanConfig{
			InitialDelay:   15 * time.Second,
			Delay:          45 * time.Second,
			PoolSize:       5,
			QueueCapacity:  100,
			PollInterval:   time.Second,
			RescanCron:     "0 3 * * *",
			RescanAfter:    30 * 24 * time.Hour,
			MovieSources:   []string{"tmdb", "omdb"},
			SeriesSources:  []string{"tmdb", "tvdb"},
			FanartSources:  []string{"fanart"},
			TrailerSources: []string{"trailer"},
		},
		Discovery: DiscoveryConfig{
			InitialDelay:  5 * time.Second,
			Delay:         10 * time.Minute,
			WatchDebounce: 5 * time.Second,
		},
		Metadata: MetadataConfig{
			TMDB: TMDBConfig{
				APIKey:       EmbeddedTMDBKey,
				BaseURL:      "https://api.themoviedb.org/3",
				ImageBaseURL: "https://image.tmdb.org/t/p",
				Language:     "en-US",
				Timeout:      30,
			},
			OMDB: OMDBConfig{
				APIKey:  EmbeddedOMDBKey,
				BaseURL: "https://www.omdbapi.com/",
				Timeout: 15,
			},
			TVDB: TVDBConfig{
				BaseURL: "https://api4.thetvdb.com/v4",
				Timeout: 30,
			},
			Fanart: FanartConfig{
				APIKey:  EmbeddedFanartKey,
				BaseURL: "https://webservice.fanart.tv/v3",
				Timeout: 15,
			},
			Trailer: TrailerConfig{
				Timeout: 15,
			},
		},
	}
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.mediascan")
	}

	v.SetEnvPrefix("MEDIASCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Validate()
	return cfg, nil
}

// setDefaults mirrors Default into viper so env vars can override every key.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("database.path", d.Database.Path)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.path", d.Logging.Path)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)
	v.SetDefault("logging.compress", d.Logging.Compress)

	v.SetDefault("staging.initial_delay", d.Staging.InitialDelay)
	v.SetDefault("staging.delay", d.Staging.Delay)
	v.SetDefault("staging.retry_cron", d.Staging.RetryCron)
	v.SetDefault("staging.max_attempts", d.Staging.MaxAttempts)
	v.SetDefault("staging.retry_backoff", d.Staging.RetryBackoff)

	v.SetDefault("scan.initial_delay", d.Scan.InitialDelay)
	v.SetDefault("scan.delay", d.Scan.Delay)
	v.SetDefault("scan.pool_size", d.Scan.PoolSize)
	v.SetDefault("scan.queue_capacity", d.Scan.QueueCapacity)
	v.SetDefault("scan.poll_interval", d.Scan.PollInterval)
	v.SetDefault("scan.rescan_cron", d.Scan.RescanCron)
	v.SetDefault("scan.rescan_after", d.Scan.RescanAfter)
	v.SetDefault("scan.movie_sources", d.Scan.MovieSources)
	v.SetDefault("scan.series_sources", d.Scan.SeriesSources)
	v.SetDefault("scan.fanart_sources", d.Scan.FanartSources)
	v.SetDefault("scan.trailer_sources", d.Scan.TrailerSources)

	v.SetDefault("discovery.roots", d.Discovery.Roots)
	v.SetDefault("discovery.initial_delay", d.Discovery.InitialDelay)
	v.SetDefault("discovery.delay", d.Discovery.Delay)
	v.SetDefault("discovery.watch", d.Discovery.Watch)
	v.SetDefault("discovery.watch_debounce", d.Discovery.WatchDebounce)

	v.SetDefault("metadata.tmdb.api_key", d.Metadata.TMDB.APIKey)
	v.SetDefault("metadata.tmdb.base_url", d.Metadata.TMDB.BaseURL)
	v.SetDefault("metadata.tmdb.image_base_url", d.Metadata.TMDB.ImageBaseURL)
	v.SetDefault("metadata.tmdb.language", d.Metadata.TMDB.Language)
	v.SetDefault("metadata.tmdb.timeout", d.Metadata.TMDB.Timeout)
	v.SetDefault("metadata.omdb.api_key", d.Metadata.OMDB.APIKey)
	v.SetDefault("metadata.omdb.base_url", d.Metadata.OMDB.BaseURL)
	v.SetDefault("metadata.omdb.timeout", d.Metadata.OMDB.Timeout)
	v.SetDefault("metadata.tvdb.api_key", d.Metadata.TVDB.APIKey)
	v.SetDefault("metadata.tvdb.base_url", d.Metadata.TVDB.BaseURL)
	v.SetDefault("metadata.tvdb.timeout", d.Metadata.TVDB.Timeout)
	v.SetDefault("metadata.fanart.api_key", d.Metadata.Fanart.APIKey)
	v.SetDefault("metadata.fanart.base_url", d.Metadata.Fanart.BaseURL)
	v.SetDefault("metadata.fanart.timeout", d.Metadata.Fanart.Timeout)
	v.SetDefault("metadata.trailer.definition_path", d.Metadata.Trailer.DefinitionPath)
	v.SetDefault("metadata.trailer.base_url", d.Metadata.Trailer.BaseURL)
	v.SetDefault("metadata.trailer.timeout", d.Metadata.Trailer.Timeout)
}

// Validate replaces out-of-range values with their defaults.
func (c *Config) Validate() {
	d := Default()

	if c.Scan.PoolSize < 1 {
		c.Scan.PoolSize = d.Scan.PoolSize
	}
	if c.Scan.QueueCapacity < 1 {
		c.Scan.QueueCapacity = d.Scan.QueueCapacity
	}
	if c.Scan.PollInterval <= 0 {
		c.Scan.PollInterval = d.Scan.PollInterval
	}
	if c.Scan.Delay <= 0 {
		c.Scan.Delay = d.Scan.Delay
	}
	if c.Scan.InitialDelay < 0 {
		c.Scan.InitialDelay = 0
	}
	if c.Staging.Delay <= 0 {
		c.Staging.Delay = d.Staging.Delay
	}
	if c.Staging.InitialDelay < 0 {
		c.Staging.InitialDelay = 0
	}
	if c.Staging.MaxAttempts < 1 {
		c.Staging.MaxAttempts = d.Staging.MaxAttempts
	}
	if c.Discovery.Delay <= 0 {
		c.Discovery.Delay = d.Discovery.Delay
	}
	if c.Discovery.WatchDebounce <= 0 {
		c.Discovery.WatchDebounce = d.Discovery.WatchDebounce
	}
}
