package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Registry RegistryConfig `yaml:"registry" mapstructure:"registry"`
	Geocode  GeocodeConfig  `yaml:"geocode" mapstructure:"geocode"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// RegistryConfig configures the ClinicalTrials.gov search client.
type RegistryConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	PageSize    int     `yaml:"page_size" mapstructure:"page_size"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// GeocodeConfig configures the Places text-search geocoder and its cache.
type GeocodeConfig struct {
	GoogleAPIKey string  `yaml:"google_api_key" mapstructure:"google_api_key"`
	BaseURL      string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit    float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	TimeoutSecs  int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	CacheDriver  string  `yaml:"cache_driver" mapstructure:"cache_driver"` // memory, sqlite, postgres
	CachePath    string  `yaml:"cache_path" mapstructure:"cache_path"`
	DatabaseURL  string  `yaml:"database_url" mapstructure:"database_url"`
}

// PipelineConfig configures extraction behavior.
type PipelineConfig struct {
	Keyword   string `yaml:"keyword" mapstructure:"keyword"`
	Country   string `yaml:"country" mapstructure:"country"`
	RulesPath string `yaml:"rules_path" mapstructure:"rules_path"`
}

// OutputConfig configures artifact paths.
type OutputConfig struct {
	RawJSON     string `yaml:"raw_json" mapstructure:"raw_json"`
	DatasetCSV  string `yaml:"dataset_csv" mapstructure:"dataset_csv"`
	UnparsedCSV string `yaml:"unparsed_csv" mapstructure:"unparsed_csv"`
	DatasetXLSX string `yaml:"dataset_xlsx" mapstructure:"dataset_xlsx"`
	MapHTML     string `yaml:"map_html" mapstructure:"map_html"`
	GeoJSON     string `yaml:"geojson" mapstructure:"geojson"`
}

// ServerConfig configures the map server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TRIALMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("registry.base_url", "https://clinicaltrials.gov/api/v2/studies")
	v.SetDefault("registry.page_size", 100)
	v.SetDefault("registry.rate_limit", 2.0)
	v.SetDefault("registry.timeout_secs", 30)
	v.SetDefault("geocode.base_url", "https://maps.googleapis.com/maps/api/place/textsearch/json")
	v.SetDefault("geocode.rate_limit", 10.0)
	v.SetDefault("geocode.timeout_secs", 30)
	v.SetDefault("geocode.cache_driver", "memory")
	v.SetDefault("geocode.cache_path", "trialmap-geocode.db")
	v.SetDefault("pipeline.keyword", "fitzpatrick")
	v.SetDefault("pipeline.country", "United States")
	v.SetDefault("output.raw_json", "data/fitzpatrick_usa_search.json")
	v.SetDefault("output.dataset_csv", "data/final_master_dataset.csv")
	v.SetDefault("output.unparsed_csv", "data/unparsed_studies.csv")
	v.SetDefault("output.dataset_xlsx", "data/final_master_dataset.xlsx")
	v.SetDefault("output.map_html", "index.html")
	v.SetDefault("output.geojson", "data/facilities.geojson")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
