package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/marshallshelly/toolshop-fixtures/pkg/pipeline"
)

// EnvPrefix prefixes every environment override, e.g. TOOLSHOP_SEED.
const EnvPrefix = "TOOLSHOP"

// Config represents the complete configuration.
type Config struct {
	Seed     uint64          `yaml:"seed" json:"seed" envconfig:"SEED"`
	Anchor   string          `yaml:"anchor" json:"anchor" envconfig:"ANCHOR" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Counts   pipeline.Counts `yaml:"counts" json:"counts" envconfig:"COUNT"`
	Output   Output          `yaml:"output" json:"output" envconfig:"OUTPUT"`
	Database Database        `yaml:"database" json:"database" envconfig:"DB"`
	Storage  Storage         `yaml:"storage" json:"storage" envconfig:"S3"`
	Log      Log             `yaml:"log" json:"log" envconfig:"LOG"`
}

// Output configures file sinks.
type Output struct {
	Dir      string `yaml:"dir" json:"dir" envconfig:"DIR" validate:"required"`
	Format   string `yaml:"format" json:"format" envconfig:"FORMAT" validate:"oneof=csv xlsx"`
	Manifest bool   `yaml:"manifest" json:"manifest" envconfig:"MANIFEST"`
}

// Database configures the Postgres seeding sink.
type Database struct {
	URL      string `yaml:"url" json:"url" envconfig:"URL"`
	Truncate bool   `yaml:"truncate" json:"truncate" envconfig:"TRUNCATE"`
}

// Storage configures the S3-compatible bucket runs are published to.
type Storage struct {
	Endpoint  string `yaml:"endpoint" json:"endpoint" envconfig:"ENDPOINT"`
	AccessKey string `yaml:"accessKey" json:"accessKey" envconfig:"ACCESS_KEY"`
	SecretKey string `yaml:"secretKey" json:"secretKey" envconfig:"SECRET_KEY"`
	Bucket    string `yaml:"bucket" json:"bucket" envconfig:"BUCKET" validate:"required"`
	Prefix    string `yaml:"prefix" json:"prefix" envconfig:"PREFIX"`
	Region    string `yaml:"region" json:"region" envconfig:"REGION"`
	UseSSL    bool   `yaml:"useSSL" json:"useSSL" envconfig:"USE_SSL"`
}

// Log configures structured logging.
type Log struct {
	Level      string `yaml:"level" json:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format     string `yaml:"format" json:"format" envconfig:"FORMAT" validate:"oneof=text json"`
	TimeFormat string `yaml:"timeFormat" json:"timeFormat" envconfig:"TIME_FORMAT"`
	File       string `yaml:"file" json:"file" envconfig:"FILE"`
	MaxSizeMB  int    `yaml:"maxSizeMB" json:"maxSizeMB" envconfig:"MAX_SIZE_MB" validate:"gte=0"`
	MaxBackups int    `yaml:"maxBackups" json:"maxBackups" envconfig:"MAX_BACKUPS" validate:"gte=0"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Seed:    DefaultSeed,
		Counts:  DefaultCounts(),
		Output:  DefaultOutput(),
		Storage: DefaultStorage(),
		Log:     DefaultLog(),
	}
}

// LoadFile loads configuration from a file (YAML or JSON based on extension) over the
// current values. Keys absent from the file keep their current value.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parsing YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parsing JSON config: %w", err)
		}
	default:
		// Try YAML first, then JSON
		if err := yaml.Unmarshal(data, c); err != nil {
			if err := json.Unmarshal(data, c); err != nil {
				return fmt.Errorf("unable to parse config as YAML or JSON")
			}
		}
	}

	return nil
}

// LoadEnv applies TOOLSHOP_* environment overrides. envFiles are loaded first when given;
// otherwise a .env in the working directory is used if present. Variables already set in
// the environment win over file values.
func (c *Config) LoadEnv(envFiles ...string) error {
	logger := slog.Default()

	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil {
			logger.Debug("No .env file found in current directory")
		}
	} else {
		for _, path := range envFiles {
			if err := godotenv.Load(path); err != nil {
				return fmt.Errorf("loading env file %s: %w", path, err)
			}
			logger.Debug("Loaded environment file", "path", path)
		}
	}

	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// LogValue masks secrets when the config is logged.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("seed", c.Seed),
		slog.String("anchor", c.Anchor),
		slog.Any("counts", c.Counts),
		slog.String("output", c.Output.Dir),
		slog.String("format", c.Output.Format),
		slog.String("db", mask(c.Database.URL)),
		slog.String("s3_endpoint", c.Storage.Endpoint),
		slog.String("s3_secret", mask(c.Storage.SecretKey)),
	)
}

func mask(v string) string {
	if v == "" {
		return ""
	}
	if len(v) <= 6 {
		return "****"
	}
	return v[:3] + "****" + v[len(v)-3:]
}
