// Package config defines the data structures related to configuration and
// includes functions for loading, validating and rendering the config.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/iwvelando/finance-flags/internal/flags"
	"github.com/iwvelando/finance-flags/pkg/constants"
	"github.com/iwvelando/finance-flags/pkg/validation"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Configuration holds all configuration for finance-flags.
type Configuration struct {
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
	Output     OutputConfig     `mapstructure:"output" yaml:"output"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Evaluation EvaluationConfig `mapstructure:"evaluation" yaml:"evaluation"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv, json
}

// ServerConfig defines runtime parameters for the HTTP server.
type ServerConfig struct {
	Address         string `mapstructure:"address" yaml:"address"`
	MaxUploadSize   string `mapstructure:"maxUploadSize" yaml:"maxUploadSize"`
	ReadTimeout     string `mapstructure:"readTimeout" yaml:"readTimeout"`
	WriteTimeout    string `mapstructure:"writeTimeout" yaml:"writeTimeout"`
	ShutdownTimeout string `mapstructure:"shutdownTimeout" yaml:"shutdownTimeout"`

	uploadSizeBytes int64
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
}

// EvaluationConfig holds the flag thresholds and the missing data policy.
type EvaluationConfig struct {
	MinRevenue        float64 `mapstructure:"minRevenue" yaml:"minRevenue"`
	MaxBorrowingRatio float64 `mapstructure:"maxBorrowingRatio" yaml:"maxBorrowingRatio"`
	MinISCR           float64 `mapstructure:"minISCR" yaml:"minISCR"`
	MissingData       string  `mapstructure:"missingData" yaml:"missingData"` // sentinel, flag
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("server.maxUploadSize", constants.DefaultMaxUploadSize)
	v.SetDefault("server.readTimeout", constants.DefaultReadTimeout)
	v.SetDefault("server.writeTimeout", constants.DefaultWriteTimeout)
	v.SetDefault("server.shutdownTimeout", constants.DefaultShutdownTimeout)
	v.SetDefault("evaluation.minRevenue", constants.MinRevenue)
	v.SetDefault("evaluation.maxBorrowingRatio", constants.MaxBorrowingRatio)
	v.SetDefault("evaluation.minISCR", constants.MinISCR)
	v.SetDefault("evaluation.missingData", constants.MissingDataSentinel)
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. A missing file yields the defaults; environment
// variables prefixed with FINFLAGS_ override either.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file, %s", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file, %s", err)
		}
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// Validate checks enumerated values and thresholds, and parses the server
// sizes and durations.
func (c *Configuration) Validate() error {
	if c.Logging.Level != "" {
		if err := validation.ValidateLogLevel(c.Logging.Level); err != nil {
			return err
		}
	}
	if c.Logging.Format != "" {
		if err := validation.ValidateLogFormat(c.Logging.Format); err != nil {
			return err
		}
	}
	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			return err
		}
	}
	validator := c.Evaluation.validator()
	if err := validator.Validate(); err != nil {
		return err
	}
	return c.Server.normalize()
}

// Warnings lists settings that deviate from the standard evaluation.
func (c *Configuration) Warnings() []string {
	validator := c.Evaluation.validator()
	return validator.ValidateAll()
}

func (e EvaluationConfig) validator() validation.EvaluationValidator {
	return validation.EvaluationValidator{
		MinRevenue:        e.MinRevenue,
		MaxBorrowingRatio: e.MaxBorrowingRatio,
		MinISCR:           e.MinISCR,
		MissingData:       e.MissingData,
	}
}

// EvaluatorOptions converts the evaluation settings for flags.NewEvaluator.
func (c *Configuration) EvaluatorOptions() flags.Options {
	return flags.Options{
		Thresholds: flags.NewThresholds(
			c.Evaluation.MinRevenue,
			c.Evaluation.MaxBorrowingRatio,
			c.Evaluation.MinISCR,
		),
		MissingData: c.Evaluation.MissingData,
	}
}

// YAML renders the effective configuration.
func (c *Configuration) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// UploadSizeBytes returns the configured upload size in bytes.
func (s *ServerConfig) UploadSizeBytes() int64 {
	return s.uploadSizeBytes
}

// SetUploadSizeBytes overrides the configured upload size.
func (s *ServerConfig) SetUploadSizeBytes(size int64) {
	if size > 0 {
		s.uploadSizeBytes = size
		s.MaxUploadSize = fmt.Sprintf("%d", size)
	}
}

// ReadTimeoutDuration returns the parsed read timeout.
func (s *ServerConfig) ReadTimeoutDuration() time.Duration { return s.readTimeout }

// WriteTimeoutDuration returns the parsed write timeout.
func (s *ServerConfig) WriteTimeoutDuration() time.Duration { return s.writeTimeout }

// ShutdownTimeoutDuration returns the parsed shutdown timeout.
func (s *ServerConfig) ShutdownTimeoutDuration() time.Duration { return s.shutdownTimeout }

func (s *ServerConfig) normalize() error {
	if strings.TrimSpace(s.Address) == "" {
		s.Address = constants.DefaultServerAddress
	}

	size, err := ParseSize(s.MaxUploadSize)
	if err != nil {
		return err
	}
	if size <= 0 {
		size = constants.DefaultMaxUploadSizeBytes
	}
	s.uploadSizeBytes = size

	if s.readTimeout, err = parseDuration("server.readTimeout", s.ReadTimeout, constants.DefaultReadTimeout); err != nil {
		return err
	}
	if s.writeTimeout, err = parseDuration("server.writeTimeout", s.WriteTimeout, constants.DefaultWriteTimeout); err != nil {
		return err
	}
	if s.shutdownTimeout, err = parseDuration("server.shutdownTimeout", s.ShutdownTimeout, constants.DefaultShutdownTimeout); err != nil {
		return err
	}
	return nil
}

func parseDuration(key, value, fallback string) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = fallback
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, value)
	}
	return d, nil
}
