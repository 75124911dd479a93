// Package config assembles the server configuration from, in increasing
// priority: built-in defaults, an optional JSON file, environment variables
// (with .env support) and command-line flags.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the bookstore server.
type Config struct {
	RunAddr         string        `env:"SERVER_ADDRESS" json:"server_address" validate:"hostname_port"`
	LogLevel        string        `env:"LOG_LEVEL" json:"log_level" validate:"loglevel"`
	CatalogFileName string        `env:"CATALOG_FILE_PATH" json:"catalog_file_path" validate:"existingfile"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" json:"shutdown_timeout" validate:"gt=0"`
	EnableGzip      bool          `env:"ENABLE_GZIP" json:"enable_gzip"`
	ConfigFileName  string        `env:"CONFIG" json:"-"`
}

var defaultConfig = Config{
	RunAddr:         ":8080",
	LogLevel:        "info",
	CatalogFileName: "",
	ShutdownTimeout: 10 * time.Second,
	EnableGzip:      true,
}

type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
	args                []string
}

// WithDisableFlagsParsing makes New ignore the command line.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// WithArgs makes New parse args instead of os.Args[1:].
func WithArgs(args []string) InitOption {
	return func(options *initOptions) {
		options.args = args
	}
}

// New builds and validates the configuration.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{
		disableFlagsParsing: false,
		args:                os.Args[1:],
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	values := &Config{}
	applyDefaults(values, defaultConfig)

	var fromFlags Config
	flagSet, explicitConfigFile := newFlagSet(&fromFlags)
	if !options.disableFlagsParsing {
		if err := flagSet.Parse(options.args); err != nil {
			return nil, err
		}
	}

	var fromEnv Config
	if err := env.Parse(&fromEnv); err != nil {
		return nil, err
	}

	configFileName := fromEnv.ConfigFileName
	if *explicitConfigFile != "" {
		configFileName = *explicitConfigFile
	}
	if configFileName != "" {
		fromFile, gzipSet, err := loadJSON(configFileName)
		if err != nil {
			return nil, err
		}
		applyOverrides(values, fromFile, gzipSet)
	}

	_, gzipSetInEnv := os.LookupEnv("ENABLE_GZIP")
	applyOverrides(values, fromEnv, gzipSetInEnv)

	gzipSetInFlags := false
	flagSet.Visit(func(f *flag.Flag) {
		if f.Name == "g" {
			gzipSetInFlags = true
		}
	})
	applyOverrides(values, fromFlags, gzipSetInFlags)

	if err := validate(values); err != nil {
		return nil, err
	}

	return values, nil
}

func newFlagSet(values *Config) (*flag.FlagSet, *string) {
	flagSet := flag.NewFlagSet("bookstore", flag.ContinueOnError)
	flagSet.StringVar(&values.RunAddr, "a", "", "address and port to run server")
	flagSet.StringVar(&values.LogLevel, "l", "", "logger level")
	flagSet.StringVar(&values.CatalogFileName, "c", "", "JSON file with the catalog seed")
	flagSet.DurationVar(&values.ShutdownTimeout, "t", 0, "graceful shutdown timeout")
	flagSet.BoolVar(&values.EnableGzip, "g", false, "enable gzip compression")
	configFile := flagSet.String("config", "", "JSON configuration file")

	return flagSet, configFile
}

func applyDefaults(values *Config, defaults Config) {
	*values = defaults
}

// applyOverrides copies non-zero fields of src into dst. EnableGzip is
// copied only when the source sets it explicitly, false included.
func applyOverrides(dst *Config, src Config, gzipSet bool) {
	if src.RunAddr != "" {
		dst.RunAddr = src.RunAddr
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.CatalogFileName != "" {
		dst.CatalogFileName = src.CatalogFileName
	}
	if src.ShutdownTimeout != 0 {
		dst.ShutdownTimeout = src.ShutdownTimeout
	}
	if gzipSet {
		dst.EnableGzip = src.EnableGzip
	}
}

func loadJSON(fileName string) (Config, bool, error) {
	var result Config

	data, err := os.ReadFile(fileName)
	if err != nil {
		return result, false, fmt.Errorf("error reading config file: %w", err)
	}

	var raw struct {
		Config
		ShutdownTimeout string `json:"shutdown_timeout"`
		EnableGzip      *bool  `json:"enable_gzip"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return result, false, fmt.Errorf("error parsing config file %s: %w", fileName, err)
	}

	result = raw.Config
	if raw.ShutdownTimeout != "" {
		result.ShutdownTimeout, err = time.ParseDuration(raw.ShutdownTimeout)
		if err != nil {
			return result, false, fmt.Errorf("error parsing shutdown_timeout: %w", err)
		}
	}
	if raw.EnableGzip != nil {
		result.EnableGzip = *raw.EnableGzip
	}

	return result, raw.EnableGzip != nil, nil
}

func validateExistingFile(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	if path == "" {
		return true
	}
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	return allowedLogLevels[value]
}

func validate(values *Config) error {
	validate := validator.New()

	err := validate.RegisterValidation("loglevel", validateLogLevel)
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("existingfile", validateExistingFile)
	if err != nil {
		return err
	}

	return validate.Struct(values)
}
