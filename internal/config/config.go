// Package config loads the optional YAML configuration of the converter.
package config

import (
	stderrors "errors"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/price-convert/internal/version"
	"github.com/rxtech-lab/price-convert/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultInput    = "GSPC.csv"
	DefaultOutput   = "GSPC.json"
	DefaultLogLevel = "info"
)

// Config holds the settings of a conversion run.
type Config struct {
	Version  string `yaml:"version" json:"version,omitempty" jsonschema:"title=Version,description=Tool version this file was written for (major must match the tool)"`
	Input    string `yaml:"input" json:"input" jsonschema:"title=Input,description=Path of the CSV file to read,default=GSPC.csv" validate:"required"`
	Output   string `yaml:"output" json:"output" jsonschema:"title=Output,description=Path of the file to write,default=GSPC.json" validate:"required"`
	Format   string `yaml:"format" json:"format,omitempty" jsonschema:"title=Format,description=Output format. Inferred from the output extension when empty,enum=json,enum=parquet" validate:"omitempty,oneof=json parquet"`
	Indent   int    `yaml:"indent" json:"indent,omitempty" jsonschema:"title=Indent,description=Spaces used to indent JSON output. 0 writes compact JSON,minimum=0,maximum=8" validate:"min=0,max=8"`
	Strict   bool   `yaml:"strict" json:"strict,omitempty" jsonschema:"title=Strict,description=Fail when a renamed source column is missing from the input"`
	Progress bool   `yaml:"progress" json:"progress,omitempty" jsonschema:"title=Progress,description=Show a progress bar on stderr while writing"`
	LogLevel string `yaml:"log_level" json:"log_level,omitempty" jsonschema:"title=Log Level,description=Minimum log level,enum=debug,enum=info,enum=warn,enum=error,default=info" validate:"oneof=debug info warn error"`
}

// Default returns the configuration that converts GSPC.csv to GSPC.json.
func Default() Config {
	return Config{
		Input:    DefaultInput,
		Output:   DefaultOutput,
		LogLevel: DefaultLogLevel,
	}
}

// Load reads a YAML config file on top of the defaults and validates it.
// Unknown keys are rejected.
func Load(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to open config file %s", path)
	}
	defer file.Close()

	config, err := Parse(file)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid config file %s", path)
	}

	return config, nil
}

// Parse decodes YAML from r on top of the defaults and validates the result.
func Parse(r io.Reader) (Config, error) {
	config := Default()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil && !stderrors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse YAML", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate checks field constraints and the config version.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	if c.Version != "" {
		if err := version.CheckConfigCompatibility(version.GetVersion(), c.Version); err != nil {
			return errors.Wrap(errors.ErrCodeVersionMismatch, "incompatible config version", err)
		}
	}

	return nil
}
