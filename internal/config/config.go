// Package config handles meshconv configuration loading and management.
package config

import (
	"github.com/Faultbox/meshconv/internal/logger"
	"github.com/Faultbox/meshconv/internal/pipeline"
	"github.com/Faultbox/meshconv/pkg/trade"
)

// Config holds all conversion settings.
type Config struct {
	Convert  ConvertConfig  `yaml:"convert" toml:"convert"`
	Pipeline PipelineConfig `yaml:"pipeline" toml:"pipeline"`
	Data     DataConfig     `yaml:"data" toml:"data"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// ConvertConfig selects the importer and the converter chain.
type ConvertConfig struct {
	Importer         string   `yaml:"importer" toml:"importer"`
	ImporterOptions  string   `yaml:"importer_options" toml:"importer_options"`
	Converters       []string `yaml:"converters" toml:"converters"`
	ConverterOptions []string `yaml:"converter_options" toml:"converter_options"` // One entry per hop
	DefaultConverter string   `yaml:"default_converter" toml:"default_converter"`
}

// PipelineConfig holds the optional processing stages.
type PipelineConfig struct {
	Mesh                  int     `yaml:"mesh" toml:"mesh"`
	Level                 int     `yaml:"level" toml:"level"`
	Concatenate           bool    `yaml:"concatenate" toml:"concatenate"`
	OnlyAttributes        string  `yaml:"only_attributes" toml:"only_attributes"` // Number sequence, e.g. "0,2-3"
	RemoveDuplicates      bool    `yaml:"remove_duplicates" toml:"remove_duplicates"`
	RemoveDuplicatesFuzzy bool    `yaml:"remove_duplicates_fuzzy" toml:"remove_duplicates_fuzzy"`
	FuzzyEpsilon          float64 `yaml:"fuzzy_epsilon" toml:"fuzzy_epsilon"`
	Profile               bool    `yaml:"profile" toml:"profile"`
	Verbose               bool    `yaml:"verbose" toml:"verbose"`
}

// DataConfig holds the archives searched for inputs missing on disk.
type DataConfig struct {
	GRFPaths []string `yaml:"grf_paths" toml:"grf_paths"` // Later archives win
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level" toml:"level"`
	LogFile    string `yaml:"log_file" toml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" toml:"max_age_days"`
	Compress   bool   `yaml:"compress" toml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	file := logger.DefaultFileConfig("")
	return &Config{
		Convert: ConvertConfig{
			Importer:         pipeline.DefaultImporter,
			DefaultConverter: pipeline.DefaultConverter,
		},
		Pipeline: PipelineConfig{
			FuzzyEpsilon: 1e-5,
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  file.MaxSizeMB,
			MaxBackups: file.MaxBackups,
			MaxAgeDays: file.MaxAgeDays,
			Compress:   file.Compress,
		},
	}
}

// FileConfig returns the rotation settings for logger.Init.
func (l LoggingConfig) FileConfig() logger.FileConfig {
	return logger.FileConfig{
		Path:       l.LogFile,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
		Compress:   l.Compress,
	}
}

// PipelineOptions converts the settings into pipeline options.
func (c *Config) PipelineOptions() (pipeline.Options, error) {
	opts := pipeline.Options{
		Importer:         c.Convert.Importer,
		ImporterOptions:  c.Convert.ImporterOptions,
		Converters:       c.Convert.Converters,
		ConverterOptions: c.Convert.ConverterOptions,
		DefaultConverter: c.Convert.DefaultConverter,
		Mesh:             c.Pipeline.Mesh,
		Level:            c.Pipeline.Level,
		Concatenate:      c.Pipeline.Concatenate,
		RemoveDuplicates: c.Pipeline.RemoveDuplicates,
		Fuzzy:            c.Pipeline.RemoveDuplicatesFuzzy,
		FuzzyEpsilon:     c.Pipeline.FuzzyEpsilon,
		Verbose:          c.Pipeline.Verbose,
		Profile:          c.Pipeline.Profile,
	}
	if err := trade.ValidateNumberSequence(c.Pipeline.OnlyAttributes); err != nil {
		return opts, err
	}
	opts.OnlyAttributes = c.Pipeline.OnlyAttributes
	return opts, nil
}
