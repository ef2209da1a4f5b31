// Package config loads the docflow HCL configuration file.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/spf13/afero"

	"github.com/ocrflow/docflow/internal/export"
	"github.com/ocrflow/docflow/pkg/docapi"
	"github.com/ocrflow/docflow/pkg/settings"
)

// Config is the docflow configuration. Every field is optional.
type Config struct {
	// APIBaseURL overrides the document API base URL.
	APIBaseURL string `hcl:"api_base_url,optional"`

	// LabelStudioURL overrides the Label Studio URL.
	LabelStudioURL string `hcl:"label_studio_url,optional"`

	// Hostname is the host the default URLs point at.
	Hostname string `hcl:"hostname,optional"`

	// LogLevel is one of trace, debug, info, warn, error or off.
	LogLevel string `hcl:"log_level,optional"`

	// Timeout is the API request timeout as a Go duration, e.g. "45s".
	Timeout string `hcl:"timeout,optional"`

	// Export configures where exported RAGFlow payloads are stored.
	Export *Export `hcl:"export,block"`
}

// Export configures export sinks.
type Export struct {
	// Directory is a local directory to write payloads into.
	Directory string `hcl:"directory,optional"`

	// S3 uploads payloads to an S3 compatible bucket.
	S3 *export.S3Config `hcl:"s3,block"`
}

// NewConfig parses the file at path. An empty path returns an empty
// configuration.
func NewConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("configuration file not found: %s", path)
	}

	if err := hclsimple.DecodeFile(path, nil, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the log level, the timeout and any S3 block.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.By(validLogLevel)),
		validation.Field(&c.Timeout, validation.By(validDuration)),
	); err != nil {
		return err
	}

	if c.Export != nil && c.Export.S3 != nil {
		if err := c.Export.S3.Validate(); err != nil {
			return fmt.Errorf("export.s3: %w", err)
		}
	}
	return nil
}

func validLogLevel(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if hclog.LevelFromString(s) == hclog.NoLevel {
		return fmt.Errorf("unknown log level %q", s)
	}
	return nil
}

func validDuration(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	if d <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}

// Overrides returns the URL overrides set in the file.
func (c *Config) Overrides() settings.Overrides {
	return settings.Overrides{
		APIBaseURL:     c.APIBaseURL,
		LabelStudioURL: c.LabelStudioURL,
	}
}

// RequestTimeout returns the configured timeout, or the client default.
func (c *Config) RequestTimeout() time.Duration {
	if d, err := time.ParseDuration(c.Timeout); err == nil && d > 0 {
		return d
	}
	return docapi.DefaultTimeout
}

// Level returns the configured log level, defaulting to info.
func (c *Config) Level() hclog.Level {
	if level := hclog.LevelFromString(strings.TrimSpace(c.LogLevel)); level != hclog.NoLevel {
		return level
	}
	return hclog.Info
}

// Sinks builds the export sinks named in the file. Without an export block
// payloads are written to the current directory.
func (c *Config) Sinks(ctx context.Context, fs afero.Fs, logger hclog.Logger) (export.Fanout, error) {
	if c.Export == nil {
		return export.Fanout{export.NewFileSink(fs, ".", logger)}, nil
	}

	var sinks export.Fanout
	if c.Export.Directory != "" {
		sinks = append(sinks, export.NewFileSink(fs, c.Export.Directory, logger))
	}
	if c.Export.S3 != nil {
		sink, err := export.NewS3Sink(ctx, *c.Export.S3, logger)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
	}
	if len(sinks) == 0 {
		sinks = append(sinks, export.NewFileSink(fs, ".", logger))
	}
	return sinks, nil
}
