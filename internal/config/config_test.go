package config

import (
	"context"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocrflow/docflow/internal/export"
	"github.com/ocrflow/docflow/pkg/docapi"
	"github.com/ocrflow/docflow/pkg/settings"
)

func TestNewConfig_Full(t *testing.T) {
	cfg, err := NewConfig("testdata/full.hcl")
	require.NoError(t, err)

	assert.Equal(t, settings.Overrides{
		APIBaseURL:     "https://ocr.example.com/api",
		LabelStudioURL: "https://label.example.com",
	}, cfg.Overrides())
	assert.Equal(t, "ocr-box", cfg.Hostname)
	assert.Equal(t, hclog.Debug, cfg.Level())
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout())

	require.NotNil(t, cfg.Export)
	assert.Equal(t, "/var/lib/docflow/exports", cfg.Export.Directory)
	require.NotNil(t, cfg.Export.S3)
	assert.Equal(t, "ragflow-payloads", cfg.Export.S3.Bucket)
	assert.Equal(t, "http://localhost:9000", cfg.Export.S3.Endpoint)
	assert.Equal(t, "exports/", cfg.Export.S3.Prefix)
}

func TestNewConfig_Minimal(t *testing.T) {
	cfg, err := NewConfig("testdata/minimal.hcl")
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5", cfg.Hostname)
	assert.Equal(t, settings.Overrides{}, cfg.Overrides())
	assert.Equal(t, hclog.Info, cfg.Level())
	assert.Equal(t, docapi.DefaultTimeout, cfg.RequestTimeout())
	assert.Nil(t, cfg.Export)
}

func TestNewConfig_EmptyPath(t *testing.T) {
	cfg, err := NewConfig("")
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestNewConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{
			name:    "Missing file",
			path:    "testdata/nope.hcl",
			wantErr: "configuration file not found",
		},
		{
			name:    "Syntax error",
			path:    "testdata/syntax.hcl",
			wantErr: "failed to parse configuration file",
		},
		{
			name:    "Unknown log level",
			path:    "testdata/bad_level.hcl",
			wantErr: `unknown log level "loud"`,
		},
		{
			name:    "S3 without region or endpoint",
			path:    "testdata/bad_s3.hcl",
			wantErr: "export.s3: region: is required when endpoint is not set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_Timeout(t *testing.T) {
	assert.NoError(t, (&Config{Timeout: "2m"}).Validate())
	assert.Error(t, (&Config{Timeout: "soon"}).Validate())
	assert.Error(t, (&Config{Timeout: "-5s"}).Validate())
}

func TestSinks(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()

	t.Run("Default", func(t *testing.T) {
		sinks, err := (&Config{}).Sinks(ctx, fs, nil)
		require.NoError(t, err)
		require.Len(t, sinks, 1)
		assert.Equal(t, "file", sinks[0].Name())
	})

	t.Run("Directory and S3", func(t *testing.T) {
		cfg := &Config{Export: &Export{
			Directory: "/out",
			S3:        &export.S3Config{Endpoint: "http://localhost:9000", Bucket: "b"},
		}}

		sinks, err := cfg.Sinks(ctx, fs, hclog.NewNullLogger())
		require.NoError(t, err)
		require.Len(t, sinks, 2)
		assert.Equal(t, "file", sinks[0].Name())
		assert.Equal(t, "s3", sinks[1].Name())
	})

	t.Run("Invalid S3", func(t *testing.T) {
		cfg := &Config{Export: &Export{S3: &export.S3Config{}}}

		_, err := cfg.Sinks(ctx, fs, nil)
		require.Error(t, err)
	})
}
