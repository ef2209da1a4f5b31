package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
)

// FileSink writes artifacts into a directory.
type FileSink struct {
	fs     afero.Fs
	dir    string
	logger hclog.Logger
}

// NewFileSink returns a sink writing into dir on fs. A nil fs means the OS
// filesystem.
func NewFileSink(fs afero.Fs, dir string, logger hclog.Logger) *FileSink {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if dir == "" {
		dir = "."
	}

	return &FileSink{
		fs:     fs,
		dir:    dir,
		logger: logger.Named("file-sink"),
	}
}

func (s *FileSink) Name() string {
	return "file"
}

// Write creates the directory if needed and overwrites any existing file of
// the same name.
func (s *FileSink) Write(ctx context.Context, a Artifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", s.dir, err)
	}

	dest := filepath.Join(s.dir, a.Filename)
	if err := afero.WriteFile(s.fs, dest, a.Body, os.FileMode(0o644)); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", dest, err)
	}

	s.logger.Debug("wrote artifact", "doc_id", a.DocID, "path", dest, "bytes", len(a.Body))
	return dest, nil
}
