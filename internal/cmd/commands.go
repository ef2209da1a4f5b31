package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/ocrflow/docflow/internal/cmd/base"
	"github.com/ocrflow/docflow/internal/cmd/commands/config"
	"github.com/ocrflow/docflow/internal/cmd/commands/documents"
	"github.com/ocrflow/docflow/internal/cmd/commands/labelstudio"
	"github.com/ocrflow/docflow/internal/cmd/commands/version"
)

// Commands is the mapping of all available docflow commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := base.NewCommand(log, ui)

	Commands = map[string]cli.CommandFactory{
		"config": func() (cli.Command, error) {
			return &config.Command{Command: b}, nil
		},
		"documents": func() (cli.Command, error) {
			return &documents.Command{Command: b}, nil
		},
		"documents list": func() (cli.Command, error) {
			return &documents.ListCommand{Command: b}, nil
		},
		"documents get": func() (cli.Command, error) {
			return &documents.GetCommand{Command: b}, nil
		},
		"documents upload": func() (cli.Command, error) {
			return &documents.UploadCommand{Command: b}, nil
		},
		"documents delete": func() (cli.Command, error) {
			return &documents.DeleteCommand{Command: b}, nil
		},
		"documents tasks": func() (cli.Command, error) {
			return &documents.TasksCommand{Command: b}, nil
		},
		"documents ingest": func() (cli.Command, error) {
			return &documents.IngestCommand{Command: b}, nil
		},
		"documents export": func() (cli.Command, error) {
			return &documents.ExportCommand{Command: b}, nil
		},
		"documents push": func() (cli.Command, error) {
			return &documents.PushCommand{Command: b}, nil
		},
		"documents submit": func() (cli.Command, error) {
			return &documents.SubmitCommand{Command: b}, nil
		},
		"documents image": func() (cli.Command, error) {
			return &documents.ImageCommand{Command: b}, nil
		},
		"labelstudio": func() (cli.Command, error) {
			return &labelstudio.Command{Command: b}, nil
		},
		"labelstudio open": func() (cli.Command, error) {
			return &labelstudio.OpenCommand{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}
