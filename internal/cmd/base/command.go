package base

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
)

// Command is embedded by every docflow command.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui

	// FS is where commands read input files and write downloads.
	FS afero.Fs
}

func NewCommand(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{
		Log: log,
		UI:  ui,
		FS:  afero.NewOsFs(),
	}
}
