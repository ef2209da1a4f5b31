package labelstudio

import (
	"github.com/mitchellh/cli"

	"github.com/ocrflow/docflow/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Work with the Label Studio proofreading tool"
}

func (c *Command) Help() string {
	return `Usage: docflow labelstudio <subcommand> [options] [args]

  This command groups subcommands for the Label Studio instance used to
  proofread OCR results.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}
