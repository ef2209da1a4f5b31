package version

import (
	"github.com/ocrflow/docflow/internal/cmd/base"
	"github.com/ocrflow/docflow/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the docflow version"
}

func (c *Command) Help() string {
	return `Usage: docflow version

  This command prints the docflow version.`
}

func (c *Command) Run(args []string) int {
	c.UI.Output(version.Full())
	return 0
}
