package documents

import (
	"github.com/mitchellh/cli"

	"github.com/ocrflow/docflow/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Manage documents in the OCR pipeline"
}

func (c *Command) Help() string {
	return `Usage: docflow documents <subcommand> [options] [args]

  This command groups subcommands for working with documents: uploading
  PDFs, following their processing, pushing them to Label Studio for
  proofreading and exporting the corrected text to RAGFlow.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}
