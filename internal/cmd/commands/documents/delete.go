package documents

import (
	"context"
	"fmt"

	"github.com/ocrflow/docflow/internal/cmd/base"
)

type DeleteCommand struct {
	*base.Command

	clientFlags base.ClientFlags
}

func (c *DeleteCommand) Synopsis() string {
	return "Delete a document"
}

func (c *DeleteCommand) Help() string {
	return `Usage: docflow documents delete [options] <id>

  This command deletes a document and its processing output.` + c.Flags().Help()
}

func (c *DeleteCommand) Flags() *base.FlagSet {
	return base.NewClientFlagSet("delete", &c.clientFlags)
}

func (c *DeleteCommand) Run(args []string) int {
	env, rest, ok := c.ParseArgs(c.Flags(), &c.clientFlags, args, 1, "docflow documents delete [options] <id>")
	if !ok {
		return 1
	}

	if _, err := env.Client().DeleteDocument(context.Background(), rest[0]); err != nil {
		c.UI.Error(fmt.Sprintf("error deleting document %s: %v", rest[0], err))
		return 1
	}

	c.UI.Output(fmt.Sprintf("Deleted document %s", rest[0]))
	return 0
}
