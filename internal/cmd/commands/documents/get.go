package documents

import (
	"context"
	"fmt"

	"github.com/ocrflow/docflow/internal/cmd/base"
)

type GetCommand struct {
	*base.Command

	clientFlags base.ClientFlags
}

func (c *GetCommand) Synopsis() string {
	return "Show a document"
}

func (c *GetCommand) Help() string {
	return `Usage: docflow documents get [options] <id>

  This command prints a single document as JSON.` + c.Flags().Help()
}

func (c *GetCommand) Flags() *base.FlagSet {
	return base.NewClientFlagSet("get", &c.clientFlags)
}

func (c *GetCommand) Run(args []string) int {
	env, rest, ok := c.ParseArgs(c.Flags(), &c.clientFlags, args, 1, "docflow documents get [options] <id>")
	if !ok {
		return 1
	}

	resp, err := env.Client().GetDocument(context.Background(), rest[0])
	if err != nil {
		c.UI.Error(fmt.Sprintf("error getting document %s: %v", rest[0], err))
		return 1
	}

	c.OutputBody(resp.Body)
	return 0
}
