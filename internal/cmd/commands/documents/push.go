package documents

import (
	"context"
	"fmt"

	"github.com/ocrflow/docflow/internal/cmd/base"
	"github.com/ocrflow/docflow/pkg/docapi"
)

type PushCommand struct {
	*base.Command

	clientFlags base.ClientFlags
	flagForce   bool
}

func (c *PushCommand) Synopsis() string {
	return "Push a document to Label Studio for proofreading"
}

func (c *PushCommand) Help() string {
	return `Usage: docflow documents push [options] <id>

  This command creates Label Studio tasks, one per page, with the OCR
  result as predictions. Documents that were already pushed are skipped
  unless -force is set.` + c.Flags().Help()
}

func (c *PushCommand) Flags() *base.FlagSet {
	f := base.NewClientFlagSet("push", &c.clientFlags)

	f.BoolVar(
		&c.flagForce, "force", false,
		"Push again even if the document was already pushed.",
	)

	return f
}

func (c *PushCommand) Run(args []string) int {
	env, rest, ok := c.ParseArgs(c.Flags(), &c.clientFlags, args, 1, "docflow documents push [options] <id>")
	if !ok {
		return 1
	}
	docID := rest[0]

	resp, err := env.Client().PushToLabelStudio(context.Background(), docID, c.flagForce)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error pushing document %s: %v", docID, err))
		return 1
	}

	result, err := docapi.DecodePushResult(resp)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error decoding response: %v", err))
		return 1
	}

	if result.Synced {
		c.UI.Warn(fmt.Sprintf("Document %s was already pushed (tasks %v). Use -force to push again.", docID, result.TaskIDs))
		return 0
	}

	c.UI.Output(fmt.Sprintf("Pushed %d tasks for document %s: %v", result.TaskCount, docID, result.TaskIDs))
	c.UI.Output(fmt.Sprintf("Open them with: docflow labelstudio open -task %s", firstTask(result.TaskIDs)))
	return 0
}

func firstTask(ids []int64) string {
	if len(ids) == 0 {
		return "<id>"
	}
	return fmt.Sprint(ids[0])
}
