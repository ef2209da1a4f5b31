package documents

import (
	"context"
	"fmt"

	"github.com/ocrflow/docflow/internal/cmd/base"
	"github.com/ocrflow/docflow/internal/export"
)

type TasksCommand struct {
	*base.Command

	clientFlags base.ClientFlags
	flagOut     string
}

func (c *TasksCommand) Synopsis() string {
	return "Download the raw OCR result of a document"
}

func (c *TasksCommand) Help() string {
	return `Usage: docflow documents tasks [options] <id>

  This command downloads the raw OCR result of a document, the input for
  proofreading in Label Studio. It is printed unless -out is set.` + c.Flags().Help()
}

func (c *TasksCommand) Flags() *base.FlagSet {
	f := base.NewClientFlagSet("tasks", &c.clientFlags)

	f.StringVar(
		&c.flagOut, "out", "",
		"Directory to save the file into, named as the server suggests.",
	)

	return f
}

func (c *TasksCommand) Run(args []string) int {
	env, rest, ok := c.ParseArgs(c.Flags(), &c.clientFlags, args, 1, "docflow documents tasks [options] <id>")
	if !ok {
		return 1
	}
	docID := rest[0]
	ctx := context.Background()

	resp, err := env.Client().GetLabelStudioTasks(ctx, docID)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error getting OCR result of document %s: %v", docID, err))
		return 1
	}

	if c.flagOut == "" {
		c.OutputBody(resp.Body)
		return 0
	}

	a := export.ArtifactFromResponse(docID, resp)
	if resp.Filename() == "" {
		a.Filename = fmt.Sprintf("%s_raw_ocr.json", docID)
	}

	location, err := export.NewFileSink(c.FS, c.flagOut, env.Logger).Write(ctx, a)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error saving OCR result: %v", err))
		return 1
	}

	c.UI.Output(fmt.Sprintf("Saved %s", location))
	return 0
}
