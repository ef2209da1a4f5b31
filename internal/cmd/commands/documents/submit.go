package documents

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ocrflow/docflow/internal/cmd/base"
	"github.com/ocrflow/docflow/pkg/docapi"
)

type SubmitCommand struct {
	*base.Command

	clientFlags base.ClientFlags
}

func (c *SubmitCommand) Synopsis() string {
	return "Upload corrected annotations exported from Label Studio"
}

func (c *SubmitCommand) Help() string {
	return `Usage: docflow documents submit [options] <id> <file>

  This command uploads a Label Studio JSON export with the corrected
  annotations of a document and marks it as corrected. Run
  "docflow documents export" afterwards to get the RAGFlow payload.` + c.Flags().Help()
}

func (c *SubmitCommand) Flags() *base.FlagSet {
	return base.NewClientFlagSet("submit", &c.clientFlags)
}

func (c *SubmitCommand) Run(args []string) int {
	env, rest, ok := c.ParseArgs(c.Flags(), &c.clientFlags, args, 2, "docflow documents submit [options] <id> <file>")
	if !ok {
		return 1
	}
	docID, path := rest[0], rest[1]

	f, err := c.FS.Open(path)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error opening file: %v", err))
		return 1
	}
	defer f.Close()

	resp, err := env.Client().SubmitCorrection(context.Background(), docID, filepath.Base(path), f)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error submitting correction for document %s: %v", docID, err))
		return 1
	}

	doc, err := docapi.DecodeDocument(resp)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error decoding document: %v", err))
		return 1
	}

	c.UI.Output(fmt.Sprintf("Document %d is now %s", doc.ID, doc.Status))
	return 0
}
