package documents

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ocrflow/docflow/internal/cmd/base"
	"github.com/ocrflow/docflow/pkg/docapi"
)

type UploadCommand struct {
	*base.Command

	clientFlags base.ClientFlags
}

func (c *UploadCommand) Synopsis() string {
	return "Upload a PDF for OCR"
}

func (c *UploadCommand) Help() string {
	return `Usage: docflow documents upload [options] <file>

  This command uploads a PDF. Processing happens in the background; use
  "docflow documents get" to follow the document status.` + c.Flags().Help()
}

func (c *UploadCommand) Flags() *base.FlagSet {
	return base.NewClientFlagSet("upload", &c.clientFlags)
}

func (c *UploadCommand) Run(args []string) int {
	env, rest, ok := c.ParseArgs(c.Flags(), &c.clientFlags, args, 1, "docflow documents upload [options] <file>")
	if !ok {
		return 1
	}
	path := rest[0]

	f, err := c.FS.Open(path)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error opening file: %v", err))
		return 1
	}
	defer f.Close()

	resp, err := env.Client().UploadDocument(context.Background(), filepath.Base(path), f)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error uploading %s: %v", path, err))
		return 1
	}

	doc, err := docapi.DecodeDocument(resp)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error decoding document: %v", err))
		return 1
	}

	c.UI.Output(fmt.Sprintf("Uploaded %s as document %d (status %s)", filepath.Base(path), doc.ID, doc.Status))
	return 0
}
