package documents

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/ocrflow/docflow/internal/cmd/base"
	"github.com/ocrflow/docflow/pkg/docapi"
)

type IngestCommand struct {
	*base.Command

	clientFlags base.ClientFlags
	flagUpload  bool
}

func (c *IngestCommand) Synopsis() string {
	return "Submit proofread data and convert it for RAGFlow"
}

func (c *IngestCommand) Help() string {
	return `Usage: docflow documents ingest [options] <id> <file>

  This command submits a Label Studio export with the proofread text of a
  document. The server stores it, converts it into RAGFlow chunks and marks
  the document as ingested.` + c.Flags().Help()
}

func (c *IngestCommand) Flags() *base.FlagSet {
	f := base.NewClientFlagSet("ingest", &c.clientFlags)

	f.BoolVar(
		&c.flagUpload, "upload", false,
		"Upload the file as multipart form data instead of sending it as the JSON request body.",
	)

	return f
}

func (c *IngestCommand) Run(args []string) int {
	env, rest, ok := c.ParseArgs(c.Flags(), &c.clientFlags, args, 2, "docflow documents ingest [options] <id> <file>")
	if !ok {
		return 1
	}
	docID, path := rest[0], rest[1]
	ctx := context.Background()
	client := env.Client()

	var (
		resp *docapi.Response
		err  error
	)
	if c.flagUpload {
		f, openErr := c.FS.Open(path)
		if openErr != nil {
			c.UI.Error(fmt.Sprintf("error opening file: %v", openErr))
			return 1
		}
		defer f.Close()
		resp, err = client.IngestToRagflowFile(ctx, docID, filepath.Base(path), f)
	} else {
		data, readErr := afero.ReadFile(c.FS, path)
		if readErr != nil {
			c.UI.Error(fmt.Sprintf("error reading file: %v", readErr))
			return 1
		}
		var corrected any
		if jsonErr := json.Unmarshal(data, &corrected); jsonErr != nil {
			c.UI.Error(fmt.Sprintf("error parsing %s: %v", path, jsonErr))
			return 1
		}
		resp, err = client.IngestToRagflow(ctx, docID, corrected)
	}
	if err != nil {
		c.UI.Error(fmt.Sprintf("error ingesting document %s: %v", docID, err))
		return 1
	}

	result, err := docapi.DecodeIngestResult(resp)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error decoding response: %v", err))
		return 1
	}

	c.UI.Output(fmt.Sprintf("Ingested document %s: %d chunks for %s (status %s)",
		docID, result.ChunksCount, result.RAGFlowPayload.DocID, result.Document.Status))
	return 0
}
