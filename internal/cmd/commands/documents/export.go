package documents

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/ocrflow/docflow/internal/cmd/base"
	"github.com/ocrflow/docflow/internal/export"
)

type ExportCommand struct {
	*base.Command

	clientFlags base.ClientFlags
	flagOut     string
	flagStdout  bool
}

func (c *ExportCommand) Synopsis() string {
	return "Download the RAGFlow payload of a document"
}

func (c *ExportCommand) Help() string {
	return `Usage: docflow documents export [options] <id>

  This command downloads the RAGFlow add_chunk payload generated from the
  corrected data of a document. The file is written to every sink in the
  export block of the config file, or to the current directory when there
  is none.` + c.Flags().Help()
}

func (c *ExportCommand) Flags() *base.FlagSet {
	f := base.NewClientFlagSet("export", &c.clientFlags)

	f.StringVar(
		&c.flagOut, "out", "",
		"Directory to write the payload into. Replaces the configured sinks.",
	)
	f.BoolVar(
		&c.flagStdout, "stdout", false,
		"Print the payload instead of saving it.",
	)

	return f
}

func (c *ExportCommand) Run(args []string) int {
	env, rest, ok := c.ParseArgs(c.Flags(), &c.clientFlags, args, 1, "docflow documents export [options] <id>")
	if !ok {
		return 1
	}
	docID := rest[0]
	ctx := context.Background()

	resp, err := env.Client().ExportToRAGFlow(ctx, docID)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error exporting document %s: %v", docID, err))
		return 1
	}

	if c.flagStdout {
		c.UI.Output(string(resp.Body))
		return 0
	}

	var sinks export.Fanout
	if c.flagOut != "" {
		sinks = export.Fanout{export.NewFileSink(c.FS, c.flagOut, env.Logger)}
	} else {
		sinks, err = env.Config.Sinks(ctx, c.FS, env.Logger)
		if err != nil {
			c.UI.Error(fmt.Sprintf("error configuring export: %v", err))
			return 1
		}
	}

	a := export.ArtifactFromResponse(docID, resp)
	results, err := sinks.Write(ctx, a)
	for _, r := range results {
		if r.Err == nil {
			c.UI.Output(fmt.Sprintf("Wrote %s (%s) to %s", a.Filename, humanize.Bytes(uint64(len(a.Body))), r.Location))
		}
	}
	if err != nil {
		c.UI.Error(fmt.Sprintf("error writing export: %v", err))
		return 1
	}

	return 0
}
