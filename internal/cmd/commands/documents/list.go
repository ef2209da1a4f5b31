package documents

import (
	"context"
	"fmt"
	"path"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/ocrflow/docflow/internal/cmd/base"
	"github.com/ocrflow/docflow/pkg/docapi"
)

type ListCommand struct {
	*base.Command

	clientFlags base.ClientFlags

	flagJSON bool
}

func (c *ListCommand) Synopsis() string {
	return "List documents"
}

func (c *ListCommand) Help() string {
	return `Usage: docflow documents list [options]

  This command lists all documents, newest first.` + c.Flags().Help()
}

func (c *ListCommand) Flags() *base.FlagSet {
	f := base.NewClientFlagSet("list", &c.clientFlags)

	f.BoolVar(
		&c.flagJSON, "json", false,
		"Print the raw API response instead of a table.",
	)

	return f
}

func (c *ListCommand) Run(args []string) int {
	env, _, ok := c.ParseArgs(c.Flags(), &c.clientFlags, args, 0, "docflow documents list [options]")
	if !ok {
		return 1
	}

	resp, err := env.Client().GetDocuments(context.Background())
	if err != nil {
		c.UI.Error(fmt.Sprintf("error listing documents: %v", err))
		return 1
	}

	if c.flagJSON {
		c.OutputBody(resp.Body)
		return 0
	}

	docs, err := docapi.DecodeDocuments(resp)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error decoding documents: %v", err))
		return 1
	}

	if len(docs) == 0 {
		c.UI.Output("No documents.")
		return 0
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tLABEL STUDIO\tCREATED\tFILE")
	for _, doc := range docs {
		synced := "-"
		if doc.LabelStudioSynced {
			synced = fmt.Sprintf("%d tasks", len(doc.LabelStudioTaskIDs))
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			doc.ID, doc.Status, synced, humanize.Time(doc.CreatedAt), path.Base(doc.OriginalPDFPath))
	}
	w.Flush()

	c.UI.Output(strings.TrimRight(b.String(), "\n"))
	return 0
}
