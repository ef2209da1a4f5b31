package documents

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ocrflow/docflow/internal/cmd/base"
	"github.com/ocrflow/docflow/internal/export"
)

type ImageCommand struct {
	*base.Command

	clientFlags base.ClientFlags
	flagOut     string
}

func (c *ImageCommand) Synopsis() string {
	return "Download a rendered page image"
}

func (c *ImageCommand) Help() string {
	return `Usage: docflow documents image [options] <folder> <filename>

  This command downloads a page image as served to Label Studio. The
  folder is the processing output folder of the document, as found in the
  image URLs of its tasks.` + c.Flags().Help()
}

func (c *ImageCommand) Flags() *base.FlagSet {
	f := base.NewClientFlagSet("image", &c.clientFlags)

	f.StringVar(
		&c.flagOut, "out", ".",
		"Directory to save the image into.",
	)

	return f
}

func (c *ImageCommand) Run(args []string) int {
	env, rest, ok := c.ParseArgs(c.Flags(), &c.clientFlags, args, 2, "docflow documents image [options] <folder> <filename>")
	if !ok {
		return 1
	}
	folder, filename := rest[0], rest[1]
	ctx := context.Background()

	resp, err := env.Client().GetPageImage(ctx, folder, filename)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error downloading image %s/%s: %v", folder, filename, err))
		return 1
	}

	a := export.ArtifactFromResponse(folder, resp)
	a.Filename = filepath.Base(filename)

	location, err := export.NewFileSink(c.FS, c.flagOut, env.Logger).Write(ctx, a)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error saving image: %v", err))
		return 1
	}

	c.UI.Output(fmt.Sprintf("Saved %s", location))
	return 0
}
