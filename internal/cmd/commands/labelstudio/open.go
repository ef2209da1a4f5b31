package labelstudio

import (
	"fmt"

	"github.com/pkg/browser"

	"github.com/ocrflow/docflow/internal/cmd/base"
)

type OpenCommand struct {
	*base.Command

	// OpenURL opens a URL. Defaults to the system browser.
	OpenURL func(url string) error

	clientFlags base.ClientFlags
	flagProject string
	flagTask    string
	flagPrint   bool
}

func (c *OpenCommand) Synopsis() string {
	return "Open Label Studio in a browser"
}

func (c *OpenCommand) Help() string {
	return `Usage: docflow labelstudio open [options]

  This command opens Label Studio in the default browser. With -project it
  opens the data manager of that project, optionally focused on -task.` + c.Flags().Help()
}

func (c *OpenCommand) Flags() *base.FlagSet {
	f := base.NewClientFlagSet("open", &c.clientFlags)

	f.StringVar(
		&c.flagProject, "project", "",
		"Label Studio project ID.",
	)
	f.StringVar(
		&c.flagTask, "task", "",
		"Task ID to focus. Requires -project.",
	)
	f.BoolVar(
		&c.flagPrint, "print", false,
		"Print the URL instead of opening it.",
	)

	return f
}

func (c *OpenCommand) Run(args []string) int {
	env, _, ok := c.ParseArgs(c.Flags(), &c.clientFlags, args, 0, "docflow labelstudio open [options]")
	if !ok {
		return 1
	}

	if c.flagTask != "" && c.flagProject == "" {
		c.UI.Error("-task requires -project")
		return 1
	}

	url := env.Settings.LabelStudioURL
	if c.flagProject != "" {
		url = env.Settings.LabelStudioProjectURL(c.flagProject, c.flagTask)
	}

	if c.flagPrint {
		c.UI.Output(url)
		return 0
	}

	open := c.OpenURL
	if open == nil {
		open = browser.OpenURL
	}

	env.Logger.Debug("opening browser", "url", url)
	if err := open(url); err != nil {
		c.UI.Error(fmt.Sprintf("error opening browser: %v", err))
		c.UI.Output(fmt.Sprintf("Open %s manually.", url))
		return 1
	}

	c.UI.Output(fmt.Sprintf("Opened %s", url))
	return 0
}
