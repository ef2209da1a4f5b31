package config

import (
	"encoding/json"
	"fmt"

	"github.com/ocrflow/docflow/internal/cmd/base"
)

type Command struct {
	*base.Command

	clientFlags base.ClientFlags
}

func (c *Command) Synopsis() string {
	return "Print the resolved runtime settings"
}

func (c *Command) Help() string {
	return `Usage: docflow config [options]

  This command prints the settings docflow resolved from the config file,
  the environment and flags, as JSON.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	return base.NewClientFlagSet("config", &c.clientFlags)
}

func (c *Command) Run(args []string) int {
	env, _, ok := c.ParseArgs(c.Flags(), &c.clientFlags, args, 0, "docflow config [options]")
	if !ok {
		return 1
	}

	out, err := json.MarshalIndent(env.Settings, "", "  ")
	if err != nil {
		c.UI.Error(fmt.Sprintf("error encoding settings: %v", err))
		return 1
	}

	c.UI.Output(string(out))
	return 0
}
