package base

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"strings"
)

// NewClientFlagSet returns a flag set with the shared client flags bound to
// cf.
func NewClientFlagSet(name string, cf *ClientFlags) *FlagSet {
	f := NewFlagSet(flag.NewFlagSet(name, flag.ContinueOnError))
	cf.Register(f)
	return f
}

// ParseArgs parses args with f, checks that exactly nargs positional
// arguments remain and resolves the environment. Problems are reported
// through the UI; ok is false when the command should exit with status 1.
func (c *Command) ParseArgs(f *FlagSet, cf *ClientFlags, args []string, nargs int, usage string) (env *Env, rest []string, ok bool) {
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return nil, nil, false
	}

	rest = f.Args()
	if len(rest) != nargs {
		c.UI.Error(fmt.Sprintf("expected %d argument(s), got %d\nUsage: %s", nargs, len(rest), usage))
		return nil, nil, false
	}

	env, err := c.Setup(cf)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading configuration: %v", err))
		return nil, nil, false
	}

	return env, rest, true
}

// OutputBody prints a response body, indented when it is JSON.
func (c *Command) OutputBody(body []byte) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		c.UI.Output(strings.TrimRight(string(body), "\n"))
		return
	}
	c.UI.Output(buf.String())
}
