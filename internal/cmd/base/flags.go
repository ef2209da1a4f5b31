package base

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

// FlagSet wraps flag.FlagSet with help rendering in the style of the
// mitchellh/cli help output.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet wraps f. Parse errors are returned instead of printed so that
// commands can report them through their UI.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	f.SetOutput(io.Discard)
	return &FlagSet{f}
}

// Help returns the options section of a command's help text.
func (f *FlagSet) Help() string {
	var b strings.Builder

	started := false
	f.VisitAll(func(fl *flag.Flag) {
		if !started {
			b.WriteString("\n\nOptions:\n")
			started = true
		}

		name, usage := flag.UnquoteUsage(fl)
		fmt.Fprintf(&b, "\n  -%s", fl.Name)
		if name != "" {
			fmt.Fprintf(&b, "=<%s>", name)
		}
		b.WriteString("\n")

		if fl.DefValue != "" && fl.DefValue != "false" {
			usage += fmt.Sprintf(" The default is %s.", fl.DefValue)
		}
		for _, line := range strings.Split(wordwrap.WrapString(usage, 70), "\n") {
			fmt.Fprintf(&b, "      %s\n", line)
		}
	})

	return strings.TrimRight(b.String(), "\n")
}
