package base

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagSet_Help(t *testing.T) {
	f := NewFlagSet(flag.NewFlagSet("push", flag.ContinueOnError))
	var force bool
	var out string
	f.BoolVar(&force, "force", false, "Push again even if the document was already pushed.")
	f.StringVar(&out, "out", ".", "Directory to write the `path` into.")

	help := f.Help()
	assert.Contains(t, help, "Options:")
	assert.Contains(t, help, "  -force\n")
	assert.Contains(t, help, "  -out=<path>\n")
	assert.Contains(t, help, "The default is .")
	assert.NotContains(t, help, "`")
}

func TestFlagSet_ParseErrorIsReturned(t *testing.T) {
	f := NewFlagSet(flag.NewFlagSet("list", flag.ContinueOnError))

	err := f.Parse([]string{"-nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flag provided but not defined: -nope")
}

func TestFlagSet_NoFlags(t *testing.T) {
	f := NewFlagSet(flag.NewFlagSet("version", flag.ContinueOnError))
	assert.Empty(t, f.Help())
}
