package main

import (
	"os"

	"github.com/ocrflow/docflow/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
