package main

import (
	"fmt"
	"os"

	"github.com/de-tools/emotion-atlas/pkg/runtime/terminal"
	"github.com/de-tools/emotion-atlas/pkg/runtime/terminal/export"
)

func main() {
	cli := terminal.NewCLI(terminal.Options{
		Registry: export.NewDefaultRegistry(),
		Output:   os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
