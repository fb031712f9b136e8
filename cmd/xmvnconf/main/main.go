package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/xmvnconf/cmd/xmvnconf"
	"github.com/arthur-debert/xmvnconf/pkg/ui"
)

func main() {
	rootCmd := xmvnconf.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Print the error in red
		errorStyle := ui.GetStyle("Error")
		if ui.DetectFormat(os.Stderr) == ui.FormatText {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		} else {
			fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		}
		os.Exit(1)
	}
}
