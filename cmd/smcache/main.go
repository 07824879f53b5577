// Command smcache builds SmCache binary artifacts from a minified
// JavaScript source and its source map.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "smcache",
	Short: "Build SmCache binary artifacts from a minified source and its source map.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
