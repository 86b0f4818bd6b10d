// Package main provides the entry point for the code-annotator CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "annotator",
	Short: "Annotate source files with generated commentary",
	Long:  "code-annotator walks a directory tree and rewrites each matched source file with text from a generative backend, either replacing the file with the trimmed response or prepending the response as a comment block.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
