package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gotoml",
	Short: "gotoml converts and inspects TOML documents",
	Long: "gotoml parses TOML v1.0.0 documents and re-renders them as TOML, JSON, or YAML.\n" +
		"It also speaks the toml-test JSON envelope for conformance testing.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gotoml",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("gotoml v0.1")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(decodeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
