package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	toml "github.com/tomlpit/go-toml"
)

type convertParams struct {
	Input  string
	Output string
	Format string
	Indent int
}

var convParams convertParams

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a TOML document to TOML, JSON, or YAML",
	RunE:  convertRun,
}

func init() {
	convertCmd.Flags().StringVarP(&convParams.Input, "input", "i", "", "input file path (default stdin)")
	convertCmd.Flags().StringVarP(&convParams.Output, "output", "o", "", "output file path (default stdout)")
	convertCmd.Flags().StringVarP(&convParams.Format, "format", "f", "toml", "output format: toml, json, or yaml")
	convertCmd.Flags().IntVar(&convParams.Indent, "indent", 2, "spaces per level for json and yaml output")
}

func convertRun(cmd *cobra.Command, args []string) error {
	var format toml.Format
	switch convParams.Format {
	case "toml":
		format = toml.TOML
	case "json":
		format = toml.JSON
	case "yaml":
		format = toml.YAML
	default:
		return fmt.Errorf("unknown format %q", convParams.Format)
	}

	var data []byte
	var err error
	if convParams.Input == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(convParams.Input)
	}
	if err != nil {
		return err
	}

	doc, err := toml.Parse(data)
	if err != nil {
		return err
	}
	out := toml.Stringify(doc, format, convParams.Indent)

	if convParams.Output == "" {
		fmt.Println(out)
		return nil
	}
	return os.WriteFile(convParams.Output, []byte(out+"\n"), 0o644)
}
