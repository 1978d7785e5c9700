package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	toml "github.com/tomlpit/go-toml"
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Read TOML on stdin and emit the toml-test JSON envelope",
	Long: "decode parses a TOML document from standard input and prints a JSON tree\n" +
		"where every scalar is tagged as {\"type\": T, \"value\": V}, the envelope the\n" +
		"toml-test conformance runner expects. Exits non-zero on a parse error.",
	Run: func(cmd *cobra.Command, args []string) {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		doc, err := toml.Parse(data)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		out, err := json.MarshalIndent(envelope(doc), "", "    ")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(string(out))
	},
}

// prim is one tagged scalar of the toml-test envelope.
type prim struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// envelope converts a document tree into the JSON shape the
// conformance runner compares against.
func envelope(v *toml.Value) any {
	switch v.Kind() {
	case toml.KindTable:
		out := make(map[string]any, v.Len())
		for _, key := range v.Keys() {
			out[key] = envelope(v.Get(key))
		}
		return out
	case toml.KindArray:
		out := make([]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			elem, _ := v.Index(i)
			out = append(out, envelope(elem))
		}
		return out
	case toml.KindBoolean:
		b, _ := v.Bool()
		return prim{Type: "bool", Value: strconv.FormatBool(b)}
	case toml.KindInteger:
		i, _ := v.Int()
		return prim{Type: "integer", Value: strconv.FormatInt(i, 10)}
	case toml.KindFloat:
		f, _ := v.Float64()
		return prim{Type: "float", Value: formatHarnessFloat(f)}
	case toml.KindString:
		s, _ := v.Str()
		return prim{Type: "string", Value: s}
	case toml.KindDateTime:
		dt, _ := v.DateTime()
		return prim{Type: datetimeType(dt), Value: dt.String()}
	}
	return nil
}

func datetimeType(dt toml.DateTime) string {
	switch dt.Kind() {
	case toml.OffsetDateTime:
		return "datetime"
	case toml.LocalDateTime:
		return "datetime-local"
	case toml.LocalDate:
		return "date-local"
	default:
		return "time-local"
	}
}

func formatHarnessFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
