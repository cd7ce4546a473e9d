package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// outputFormat is a pflag.Value restricted to the supported encodings.
type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
	formatTOML  outputFormat = "toml"
)

var outputFormats = []outputFormat{formatTable, formatJSON, formatYAML, formatTOML}

var _ pflag.Value = (*outputFormat)(nil)

func (o *outputFormat) String() string { return string(*o) }

func (o *outputFormat) Set(s string) error {
	v := outputFormat(strings.ToLower(strings.TrimSpace(s)))
	for _, f := range outputFormats {
		if v == f {
			*o = v
			return nil
		}
	}
	return fmt.Errorf("invalid output format %q (expected table|json|yaml|toml)", s)
}

func (o *outputFormat) Type() string { return "format" }

func addOutputFlag(fs *pflag.FlagSet, o *outputFormat) {
	*o = formatTable
	fs.VarP(o, "output", "o", "output format: table|json|yaml|toml")
}

// encode writes v in a structured format. Table output is handled by callers.
func encode(w io.Writer, format outputFormat, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case formatTOML:
		b, err := toml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	default:
		return fmt.Errorf("format %q is not a structured encoding", format)
	}
}
