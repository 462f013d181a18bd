package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

// PrintYAML writes data as two-space indented YAML to the writer.
func PrintYAML(w io.Writer, data any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(data)
}
