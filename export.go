package gramsynth

import (
	"io"

	"gopkg.in/yaml.v3"
)

// WriteResults encodes synthesis results as a YAML stream, one document
// per grammar file.
func WriteResults(w io.Writer, results []*FileResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, res := range results {
		if err := enc.Encode(res); err != nil {
			return err
		}
	}
	return enc.Close()
}
