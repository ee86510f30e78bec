package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/soupmail/internal/model"
)

// JSONWriter outputs history as JSON.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string
	version      string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion records the soupmail version in the output.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONReport is the document written by JSONWriter.
type JSONReport struct {
	Version    string           `json:"version,omitempty"`
	Summary    Summary          `json:"summary"`
	Deliveries []model.Delivery `json:"deliveries"`
}

// Write outputs the summary and deliveries as one JSON object.
func (w *JSONWriter) Write(deliveries []model.Delivery) (int, error) {
	if deliveries == nil {
		deliveries = []model.Delivery{}
	}
	return w.writeJSON(JSONReport{
		Version:    w.version,
		Summary:    Summarize(deliveries),
		Deliveries: deliveries,
	})
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
