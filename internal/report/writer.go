package report

import (
	"io"

	"github.com/nao1215/soupmail/internal/model"
)

// Writer renders delivery history.
type Writer interface {
	// Write outputs the deliveries and returns the number of bytes written.
	Write(deliveries []model.Delivery) (int, error)
}

// MultiWriter writes to multiple Writers in order.
// It stops at the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the deliveries to every writer and returns the total bytes.
func (m *MultiWriter) Write(deliveries []model.Delivery) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(deliveries)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

const timeLayout = "2006-01-02 15:04:05 MST"

// truncateString shortens s to at most maxLen runes, adding "..." when cut.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
