package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/soupmail/internal/model"
)

// SimpleWriter outputs a plain-text history listing.
type SimpleWriter struct {
	baseWriter

	// verbose prints the full content of each delivery.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables printing of each delivery's content.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the deliveries in human-readable format.
func (w *SimpleWriter) Write(deliveries []model.Delivery) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb)
	w.writeSummary(&sb, Summarize(deliveries))
	w.writeDeliveries(&sb, deliveries)

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        SOUPMAIL HISTORY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")
}

func (w *SimpleWriter) writeSummary(sb *strings.Builder, s Summary) {
	fmt.Fprintf(sb, "Runs:      %d (sent %d, dry-run %d, failed %d)\n", s.Total, s.Sent, s.DryRun, s.Failed)
	fmt.Fprintf(sb, "Generated: %d\n", s.Generated)
	fmt.Fprintf(sb, "Fallback:  %d (%.1f%%)\n", s.Fallback, s.FallbackRate())
	fmt.Fprintf(sb, "Attempts:  %.1f per run\n\n", s.AverageAttempts())
}

func (w *SimpleWriter) writeDeliveries(sb *strings.Builder, deliveries []model.Delivery) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")

	if len(deliveries) == 0 {
		sb.WriteString("No deliveries recorded.\n")
		return
	}

	for _, d := range deliveries {
		fmt.Fprintf(sb, "#%-5d %s  %-8s %-5s %-9s attempts=%d recipients=%d\n",
			d.ID, d.Timestamp.Local().Format(timeLayout), d.Status, d.Mode, d.Source,
			d.Attempts, d.RecipientCount)
		if d.Error != "" {
			fmt.Fprintf(sb, "       error: %s\n", d.Error)
		}
		if w.verbose {
			for _, line := range strings.Split(d.Content, "\n") {
				sb.WriteString("       | ")
				sb.WriteString(line)
				sb.WriteString("\n")
			}
		} else {
			fmt.Fprintf(sb, "       %s\n", truncateString(oneLine(d.Content), 60))
		}
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
