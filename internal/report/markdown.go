package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/soupmail/internal/model"
)

// fallbackWarnRate is the fallback share, in percent, above which the
// report warns that the completion endpoint is unreliable.
const fallbackWarnRate = 50.0

// MarkdownWriter outputs history as GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the deliveries in Markdown format.
func (w *MarkdownWriter) Write(deliveries []model.Delivery) (int, error) {
	md := markdown.NewMarkdown(w.output)
	s := Summarize(deliveries)

	md.H1("Soupmail Delivery History")
	md.PlainText("")

	w.writeSummary(md, s)
	w.writeDeliveries(md, deliveries)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, s Summary) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Runs", strconv.Itoa(s.Total)},
			{"✅ Sent", strconv.Itoa(s.Sent)},
			{"🧪 Dry run", strconv.Itoa(s.DryRun)},
			{"❌ Failed", strconv.Itoa(s.Failed)},
			{"Generated", strconv.Itoa(s.Generated)},
			{"Fallback", fmt.Sprintf("%d (%.1f%%)", s.Fallback, s.FallbackRate())},
			{"Avg. attempts", fmt.Sprintf("%.1f", s.AverageAttempts())},
		},
	})
	md.PlainText("")

	if s.Total > 0 {
		w.writePieChart(md, s)
	}
	w.writeAlert(md, s)
}

func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Content Source"),
		piechart.WithShowData(true),
	)
	if s.Generated > 0 {
		chart.LabelAndIntValue("Generated", uint64(s.Generated))
	}
	if s.Fallback > 0 {
		chart.LabelAndIntValue("Fallback", uint64(s.Fallback))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, s Summary) {
	switch {
	case s.Total == 0:
		md.Note("No deliveries recorded yet.")
	case s.Failed > 0:
		md.Cautionf("%d run(s) failed to deliver. Check the SMTP settings.", s.Failed)
	case s.FallbackRate() > fallbackWarnRate:
		md.Warningf("%.0f%% of runs used fallback content. The completion endpoint may be unreliable.", s.FallbackRate())
	default:
		md.Tip("All runs delivered.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeDeliveries(md *markdown.Markdown, deliveries []model.Delivery) {
	md.H2("Deliveries")
	md.PlainText("")

	if len(deliveries) == 0 {
		md.PlainText("No deliveries recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(deliveries))
	for _, d := range deliveries {
		rows = append(rows, []string{
			strconv.FormatInt(d.ID, 10),
			d.Timestamp.Local().Format(timeLayout),
			string(d.Status),
			d.Mode,
			string(d.Source),
			strconv.Itoa(d.Attempts),
			strconv.Itoa(d.RecipientCount),
			"`" + truncateString(d.ContentHash, 12) + "`",
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Time", "Status", "Mode", "Source", "Attempts", "Recipients", "Hash"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, d := range deliveries {
		summary := fmt.Sprintf("#%d %s", d.ID, truncateString(oneLine(d.Content), 40))
		md.Details(summary, d.Content)
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [soupmail](https://github.com/nao1215/soupmail)*")
}
