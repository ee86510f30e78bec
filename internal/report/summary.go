package report

import "github.com/nao1215/soupmail/internal/model"

// Summary aggregates a list of deliveries.
type Summary struct {
	Total     int `json:"total"`
	Sent      int `json:"sent"`
	DryRun    int `json:"dry_run"`
	Failed    int `json:"failed"`
	Generated int `json:"generated"`
	Fallback  int `json:"fallback"`

	// Attempts is the sum of generation attempts over all runs.
	Attempts int `json:"attempts"`
}

// Summarize counts deliveries by status and by content source.
func Summarize(deliveries []model.Delivery) Summary {
	s := Summary{Total: len(deliveries)}
	for _, d := range deliveries {
		switch d.Status {
		case model.StatusSent:
			s.Sent++
		case model.StatusDryRun:
			s.DryRun++
		case model.StatusFailed:
			s.Failed++
		}
		switch d.Source {
		case model.SourceGenerated:
			s.Generated++
		case model.SourceFallback:
			s.Fallback++
		}
		s.Attempts += d.Attempts
	}
	return s
}

// FallbackRate is the share of runs that used the fallback pool, in percent.
func (s Summary) FallbackRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Fallback) * 100 / float64(s.Total)
}

// AverageAttempts is the mean number of generation attempts per run.
func (s Summary) AverageAttempts() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Attempts) / float64(s.Total)
}
