package interview

// Config holds delegate settings for the interview flow.
type Config struct {
	EvalMaxTokens     int
	EvalTemperature   float64
	HintMaxTokens     int
	HintTemperature   float64
	ReportMaxTokens   int
	ReportTemperature float64

	// HistoryWindow is how many trailing turns the evaluator sees.
	HistoryWindow int
}

// DefaultConfig returns sensible defaults for interview generation.
func DefaultConfig() Config {
	return Config{
		EvalMaxTokens:     1024,
		EvalTemperature:   0.6,
		HintMaxTokens:     256,
		HintTemperature:   0.6,
		ReportMaxTokens:   2048,
		ReportTemperature: 0.6,
		HistoryWindow:     8,
	}
}
