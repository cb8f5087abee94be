package resume

// Config holds delegate settings for parsing and analysis.
type Config struct {
	ParseMaxTokens     int
	ParseTemperature   float64
	AnalyzeMaxTokens   int
	AnalyzeTemperature float64

	// MaxResumeChars bounds the text sent to the parser.
	MaxResumeChars int
	// AnalysisResumeChars and AnalysisJobChars bound the analysis prompt.
	AnalysisResumeChars int
	AnalysisJobChars    int
}

func DefaultConfig() Config {
	return Config{
		ParseMaxTokens:      4096,
		ParseTemperature:    0,
		AnalyzeMaxTokens:    4096,
		AnalyzeTemperature:  0.1,
		MaxResumeChars:      25000,
		AnalysisResumeChars: 15000,
		AnalysisJobChars:    3000,
	}
}
