package roadmap

// Config holds roadmap generation settings.
type Config struct {
	PlanMaxTokens   int
	PlanTemperature float64
	QuizMaxTokens   int
	QuizTemperature float64

	// MilestoneCount is the number of steps requested when the goal has
	// no time-box.
	MilestoneCount int

	// ResultsPerQuery bounds each search call.
	ResultsPerQuery int

	// MaxResources is the number of links kept per milestone.
	MaxResources int

	// Concurrency bounds parallel search and quiz calls. 1 runs every
	// milestone in sequence.
	Concurrency int
}

// DefaultConfig returns sensible defaults for roadmap generation.
func DefaultConfig() Config {
	return Config{
		PlanMaxTokens:   2048,
		PlanTemperature: 0.1,
		QuizMaxTokens:   1024,
		QuizTemperature: 0.3,
		MilestoneCount:  4,
		ResultsPerQuery: 2,
		MaxResources:    4,
		Concurrency:     4,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PlanMaxTokens <= 0 {
		c.PlanMaxTokens = d.PlanMaxTokens
	}
	if c.QuizMaxTokens <= 0 {
		c.QuizMaxTokens = d.QuizMaxTokens
	}
	if c.MilestoneCount <= 0 {
		c.MilestoneCount = d.MilestoneCount
	}
	if c.ResultsPerQuery <= 0 {
		c.ResultsPerQuery = d.ResultsPerQuery
	}
	if c.MaxResources <= 0 {
		c.MaxResources = d.MaxResources
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 1
	}
	return c
}
