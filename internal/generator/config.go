package generator

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators is the ordered list of validators to run on every
	// generated question. The first failure stops the pipeline.
	Validators []Validator

	// MaxTokens is the token budget for a question response.
	MaxTokens int

	// ExplanationMaxTokens is the token budget for an explanation.
	ExplanationMaxTokens int

	// Temperature controls output randomness for questions (0.0-1.0).
	Temperature float64

	// ExplanationTemperature controls output randomness for explanations.
	ExplanationTemperature float64

	// MaxHistory caps how many recent questions go into the prompt.
	MaxHistory int
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			NewStructuralValidator(),
			&DistinctOptionsValidator{},
		},
		MaxTokens:              1024,
		ExplanationMaxTokens:   1024,
		Temperature:            0.9,
		ExplanationTemperature: 0.3,
		MaxHistory:             5,
	}
}
