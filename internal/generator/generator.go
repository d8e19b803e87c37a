package generator

import "context"

// Generator produces questions and explanations using a remote model.
type Generator interface {
	// GenerateQuestion produces a single validated question.
	// All configured validators are run before returning.
	GenerateQuestion(ctx context.Context, input QuestionInput) (*Question, error)

	// GenerateExplanation returns a non-empty explanation of why the
	// correct option is right, addressed to a learner who missed it.
	GenerateExplanation(ctx context.Context, input ExplanationInput) (string, error)
}
