package generator

import (
	"fmt"
	"strings"
)

// OptionCount is the number of answer options every question carries.
const OptionCount = 4

// Difficulty is the requested question difficulty.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists the supported levels in display order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty converts a user-supplied string into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case Easy, Medium, Hard:
		return d, nil
	}
	return "", fmt.Errorf("unknown difficulty %q (want easy, medium or hard)", s)
}

// Valid reports whether d is one of the supported levels.
func (d Difficulty) Valid() bool {
	_, err := ParseDifficulty(string(d))
	return err == nil
}

// Title returns the capitalized label, e.g. "Medium".
func (d Difficulty) Title() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

// Question is one generated multiple-choice math question. It is never
// modified after it leaves the generator.
type Question struct {
	// Text is the problem statement, e.g. "What is 15% of 80?".
	Text string `json:"question" validate:"required,max=1000"`

	// Options holds exactly four answer choices in display order.
	Options []string `json:"options" validate:"len=4,dive,required"`

	// CorrectIndex is the position of the correct option in Options.
	CorrectIndex int `json:"correctAnswerIndex" validate:"min=0,max=3"`

	// Difficulty is the level the question was requested at.
	Difficulty Difficulty `json:"difficulty,omitempty"`
}

// IsCorrect reports whether index selects the correct option.
func (q *Question) IsCorrect(index int) bool {
	return index == q.CorrectIndex
}

// Option returns the option text at index.
func (q *Question) Option(index int) (string, bool) {
	if index < 0 || index >= len(q.Options) {
		return "", false
	}
	return q.Options[index], true
}

// CorrectOption returns the text of the correct option.
func (q *Question) CorrectOption() string {
	s, _ := q.Option(q.CorrectIndex)
	return s
}

// QuestionInput holds the context for generating a question.
type QuestionInput struct {
	Difficulty Difficulty

	// RecentHistory holds the text of the most recently asked questions,
	// oldest first. The generator is asked not to repeat them; this is a
	// hint, not a guarantee.
	RecentHistory []string
}

// ExplanationInput holds the context for explaining a missed question.
type ExplanationInput struct {
	Question Question

	// IncorrectAnswer is the option text the learner picked. Nil means the
	// learner ran out of time without picking anything.
	IncorrectAnswer *string
}

// TimedOut reports whether the explanation is for an unanswered question.
func (in ExplanationInput) TimedOut() bool {
	return in.IncorrectAnswer == nil
}
