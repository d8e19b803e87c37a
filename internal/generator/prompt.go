package generator

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/samber/lo"
)

const questionSystemPrompt = `You write practice questions for adults preparing for the GED mathematical reasoning test.

Rules:
- Generate exactly one multiple-choice math question at the requested difficulty.
- Topics can include basic arithmetic, algebra, geometry, and data analysis.
- Provide exactly 4 options. Exactly one option is correct.
- Distractors should reflect common mistakes, not random values.
- Use plain text for math. No LaTeX. Use ^ for exponents and / for fractions.
- The question must be self-contained and solvable without a diagram.
- Do not repeat any question from the "recently asked" list.`

const explanationSystemPrompt = `You are a patient, encouraging math tutor helping an adult prepare for the GED.
Explain clearly and concisely why the correct answer is right.
Break down the reasoning into simple steps. Be encouraging.
Respond in plain text paragraphs. No Markdown headings, no LaTeX.`

// buildQuestionMessage constructs the user message for a question request.
func buildQuestionMessage(input QuestionInput, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate one multiple-choice math question of %s difficulty appropriate for a GED test. ", input.Difficulty)
	b.WriteString("Ensure there are exactly 4 options.\n")

	b.WriteString("\nRecently asked in this session (do not repeat):\n")
	b.WriteString(buildHistory(input.RecentHistory, cfg.MaxHistory))

	return b.String()
}

// buildHistory formats recent question texts for the prompt, keeping only
// the newest max entries. Returns "None" when there is no history.
func buildHistory(history []string, max int) string {
	history = lo.Filter(history, func(s string, _ int) bool {
		return strings.TrimSpace(s) != ""
	})
	if len(history) == 0 {
		return "None"
	}

	if max > 0 && len(history) > max {
		history = history[len(history)-max:]
	}

	lines := lo.Map(history, func(q string, i int) string {
		return fmt.Sprintf("%d. %s", i+1, q)
	})
	return strings.Join(lines, "\n")
}

var explanationUserTemplate = template.Must(template.New("explanation").Parse(`A student is practicing for the GED math test and answered a question incorrectly.

Problem: "{{.Question}}"
Options:
{{range .Options}}- {{.}}
{{end}}
{{if .TimedOut}}The student ran out of time and did not select an answer.{{else}}The student incorrectly chose: "{{.Chosen}}"{{end}}
The correct answer is: "{{.Correct}}"

Explain why the correct answer is right, step by step.`))

type explanationPromptData struct {
	Question string
	Options  []string
	TimedOut bool
	Chosen   string
	Correct  string
}

// buildExplanationMessage constructs the user message for an explanation.
func buildExplanationMessage(input ExplanationInput) (string, error) {
	data := explanationPromptData{
		Question: input.Question.Text,
		Options:  input.Question.Options,
		TimedOut: input.TimedOut(),
		Correct:  input.Question.CorrectOption(),
	}
	if !data.TimedOut {
		data.Chosen = *input.IncorrectAnswer
	}

	var buf bytes.Buffer
	if err := explanationUserTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
