package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/gedquiz/internal/generator"
	"github.com/abhisek/gedquiz/internal/llm"
	"github.com/abhisek/gedquiz/internal/logging"
	"github.com/abhisek/gedquiz/internal/quiz"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview generated questions on plain stdin/stdout (no database)",
	Long: `Generate and answer questions in a plain line-based loop.

This is a stateless developer tool: no timer, no database, no audit log.
Useful for evaluating question and explanation quality for a prompt or model.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("difficulty", "", "Difficulty: easy, medium, hard")
	previewCmd.Flags().Int("count", 5, "Number of questions to generate")
}

func runPreview(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")
	if count < 1 {
		return fmt.Errorf("--count must be positive, got %d", count)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.LLM.Validate(); err != nil {
		return fmt.Errorf("LLM provider not configured: %w", err)
	}

	// No EventRepo: requests are logged at debug level only.
	log, _, err := logging.New(logging.Options{Level: cfg.Log.Level, Output: os.Stderr})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	provider, err := llm.NewProvider(ctx, cfg.LLM, nil, log)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	gen := generator.New(provider, generator.DefaultConfig())
	scanner := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()
	level := cfg.Quiz.Difficulty

	fmt.Fprintf(out, "Difficulty: %s\n", level.Title())
	fmt.Fprintf(out, "Generating %d questions...\n\n", count)

	var correct, answered int
	var history []string

	for i := 1; i <= count; i++ {
		q, err := gen.GenerateQuestion(ctx, generator.QuestionInput{
			Difficulty:    level,
			RecentHistory: history,
		})
		if err != nil {
			fmt.Fprintf(out, "Question %d: %s\n\n", i, (&quiz.GenerationError{Err: err}).UserMessage())
			continue
		}
		history = append(history, q.Text)
		if len(history) > cfg.Quiz.HistorySize {
			history = history[1:]
		}

		fmt.Fprintf(out, "── Question %d/%d ──\n", i, count)
		fmt.Fprintln(out, q.Text)
		for j, opt := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", j+1, opt)
		}

		fmt.Fprint(out, "\nYour answer (1-4, empty to skip): ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\n(input closed)")
			break
		}
		choice, ok := parseChoice(scanner.Text(), len(q.Options))
		answered++

		input := generator.ExplanationInput{Question: *q}
		switch {
		case ok && q.IsCorrect(choice):
			correct++
			fmt.Fprintln(out, "\033[32m✓ Correct!\033[0m")
			fmt.Fprintln(out)
			continue
		case ok:
			picked := q.Options[choice]
			input.IncorrectAnswer = &picked
			fmt.Fprintf(out, "\033[31m✗ Not quite.\033[0m Answer: %s\n", q.CorrectOption())
		default:
			fmt.Fprintf(out, "(skipped) Answer: %s\n", q.CorrectOption())
		}

		explanation, err := gen.GenerateExplanation(ctx, input)
		if err != nil {
			fmt.Fprintln(out, (&quiz.ExplanationError{Err: err}).UserMessage())
		} else {
			fmt.Fprintf(out, "Explanation:\n%s\n", explanation)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "── Summary: %d/%d correct ──\n", correct, answered)
	return nil
}

// parseChoice accepts 1-n or a letter a-d and returns a zero-based index.
func parseChoice(s string, n int) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	if idx, err := strconv.Atoi(s); err == nil {
		return idx - 1, idx >= 1 && idx <= n
	}
	if len(s) == 1 && s[0] >= 'a' && int(s[0]-'a') < n {
		return int(s[0] - 'a'), true
	}
	return 0, false
}
