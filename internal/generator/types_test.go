package generator

import (
	"strings"
	"testing"
)

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in      string
		want    Difficulty
		wantErr bool
	}{
		{"easy", Easy, false},
		{"Medium", Medium, false},
		{" HARD ", Hard, false},
		{"", "", true},
		{"expert", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDifficulty(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDifficulty(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDifficulty(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDifficultyTitle(t *testing.T) {
	if Medium.Title() != "Medium" {
		t.Errorf("Title() = %q", Medium.Title())
	}
}

func TestQuestionOption(t *testing.T) {
	q := sampleQuestion()
	if !q.IsCorrect(1) || q.IsCorrect(0) || q.IsCorrect(-1) {
		t.Error("IsCorrect mismatch")
	}
	if _, ok := q.Option(-1); ok {
		t.Error("Option(-1) should be absent")
	}
	if s, ok := q.Option(2); !ok || s != "5" {
		t.Errorf("Option(2) = %q, %v", s, ok)
	}
}

func TestStructuralValidator_MessageNamesField(t *testing.T) {
	v := NewStructuralValidator()
	q := sampleQuestion()
	q.Options = q.Options[:2]

	verr := v.Validate(&q, QuestionInput{})
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(verr.Message, "options") {
		t.Errorf("message should name the field: %q", verr.Message)
	}
}
