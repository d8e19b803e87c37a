package generator

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// StructuralValidator checks the shape rules every question must satisfy:
// non-empty text, exactly four non-empty options, and an answer index that
// points at one of them.
type StructuralValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// NewStructuralValidator builds a validator with English messages keyed by
// the JSON field names the model produces.
func NewStructuralValidator() *StructuralValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &StructuralValidator{validate: v, trans: trans}
}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question, _ QuestionInput) *ValidationError {
	err := v.validate.Struct(q)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Validator: v.Name(), Message: err.Error()}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(v.trans))
	}
	sort.Strings(msgs)
	return &ValidationError{
		Validator: v.Name(),
		Message:   strings.Join(msgs, "; "),
	}
}

// DistinctOptionsValidator rejects questions whose options repeat, which
// would make more than one option correct.
type DistinctOptionsValidator struct{}

func (v *DistinctOptionsValidator) Name() string { return "distinct-options" }

func (v *DistinctOptionsValidator) Validate(q *Question, _ QuestionInput) *ValidationError {
	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		key := strings.ToLower(strings.Join(strings.Fields(opt), " "))
		if seen[key] {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("option %q appears more than once", opt),
			}
		}
		seen[key] = true
	}
	return nil
}
