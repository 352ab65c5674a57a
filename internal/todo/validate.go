package todo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrEmptyText is returned when new task text is blank.
var ErrEmptyText = errors.New("task text is required")

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // path to the offending value, e.g. "[2].id"
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid    bool
	Errors   []error
	Warnings []string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		panic(fmt.Sprintf("todo: register notblank: %v", err))
	}
	return v
}

// notBlank reports whether a string has anything left after trimming blanks.
func notBlank(fl validator.FieldLevel) bool {
	return !IsBlank(fl.Field().String())
}

// IsBlank reports whether s consists only of whitespace, line terminators
// and byte order marks. Control characters such as U+001C and the NEL
// character U+0085 are content.
func IsBlank(s string) bool {
	return strings.TrimFunc(s, isBlankRune) == ""
}

func isBlankRune(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		'\u00a0', '\u1680', '\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff':
		return true
	}
	return r >= '\u2000' && r <= '\u200a'
}

type newTask struct {
	Text string `validate:"notblank"`
}

// ValidateInput checks text submitted for a new task. Whitespace-only text is
// rejected with ErrEmptyText.
func ValidateInput(text string) error {
	if err := validate.Struct(newTask{Text: text}); err != nil {
		return ErrEmptyText
	}
	return nil
}

// Validate checks a decoded list: positive, unique IDs. Blank texts are
// reported as warnings since edits may store them.
func Validate(tasks []Task) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	seen := make(map[int64]int, len(tasks))
	for i := range tasks {
		path := fmt.Sprintf("[%d]", i)
		if err := validate.Struct(&tasks[i]); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, fieldErrors(path, err)...)
		}
		if j, ok := seen[tasks[i].ID]; ok {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: path + ".id",
				Err:  fmt.Errorf("duplicate id %d (also at [%d])", tasks[i].ID, j),
			})
		} else {
			seen[tasks[i].ID] = i
		}
		if IsBlank(tasks[i].Text) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s.task: blank text", path))
		}
	}
	return result
}

func fieldErrors(path string, err error) []error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []error{&ValidationError{Path: path, Err: err}}
	}
	out := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, &ValidationError{
			Path: path + "." + jsonField(fe.Field()),
			Err:  fmt.Errorf("failed rule %q (value: %v)", fe.Tag(), fe.Value()),
		})
	}
	return out
}

func jsonField(name string) string {
	switch name {
	case "ID":
		return "id"
	case "Text":
		return "task"
	case "Done":
		return "status"
	}
	return name
}
