package studyplan

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParameters = errors.New("invalid plan parameters")
	ErrModelCall         = errors.New("model call failed")
	ErrNoJSONFound       = errors.New("no json array found in model output")
	ErrMalformedJSON     = errors.New("malformed json in model output")
	ErrInvalidPlanShape  = errors.New("model output does not match plan shape")
	ErrIndexOutOfRange   = errors.New("day or topic index out of range")
)

// SchemaError reports why a parsed value is not a valid plan body.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	if e == nil {
		return ""
	}
	return "invalid plan schema: " + e.Reason
}

func schemaErrorf(format string, args ...any) *SchemaError {
	return &SchemaError{Reason: fmt.Sprintf(format, args...)}
}

// GenerationError wraps every failure of Generate. Kind is one of the
// package sentinels and is matched by errors.Is. RawText holds the model
// output for logging and must never reach an end user.
type GenerationError struct {
	Kind    error
	Reason  string
	RawText string
	Err     error
}

func (e *GenerationError) Error() string {
	if e == nil {
		return ""
	}
	msg := "generation failed"
	if e.Kind != nil {
		msg = e.Kind.Error()
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GenerationError) Unwrap() []error {
	if e == nil {
		return nil
	}
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// IndexError is returned by Toggle when either index falls outside the
// plan's current shape.
type IndexError struct {
	DayIndex   int
	TopicIndex int
	DayCount   int
	TopicCount int
}

func (e *IndexError) Error() string {
	if e == nil {
		return ""
	}
	if e.TopicCount < 0 {
		return fmt.Sprintf("day index %d out of range (plan has %d days)", e.DayIndex, e.DayCount)
	}
	return fmt.Sprintf("topic index %d out of range (day %d has %d topics)", e.TopicIndex, e.DayIndex, e.TopicCount)
}

func (e *IndexError) Is(target error) bool { return target == ErrIndexOutOfRange }
