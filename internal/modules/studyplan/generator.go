package studyplan

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

// TextModel is the generative text collaborator. Implementations perform a
// single request and must honour ctx cancellation.
type TextModel interface {
	GenerateText(ctx context.Context, system string, user string) (string, error)
}

type GeneratorOptions struct {
	// MaxDays caps the requested day count; zero disables the cap.
	MaxDays int
	// Timeout bounds the model call; zero leaves only the caller's deadline.
	Timeout time.Duration
}

// Generator turns generation parameters into a canonical plan by calling the
// model once and running the extract, parse and validate stages.
type Generator struct {
	log     *logger.Logger
	model   TextModel
	tracer  trace.Tracer
	maxDays int
	timeout time.Duration
}

func NewGenerator(log *logger.Logger, model TextModel, opts GeneratorOptions) *Generator {
	return &Generator{
		log:     log.With("module", "StudyPlanGenerator"),
		model:   model,
		tracer:  otel.Tracer("studyplan"),
		maxDays: opts.MaxDays,
		timeout: opts.Timeout,
	}
}

func (g *Generator) Generate(ctx context.Context, params Params) (*Plan, error) {
	if err := checkParams(params, g.maxDays); err != nil {
		return nil, err
	}
	if g.model == nil {
		return nil, &GenerationError{Kind: ErrModelCall, Reason: "no text model configured"}
	}
	prompt, err := BuildPrompt(params)
	if err != nil {
		return nil, err
	}

	ctx, span := g.tracer.Start(ctx, "studyplan.generate",
		trace.WithAttributes(
			attribute.String("studyplan.level", params.Level),
			attribute.Int("studyplan.days", params.Days),
			attribute.Float64("studyplan.hours_per_day", params.HoursPerDay),
		),
	)
	defer span.End()

	text, err := g.callModel(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "model call failed")
		return nil, &GenerationError{Kind: ErrModelCall, Err: err}
	}
	span.SetAttributes(attribute.Int("studyplan.response_chars", len(text)))

	body, gerr := parseModelOutput(text, ValidateOptions{Days: params.Days, HoursPerDay: params.HoursPerDay})
	if gerr != nil {
		span.SetStatus(codes.Error, gerr.Kind.Error())
		g.log.Warn("Model output rejected",
			"kind", gerr.Kind.Error(),
			"reason", gerr.Reason,
			"raw_text", gerr.RawText,
		)
		return nil, gerr
	}

	// Completion is a user action; model claims are discarded.
	for i := range body {
		for j := range body[i].Topics {
			body[i].Topics[j].Completed = false
		}
	}

	return &Plan{
		Subject:     strings.TrimSpace(params.Subject),
		Level:       strings.TrimSpace(params.Level),
		Days:        params.Days,
		HoursPerDay: params.HoursPerDay,
		Body:        body,
	}, nil
}

func (g *Generator) callModel(ctx context.Context, prompt Prompt) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	return g.model.GenerateText(ctx, prompt.System, prompt.User)
}

func parseModelOutput(text string, opts ValidateOptions) ([]Day, *GenerationError) {
	fragment, err := ExtractJSONArray(text)
	if err != nil {
		return nil, &GenerationError{Kind: ErrNoJSONFound, RawText: text}
	}
	raw, err := ParseExtracted(fragment)
	if err != nil {
		return nil, &GenerationError{Kind: ErrMalformedJSON, RawText: text, Err: err}
	}
	body, err := Validate(raw, opts)
	if err != nil {
		var se *SchemaError
		reason := err.Error()
		if errors.As(err, &se) {
			reason = se.Reason
		}
		return nil, &GenerationError{Kind: ErrInvalidPlanShape, Reason: reason, RawText: text, Err: err}
	}
	return body, nil
}
