package studyplan

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type stubModel struct {
	text   string
	err    error
	calls  int
	system string
	user   string
}

func (s *stubModel) GenerateText(ctx context.Context, system, user string) (string, error) {
	s.calls++
	s.system = system
	s.user = user
	return s.text, s.err
}

type blockingModel struct{}

func (blockingModel) GenerateText(ctx context.Context, system, user string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func newTestGenerator(model TextModel) *Generator {
	return NewGenerator(logger.NewNop(), model, GeneratorOptions{MaxDays: 30})
}

func TestGenerateInvalidParameters(t *testing.T) {
	cases := []Params{
		{Subject: "", Level: "Beginner", Days: 1, HoursPerDay: 1},
		{Subject: "Math", Level: "  ", Days: 1, HoursPerDay: 1},
		{Subject: "Math", Level: "Beginner", Days: 0, HoursPerDay: 1},
		{Subject: "Math", Level: "Beginner", Days: 31, HoursPerDay: 1},
		{Subject: "Math", Level: "Beginner", Days: 1, HoursPerDay: 0},
		{Subject: "Math", Level: "Beginner", Days: 1, HoursPerDay: -2},
	}
	for _, p := range cases {
		m := &stubModel{}
		_, err := newTestGenerator(m).Generate(context.Background(), p)
		if !errors.Is(err, ErrInvalidParameters) {
			t.Fatalf("%+v: expected ErrInvalidParameters, got %v", p, err)
		}
		if m.calls != 0 {
			t.Fatalf("%+v: model must not be called", p)
		}
	}
}

func TestGeneratePromptEmbedsParameters(t *testing.T) {
	m := &stubModel{text: `[{"day":1,"topics":[{"name":"Cells"}]}]`}
	if _, err := newTestGenerator(m).Generate(context.Background(), Params{Subject: "Biology", Level: "Advanced", Days: 1, HoursPerDay: 2.5}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, want := range []string{"1-day", "Biology", "Level: Advanced", "Hours per day: 2.5", "Return ONLY a valid JSON array"} {
		if !strings.Contains(m.user, want) {
			t.Fatalf("prompt missing %q:\n%s", want, m.user)
		}
	}
	p1, err := BuildPrompt(Params{Subject: "Biology", Level: "Advanced", Days: 1, HoursPerDay: 2.5})
	if err != nil {
		t.Fatalf("BuildPrompt: %v", err)
	}
	if p1.User != m.user || p1.System != m.system {
		t.Fatalf("prompt is not deterministic")
	}
}

func TestGenerateFailureKinds(t *testing.T) {
	params := Params{Subject: "Algebra", Level: "Beginner", Days: 1, HoursPerDay: 1}
	cases := []struct {
		name string
		m    *stubModel
		kind error
	}{
		{"model error", &stubModel{err: errors.New("boom")}, ErrModelCall},
		{"no json", &stubModel{text: "no json here"}, ErrNoJSONFound},
		{"malformed", &stubModel{text: `sure: [{"day":1,"topics":[}]`}, ErrMalformedJSON},
		{"missing topics", &stubModel{text: `[{"day":1}]`}, ErrInvalidPlanShape},
		{"wrong day count", &stubModel{text: `[{"day":1,"topics":[{"name":"A"}]},{"day":2,"topics":[{"name":"B"}]}]`}, ErrInvalidPlanShape},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newTestGenerator(tc.m).Generate(context.Background(), params)
			if !errors.Is(err, tc.kind) {
				t.Fatalf("expected %v, got %v", tc.kind, err)
			}
			if tc.m.calls != 1 {
				t.Fatalf("expected exactly one model call, got %d", tc.m.calls)
			}
			var ge *GenerationError
			if !errors.As(err, &ge) {
				t.Fatalf("expected GenerationError, got %T", err)
			}
			if tc.kind != ErrModelCall && ge.RawText != tc.m.text {
				t.Fatalf("raw text not retained")
			}
		})
	}
}

func TestGenerateMalformedOuterArrayIsNotRescued(t *testing.T) {
	params := Params{Subject: "Algebra", Level: "Beginner", Days: 2, HoursPerDay: 1}
	for name, text := range map[string]string{
		"trailing comma": `[{"day":1,"topics":[{"name":"X","hours":1}]},{"day":2,"topics":[{"name":"Y","hours":1}]},]`,
		"missing comma":  `[{"day":1,"topics":[{"name":"X","hours":1}]} {"day":2,"topics":[{"name":"Y","hours":1}]}]`,
		"truncated":      `[{"day":1,"topics":[{"name":"X","hours":1}]},{"day":2,"topics":[{"name":"Y"`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := newTestGenerator(&stubModel{text: text}).Generate(context.Background(), params)
			if !errors.Is(err, ErrMalformedJSON) {
				t.Fatalf("expected ErrMalformedJSON, got %v", err)
			}
		})
	}
}

func TestGenerateModelCallTimesOut(t *testing.T) {
	g := NewGenerator(logger.NewNop(), blockingModel{}, GeneratorOptions{MaxDays: 30, Timeout: 10 * time.Millisecond})
	done := make(chan error, 1)
	go func() {
		_, err := g.Generate(context.Background(), Params{Subject: "A", Level: "B", Days: 1, HoursPerDay: 1})
		done <- err
	}()
	select {
	case err := <-done:
		if !errors.Is(err, ErrModelCall) || !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected model call deadline error, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("generate did not honour timeout")
	}
}

func TestGenerateShapeErrorCarriesReason(t *testing.T) {
	m := &stubModel{text: `[{"day":1}]`}
	_, err := newTestGenerator(m).Generate(context.Background(), Params{Subject: "A", Level: "B", Days: 1, HoursPerDay: 1})
	var ge *GenerationError
	if !errors.As(err, &ge) || ge.Reason == "" {
		t.Fatalf("expected reason, got %v", err)
	}
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected wrapped SchemaError")
	}
}

func TestGenerateResetsCompletion(t *testing.T) {
	m := &stubModel{text: "```json\n" + `[
		{"day":1,"topics":[{"name":"Variables","hours":1,"completed":true}]},
		{"day":2,"topics":[{"name":"Equations","completed":"true"},{"name":"Graphs","hours":0.5}]}
	]` + "\n```"}
	plan, err := newTestGenerator(m).Generate(context.Background(), Params{Subject: " Algebra ", Level: "Beginner", Days: 2, HoursPerDay: 1.5})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if plan.Subject != "Algebra" || plan.Days != 2 || plan.HoursPerDay != 1.5 {
		t.Fatalf("unexpected plan params: %+v", plan)
	}
	if len(plan.Body) != 2 {
		t.Fatalf("expected 2 days, got %d", len(plan.Body))
	}
	for _, d := range plan.Body {
		for _, tp := range d.Topics {
			if tp.Completed {
				t.Fatalf("topic %q should start incomplete", tp.Name)
			}
		}
	}
	if plan.Body[1].Topics[0].Hours != 1.5 {
		t.Fatalf("expected default hours, got %v", plan.Body[1].Topics[0].Hours)
	}
	if CompletionPercentage(plan.Body) != 0 {
		t.Fatalf("expected 0%% at creation")
	}
}

func TestGenerateWithoutModel(t *testing.T) {
	_, err := NewGenerator(logger.NewNop(), nil, GeneratorOptions{}).Generate(context.Background(), Params{Subject: "A", Level: "B", Days: 1, HoursPerDay: 1})
	if !errors.Is(err, ErrModelCall) {
		t.Fatalf("expected ErrModelCall, got %v", err)
	}
}

func TestAlgebraScenario(t *testing.T) {
	m := &stubModel{text: `Here you go!
[{"day":1,"topics":[{"name":"Linear equations","hours":1.5,"completed":false}]},
 {"day":2,"topics":[{"name":"Inequalities","hours":1.5,"completed":false}]}]`}
	plan, err := newTestGenerator(m).Generate(context.Background(), Params{Subject: "Algebra", Level: "Beginner", Days: 2, HoursPerDay: 1.5})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if pct := CompletionPercentage(plan.Body); pct != 0 {
		t.Fatalf("expected 0, got %v", pct)
	}
	body, pct, err := Toggle(plan.Body, 0, 0)
	if err != nil || pct != 50 {
		t.Fatalf("first toggle: pct=%v err=%v", pct, err)
	}
	body, pct, err = Toggle(body, 1, 0)
	if err != nil || pct != 100 {
		t.Fatalf("second toggle: pct=%v err=%v", pct, err)
	}
	if !body[0].Topics[0].Completed || !body[1].Topics[0].Completed {
		t.Fatalf("expected both topics completed: %+v", body)
	}
}
