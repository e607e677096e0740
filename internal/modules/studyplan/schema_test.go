package studyplan

import (
	"encoding/json"
	"errors"
	"testing"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return v
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]string{
		"object root":         `{"day":1}`,
		"empty array":         `[]`,
		"missing topics":      `[{"day":1}]`,
		"null topics":         `[{"day":1,"topics":null}]`,
		"empty topics":        `[{"day":1,"topics":[]}]`,
		"topics not array":    `[{"day":1,"topics":"x"}]`,
		"missing day":         `[{"topics":[{"name":"A"}]}]`,
		"fractional day":      `[{"day":1.5,"topics":[{"name":"A"}]}]`,
		"day not object":      `[1]`,
		"topic missing name":  `[{"day":1,"topics":[{"hours":1}]}]`,
		"topic blank name":    `[{"day":1,"topics":[{"name":"   "}]}]`,
		"topic name not text": `[{"day":1,"topics":[{"name":3}]}]`,
		"topic not object":    `[{"day":1,"topics":["A"]}]`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Validate(decode(t, in), ValidateOptions{HoursPerDay: 1})
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("expected SchemaError, got %v", err)
			}
			if se.Reason == "" {
				t.Fatalf("expected a reason")
			}
		})
	}
}

func TestValidateRejectsNonJSONRoot(t *testing.T) {
	if _, err := Validate(nil, ValidateOptions{}); err == nil {
		t.Fatalf("expected error for nil root")
	}
	if _, err := Validate("plan", ValidateOptions{}); err == nil {
		t.Fatalf("expected error for string root")
	}
}

func TestValidateDayCount(t *testing.T) {
	raw := decode(t, `[{"day":1,"topics":[{"name":"A"}]}]`)
	if _, err := Validate(raw, ValidateOptions{Days: 2, HoursPerDay: 1}); err == nil {
		t.Fatalf("expected day count mismatch error")
	}
	body, err := Validate(raw, ValidateOptions{Days: 1, HoursPerDay: 1})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(body) != 1 {
		t.Fatalf("expected 1 day, got %d", len(body))
	}
}

func TestValidateCoercesAndDefaults(t *testing.T) {
	raw := decode(t, `[
		{"day": 3, "topics": [
			{"name": " Limits ", "hours": "2.5", "completed": "true"},
			{"name": "Series", "hours": -1, "completed": 1},
			{"name": "Proofs"}
		]},
		{"day": 7, "topics": [
			{"name": "Review", "hours": 0, "completed": "nope"},
			{"name": "Quiz", "hours": {"h": 1}, "completed": null}
		]}
	]`)
	body, err := Validate(raw, ValidateOptions{Days: 2, HoursPerDay: 1.5})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if body[0].Day != 1 || body[1].Day != 2 {
		t.Fatalf("day numbers not repaired: %d, %d", body[0].Day, body[1].Day)
	}
	want := []Topic{
		{Name: "Limits", Hours: 2.5, Completed: true},
		{Name: "Series", Hours: 1.5, Completed: true},
		{Name: "Proofs", Hours: 1.5, Completed: false},
	}
	for i, w := range want {
		if body[0].Topics[i] != w {
			t.Fatalf("day 1 topic %d: got %+v want %+v", i, body[0].Topics[i], w)
		}
	}
	if got := body[1].Topics[0]; got.Hours != 0 || got.Completed {
		t.Fatalf("day 2 topic 0: unexpected %+v", got)
	}
	if got := body[1].Topics[1]; got.Hours != 1.5 || got.Completed {
		t.Fatalf("day 2 topic 1: unexpected %+v", got)
	}
}

func TestValidateIsPure(t *testing.T) {
	in := `[{"day":1,"topics":[{"name":"A","hours":1,"completed":true}]}]`
	raw := decode(t, in)
	first, err := Validate(raw, ValidateOptions{HoursPerDay: 2})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	second, err := Validate(raw, ValidateOptions{HoursPerDay: 2})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if first[0].Topics[0] != second[0].Topics[0] {
		t.Fatalf("validate is not deterministic")
	}
	again, _ := json.Marshal(raw)
	if string(again) != `[{"day":1,"topics":[{"completed":true,"hours":1,"name":"A"}]}]` {
		t.Fatalf("input was modified: %s", again)
	}
}
