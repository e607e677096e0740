package studyplan

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractJSONArrayFromProse(t *testing.T) {
	text := "Here is your plan:\n[{\"day\":1,\"topics\":[{\"name\":\"X\",\"hours\":1,\"completed\":false}]}]\nEnjoy!"
	got, err := ExtractJSONArray(text)
	if err != nil {
		t.Fatalf("ExtractJSONArray: %v", err)
	}
	want := `[{"day":1,"topics":[{"name":"X","hours":1,"completed":false}]}]`
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}

	raw, err := ParseExtracted(got)
	if err != nil {
		t.Fatalf("ParseExtracted: %v", err)
	}
	body, err := Validate(raw, ValidateOptions{Days: 1, HoursPerDay: 1})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(body) != 1 || len(body[0].Topics) != 1 || body[0].Topics[0].Name != "X" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestExtractJSONArrayCodeFence(t *testing.T) {
	text := "```json\n[{\"day\":1,\"topics\":[{\"name\":\"A\"}]}]\n```"
	got, err := ExtractJSONArray(text)
	if err != nil {
		t.Fatalf("ExtractJSONArray: %v", err)
	}
	if got != `[{"day":1,"topics":[{"name":"A"}]}]` {
		t.Fatalf("unexpected fragment %q", got)
	}
}

func TestExtractJSONArrayIgnoresBracketsInStrings(t *testing.T) {
	text := `plan: [{"day":1,"topics":[{"name":"Arrays ] and [ slices"}]}] done`
	got, err := ExtractJSONArray(text)
	if err != nil {
		t.Fatalf("ExtractJSONArray: %v", err)
	}
	if got != `[{"day":1,"topics":[{"name":"Arrays ] and [ slices"}]}]` {
		t.Fatalf("unexpected fragment %q", got)
	}
}

func TestExtractJSONArraySkipsInvalidLeadingRegion(t *testing.T) {
	text := `Note [see below]: [{"day":1,"topics":[{"name":"A"}]}]`
	got, err := ExtractJSONArray(text)
	if err != nil {
		t.Fatalf("ExtractJSONArray: %v", err)
	}
	if got != `[{"day":1,"topics":[{"name":"A"}]}]` {
		t.Fatalf("unexpected fragment %q", got)
	}
}

func TestExtractJSONArrayNoJSON(t *testing.T) {
	for _, text := range []string{"no json here", "", "] backwards [", "open [ only"} {
		if _, err := ExtractJSONArray(text); !errors.Is(err, ErrNoJSONFound) {
			t.Fatalf("%q: expected ErrNoJSONFound, got %v", text, err)
		}
	}
}

func TestExtractJSONArrayMalformedIsReturnedForParsing(t *testing.T) {
	got, err := ExtractJSONArray(`[{"day":1,}]`)
	if err != nil {
		t.Fatalf("ExtractJSONArray: %v", err)
	}
	if _, err := ParseExtracted(got); err == nil {
		t.Fatalf("expected parse error for %q", got)
	}

	got, err = ExtractJSONArray(`[ [1, 2 ]`)
	if err != nil {
		t.Fatalf("ExtractJSONArray: %v", err)
	}
	if got != `[ [1, 2 ]` {
		t.Fatalf("expected unclosed outer span, got %q", got)
	}
}

func TestExtractJSONArrayNeverReturnsNestedArray(t *testing.T) {
	cases := map[string]string{
		"trailing comma": `[{"day":1,"topics":[{"name":"X","hours":1}],}]`,
		"missing comma":  `[{"day":1,"topics":[{"name":"X","hours":1}]} {"day":2,"topics":[{"name":"Y","hours":1}]}]`,
		"truncated":      `[{"day":1,"topics":[{"name":"X","hours":1}]},{"day":2,"topics":[{"name":"Y"`,
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := ExtractJSONArray(text)
			if err != nil {
				t.Fatalf("ExtractJSONArray: %v", err)
			}
			if !strings.HasPrefix(got, `[{"day":1`) {
				t.Fatalf("expected outer region, got %q", got)
			}
			if _, err := ParseExtracted(got); err == nil {
				t.Fatalf("expected parse error for %q", got)
			}
		})
	}
}

func TestExtractJSONArrayPicksLaterTopLevelRegion(t *testing.T) {
	text := `draft: [{"day":1,"topics":[{"name":"A"}],}] final: [{"day":1,"topics":[{"name":"B"}]}]`
	got, err := ExtractJSONArray(text)
	if err != nil {
		t.Fatalf("ExtractJSONArray: %v", err)
	}
	if got != `[{"day":1,"topics":[{"name":"B"}]}]` {
		t.Fatalf("unexpected fragment %q", got)
	}
}
