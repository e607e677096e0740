package studyplan

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ValidateOptions carries the request parameters the validator needs for
// defaulting and shape checks.
type ValidateOptions struct {
	// Days is the requested day count. Zero skips the length check.
	Days int
	// HoursPerDay is used for topics whose hours are missing or invalid.
	HoursPerDay float64
}

// Validate turns a parsed JSON value into a canonical plan body.
//
// The root must be a non-empty array of objects, each with an integer "day"
// and a non-empty "topics" array of objects carrying a non-empty "name".
// Hours and completion flags are coerced; day numbers are rewritten to
// position+1 so the stored body is always contiguous.
func Validate(raw any, opts ValidateOptions) ([]Day, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, schemaErrorf("root is %s, expected array", kindOf(raw))
	}
	if len(items) == 0 {
		return nil, schemaErrorf("plan has no days")
	}
	if opts.Days > 0 && len(items) != opts.Days {
		return nil, schemaErrorf("expected %d days, got %d", opts.Days, len(items))
	}

	out := make([]Day, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, schemaErrorf("day %d is %s, expected object", i, kindOf(item))
		}
		if _, ok := asInt(obj["day"]); !ok {
			return nil, schemaErrorf("day %d has no integer \"day\" field", i)
		}
		rawTopics, present := obj["topics"]
		if !present || rawTopics == nil {
			return nil, schemaErrorf("day %d is missing topics", i)
		}
		topicItems, ok := rawTopics.([]any)
		if !ok {
			return nil, schemaErrorf("day %d topics is %s, expected array", i, kindOf(rawTopics))
		}
		if len(topicItems) == 0 {
			return nil, schemaErrorf("day %d has no topics", i)
		}

		topics := make([]Topic, 0, len(topicItems))
		for j, ti := range topicItems {
			tobj, ok := ti.(map[string]any)
			if !ok {
				return nil, schemaErrorf("day %d topic %d is %s, expected object", i, j, kindOf(ti))
			}
			name, _ := tobj["name"].(string)
			name = strings.TrimSpace(name)
			if name == "" {
				return nil, schemaErrorf("day %d topic %d is missing name", i, j)
			}
			hours, ok := asHours(tobj["hours"])
			if !ok {
				hours = opts.HoursPerDay
			}
			topics = append(topics, Topic{
				Name:      name,
				Hours:     hours,
				Completed: asBool(tobj["completed"]),
			})
		}
		out = append(out, Day{Day: i + 1, Topics: topics})
	}
	return out, nil
}

func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) || t != math.Trunc(t) {
			return 0, false
		}
		return int(t), true
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case int:
		return t, true
	case int64:
		return int(t), true
	default:
		return 0, false
	}
}

func asHours(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}

func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return err == nil && b
	case float64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	default:
		return false
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, json.Number, int, int64:
		return "number"
	default:
		return "unknown"
	}
}
