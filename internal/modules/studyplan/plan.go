package studyplan

import (
	"encoding/json"
	"fmt"
)

// Topic is a single unit of study inside a day.
type Topic struct {
	Name      string  `json:"name"`
	Hours     float64 `json:"hours"`
	Completed bool    `json:"completed"`
}

// Day is one 1-based day of a plan body.
type Day struct {
	Day    int     `json:"day"`
	Topics []Topic `json:"topics"`
}

// Params are the caller-supplied generation parameters.
type Params struct {
	Subject     string
	Level       string
	Days        int
	HoursPerDay float64
}

// Plan is a canonical plan: parameters plus a validated body.
type Plan struct {
	Subject     string  `json:"subject"`
	Level       string  `json:"level"`
	Days        int     `json:"days"`
	HoursPerDay float64 `json:"hours_per_day"`
	Body        []Day   `json:"plan_data"`
}

// CloneBody returns a deep copy so callers can mutate topics without
// touching the source slice.
func CloneBody(body []Day) []Day {
	if body == nil {
		return nil
	}
	out := make([]Day, len(body))
	for i, d := range body {
		out[i] = Day{Day: d.Day, Topics: append([]Topic(nil), d.Topics...)}
	}
	return out
}

// EncodeBody serializes a body in the persisted plan_data format.
func EncodeBody(body []Day) ([]byte, error) {
	if body == nil {
		body = []Day{}
	}
	body = CloneBody(body)
	for i := range body {
		if body[i].Topics == nil {
			body[i].Topics = []Topic{}
		}
	}
	return json.Marshal(body)
}

// DecodeBody reads a persisted plan_data document. Rows written by older
// versions may carry extra keys or miss "completed"; both are tolerated.
func DecodeBody(raw []byte) ([]Day, error) {
	if len(raw) == 0 {
		return []Day{}, nil
	}
	var body []Day
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode plan body: %w", err)
	}
	if body == nil {
		body = []Day{}
	}
	return body, nil
}
