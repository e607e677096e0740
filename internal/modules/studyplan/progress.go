package studyplan

// Progress is the completion summary of one or more plan bodies.
type Progress struct {
	TotalTopics          int     `json:"total_topics"`
	CompletedTopics      int     `json:"completed_topics"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// Toggle flips the completed flag of one topic and returns the new body with
// the recomputed percentage. body is never modified; on an out-of-range
// index nothing is returned but the error.
func Toggle(body []Day, dayIndex, topicIndex int) ([]Day, float64, error) {
	if dayIndex < 0 || dayIndex >= len(body) {
		return nil, 0, &IndexError{DayIndex: dayIndex, TopicIndex: topicIndex, DayCount: len(body), TopicCount: -1}
	}
	topics := body[dayIndex].Topics
	if topicIndex < 0 || topicIndex >= len(topics) {
		return nil, 0, &IndexError{DayIndex: dayIndex, TopicIndex: topicIndex, DayCount: len(body), TopicCount: len(topics)}
	}

	next := CloneBody(body)
	t := &next[dayIndex].Topics[topicIndex]
	t.Completed = !t.Completed
	return next, CompletionPercentage(next), nil
}

// CompletionPercentage is 100 * completed / total, or 0 for an empty body.
func CompletionPercentage(body []Day) float64 {
	return Summarize(body).CompletionPercentage
}

func Summarize(bodies ...[]Day) Progress {
	var p Progress
	for _, body := range bodies {
		for _, d := range body {
			for _, t := range d.Topics {
				p.TotalTopics++
				if t.Completed {
					p.CompletedTopics++
				}
			}
		}
	}
	p.CompletionPercentage = percentage(p.CompletedTopics, p.TotalTopics)
	return p
}

func percentage(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}
