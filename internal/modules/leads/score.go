package leads

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ScoreInput is the subset of a submitted profile that drives lead scoring.
// Lead capture receives inputs as opaque JSON, so every field is optional.
type ScoreInput struct {
	TargetGoal           string  `json:"targetGoal"`
	WeeklyHours          float64 `json:"weeklyHours"`
	CommuteMinutesPerDay float64 `json:"commuteMinutesPerDay"`
	Notes                string  `json:"notes"`
	FullName             string  `json:"fullName"`
}

// ScoreInputFrom reads a ScoreInput out of raw profile JSON. Numbers given
// as strings are accepted; anything unreadable counts as zero or empty.
func ScoreInputFrom(raw json.RawMessage) ScoreInput {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return ScoreInput{}
	}
	return ScoreInput{
		TargetGoal:           str(m["targetGoal"]),
		WeeklyHours:          num(m["weeklyHours"]),
		CommuteMinutesPerDay: num(m["commuteMinutesPerDay"]),
		Notes:                str(m["notes"]),
		FullName:             str(m["fullName"]),
	}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func num(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err == nil {
			return f
		}
	}
	return 0
}

const maxScore = 100

var noteKeywords = []string{"single", "mother", "child", "deadline", "burnout"}

// Score rates a lead from 0 to 100.
//
//	+30 target goal contains "ai" (any case)
//	+20 weekly hours >= 5
//	+10 commute >= 60 minutes
//	+20 notes mention any of noteKeywords
func Score(in ScoreInput) int {
	score := 0
	if strings.Contains(strings.ToLower(in.TargetGoal), "ai") {
		score += 30
	}
	if in.WeeklyHours >= 5 {
		score += 20
	}
	if in.CommuteMinutesPerDay >= 60 {
		score += 10
	}
	if notes := strings.ToLower(in.Notes); notes != "" {
		for _, kw := range noteKeywords {
			if strings.Contains(notes, kw) {
				score += 20
				break
			}
		}
	}
	return min(score, maxScore)
}
