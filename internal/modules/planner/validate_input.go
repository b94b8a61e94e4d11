package planner

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/yungbote/upskill-backend/internal/domain/plan"
)

const defaultWeeklyHours = 3

// ValidateInput turns an arbitrary decoded JSON value into a CanonicalInput.
// Checks run in a fixed order and stop at the first failure. Malformed input
// is reported as *InputError, never as a panic.
func ValidateInput(raw any) (plan.CanonicalInput, error) {
	obj, ok := raw.(map[string]any)
	if !ok || obj == nil {
		return plan.CanonicalInput{}, &InputError{Field: "", Message: "Invalid input: expected an object"}
	}

	fullName, ok := nonEmptyString(obj["fullName"])
	if !ok {
		return plan.CanonicalInput{}, &InputError{Field: "fullName", Message: "Full name is required"}
	}
	currentRole, ok := nonEmptyString(obj["currentRole"])
	if !ok {
		return plan.CanonicalInput{}, &InputError{Field: "currentRole", Message: "Current role is required"}
	}
	targetGoal, ok := nonEmptyString(obj["targetGoal"])
	if !ok {
		return plan.CanonicalInput{}, &InputError{Field: "targetGoal", Message: "Target goal is required"}
	}

	// Present and non-empty; values outside the known set are allowed here.
	studyTime, ok := presentString(obj["preferredStudyTime"])
	if !ok {
		return plan.CanonicalInput{}, &InputError{Field: "preferredStudyTime", Message: "Preferred study time is required"}
	}
	lowEnergy, ok := presentString(obj["lowEnergyAfter"])
	if !ok {
		return plan.CanonicalInput{}, &InputError{Field: "lowEnergyAfter", Message: "Low energy time is required"}
	}
	weekend, ok := presentString(obj["weekendAvailability"])
	if !ok {
		return plan.CanonicalInput{}, &InputError{Field: "weekendAvailability", Message: "Weekend availability is required"}
	}

	years, ok := toNumber(obj["yearsExperience"], hasKey(obj, "yearsExperience"))
	if !ok || years < 0 || years > 30 {
		return plan.CanonicalInput{}, &InputError{Field: "yearsExperience", Message: "Years of experience must be between 0 and 30"}
	}
	commute, ok := toNumber(obj["commuteMinutesPerDay"], hasKey(obj, "commuteMinutesPerDay"))
	if !ok || commute < 0 || commute > 240 {
		return plan.CanonicalInput{}, &InputError{Field: "commuteMinutesPerDay", Message: "Commute time must be between 0 and 240 minutes"}
	}

	// Soft default, unlike the two hard-checked numbers above.
	hours, ok := toNumber(obj["weeklyHours"], hasKey(obj, "weeklyHours"))
	if !ok || hours < 0 || hours > 20 {
		hours = defaultWeeklyHours
	}
	// Rounded up so fractional hours stay in their schedule and tips bracket.

	skills := []string{}
	if arr, isArr := obj["currentSkills"].([]any); isArr {
		for _, v := range arr {
			if s, isStr := v.(string); isStr && strings.TrimSpace(s) != "" {
				skills = append(skills, s)
			}
		}
	}

	var notes string
	if s, isStr := obj["notes"].(string); isStr {
		notes = strings.TrimSpace(s)
	}

	return plan.CanonicalInput{
		FullName:             fullName,
		CurrentRole:          currentRole,
		YearsExperience:      int(years),
		CurrentSkills:        skills,
		TargetGoal:           targetGoal,
		WeeklyHours:          int(math.Ceil(hours)),
		CommuteMinutesPerDay: int(commute),
		PreferredStudyTime:   studyTime,
		LowEnergyAfter:       lowEnergy,
		WeekendAvailability:  weekend,
		Notes:                notes,
	}, nil
}

// ValidateInputJSON decodes body and validates it.
func ValidateInputJSON(body []byte) (plan.CanonicalInput, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return plan.CanonicalInput{}, &InputError{Message: "Invalid input: expected an object"}
	}
	return ValidateInput(raw)
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func presentString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok && s != ""
}

func hasKey(obj map[string]any, key string) bool {
	_, ok := obj[key]
	return ok
}

// toNumber coerces loosely typed numeric input. Numeric strings parse, blank
// strings and null read as zero, booleans as 0/1. Absent keys, objects and
// arrays are not numbers.
func toNumber(v any, present bool) (float64, bool) {
	if !present {
		return 0, false
	}
	var f float64
	switch t := v.(type) {
	case nil:
		return 0, true
	case float64:
		f = t
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, true
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = n
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
