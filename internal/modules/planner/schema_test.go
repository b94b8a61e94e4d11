package planner

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/upskill-backend/internal/domain/plan"
)

func validPlan() plan.Plan {
	return NewFallback(nil).Generate(sampleInput())
}

func requireIssue(t *testing.T, err error, path string) {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "want *ValidationError, got %v", err)
	for _, is := range ve.Issues {
		if is.Path == path {
			return
		}
	}
	t.Fatalf("no issue at %q in %v", path, ve.Issues)
}

func TestValidatePlanRejects(t *testing.T) {
	cases := []struct {
		name string
		mut  func(p *plan.Plan)
		path string
	}{
		{"four skills", func(p *plan.Plan) { p.PrioritizedSkills = p.PrioritizedSkills[:4] }, "prioritized_skills"},
		{"eleven weeks", func(p *plan.Plan) { p.WeekPlan = p.WeekPlan[:11] }, "week_plan"},
		{"six schedule days", func(p *plan.Plan) { p.WeeklySchedule = p.WeeklySchedule[:6] }, "weekly_schedule"},
		{"duration 200", func(p *plan.Plan) { p.WeeklySchedule[2].DurationMin = 200 }, "weekly_schedule[2].duration_min"},
		{"three tips", func(p *plan.Plan) { p.BurnoutTips = p.BurnoutTips[:3] }, "burnout_tips"},
		{"seven tips", func(p *plan.Plan) {
			p.BurnoutTips = append(p.BurnoutTips[:5:5], "Another long enough tip", "And yet another tip")
		}, "burnout_tips"},
		{"short tip", func(p *plan.Plan) { p.BurnoutTips[1] = "rest" }, "burnout_tips[1]"},
		{"priority 6", func(p *plan.Plan) { p.PrioritizedSkills[0].Priority = 6 }, "prioritized_skills[0].priority"},
		{"week 13", func(p *plan.Plan) { p.WeekPlan[11].Week = 13 }, "week_plan[11].week"},
		{"bad weekday", func(p *plan.Plan) { p.WeeklySchedule[0].Day = "Funday" }, "weekly_schedule[0].day"},
		{"short summary", func(p *plan.Plan) { p.Summary = "too short" }, "summary"},
		{"two next actions", func(p *plan.Plan) { p.NextActions = p.NextActions[:2] }, "next_actions"},
		{"short concept date", func(p *plan.Plan) {
			p.WeekPlan[0].Concepts = []plan.Concept{{Name: "Vectors", Description: "Basics of vectors", Date: "W1"}}
		}, "week_plan[0].concepts[0].date"},
		{"topic hours 41", func(p *plan.Plan) {
			h := 41
			p.WeekPlan[3].Topics = []plan.Topic{{Title: "Joins", Details: "Inner and outer joins", EstimatedHours: &h}}
		}, "week_plan[3].topics[0].estimated_hours"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validPlan()
			tc.mut(&p)
			requireIssue(t, ValidatePlan(&p), tc.path)
		})
	}
}

func TestValidatePlanAcceptsOptionalSections(t *testing.T) {
	p := validPlan()
	h := 0
	p.WeekPlan[0].Concepts = []plan.Concept{{Name: "Arrays", Description: "Indexing and slicing", Date: "Week 1 - Day 1", Resources: []string{"NumPy docs"}}}
	p.WeekPlan[0].Topics = []plan.Topic{{Title: "Broadcasting", Details: "Shape rules", EstimatedHours: &h}}
	assert.NoError(t, ValidatePlan(&p))
}

func TestParsePlan(t *testing.T) {
	raw, err := json.Marshal(validPlan())
	require.NoError(t, err)
	p, err := ParsePlan(raw)
	require.NoError(t, err)
	assert.Len(t, p.WeekPlan, 12)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	doc["prioritized_skills"].([]any)[0].(map[string]any)["priority"] = "1"
	bad, _ := json.Marshal(doc)
	_, err = ParsePlan(bad)
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))

	_, err = ParsePlan([]byte(`{"summary": }`))
	assert.True(t, errors.As(err, &ve))
}

func TestParsePlanRequiresScheduleDuration(t *testing.T) {
	raw, err := json.Marshal(validPlan())
	require.NoError(t, err)

	for _, tc := range []struct {
		name string
		mut  func(row map[string]any)
	}{
		{"absent", func(row map[string]any) { delete(row, "duration_min") }},
		{"null", func(row map[string]any) { row["duration_min"] = nil }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var doc map[string]any
			require.NoError(t, json.Unmarshal(raw, &doc))
			tc.mut(doc["weekly_schedule"].([]any)[0].(map[string]any))
			bad, err := json.Marshal(doc)
			require.NoError(t, err)

			p, err := ParsePlan(bad)
			assert.Nil(t, p)
			requireIssue(t, err, "weekly_schedule[0].duration_min")
		})
	}

	zero := validPlan()
	zero.WeeklySchedule[1].DurationMin = 0
	raw, err = json.Marshal(zero)
	require.NoError(t, err)
	_, err = ParsePlan(raw)
	assert.NoError(t, err)
}

func TestValidationErrorMessage(t *testing.T) {
	p := validPlan()
	p.PrioritizedSkills = p.PrioritizedSkills[:4]
	err := ValidatePlan(&p)
	assert.Contains(t, err.Error(), "prioritized_skills: Must have exactly 5 prioritized skills")
}

func TestValidateSkills(t *testing.T) {
	good := NewFallback(nil).PrioritizedSkills("Data Analyst")
	require.NoError(t, ValidateSkills(good))

	err := ValidateSkills(good[:4])
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Must have exactly 5 prioritized skills", ve.Issues[0].Message)

	bad := append([]plan.SkillPriority(nil), good...)
	bad[2].Priority = 9
	bad[4].Reason = "short"
	require.ErrorAs(t, ValidateSkills(bad), &ve)
	require.Len(t, ve.Issues, 2)
	assert.Equal(t, "prioritized_skills[2].priority", ve.Issues[0].Path)
	assert.Equal(t, "prioritized_skills[4].reason", ve.Issues[1].Path)
}
