package planner

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yungbote/upskill-backend/internal/domain/plan"
)

const (
	skillCount       = 5
	weekCount        = 12
	maxSummaryLength = 500

	slotMorning      = "6:30 AM"
	slotEarlyEvening = "5:30 PM"
	slotEvening      = "7:00 PM"
	slotMidday       = "1:00 PM"
	slotRest         = "Rest"

	earlyLowEnergyLabel = "6 PM"
	commuteThresholdMin = 60
	maxCommuteTasks     = 2
)

var defaultSeedSkills = []string{"Java", "Spring Boot", "SQL", "REST APIs"}

var restWeekTemplate = []struct {
	rest     bool
	duration int
	task     string
}{
	{false, 20, "Watch tutorial video or read article"},
	{true, 0, "Rest and reflection"},
	{true, 0, "Buffer for life priorities"},
	{false, 20, "Practice coding exercises"},
	{true, 0, "Rest and recharge"},
	{true, 0, "Optional: review notes if time permits"},
	{true, 0, "Plan upcoming week"},
}

// Weekday task by position; commute variants exist only at 0 and 2.
var weekdayTasks = [7]string{
	"Video tutorial + note-taking",
	"Hands-on coding exercises",
	"Read documentation and examples",
	"Work on mini-project",
	"Code review and debugging",
	"Deep work: build project feature",
	"Review week, plan next, optional challenge",
}

var commuteTasks = map[int]string{
	0: "Audio course or podcast (commute-friendly)",
	2: "Reading technical articles or docs (commute-friendly)",
}

var baseBurnoutTips = []string{
	"Take 5-minute breaks every 25 minutes using Pomodoro technique",
	`If you miss a day, don't try to "catch up" - just continue with tomorrow's plan`,
	"Focus on depth over breadth: master one concept before moving to the next",
	"Join online communities (Discord, Reddit) for support and accountability",
}

var fixedNextActions = []plan.NextAction{
	{
		Title:       "Register for Free Live Class",
		Description: "Join our expert-led session on AI fundamentals and career transitions. Learn industry insights and get your questions answered live.",
	},
	{
		Title:       "Book Career Consultation Call",
		Description: "Get personalized guidance from our career advisors. Discuss your unique situation and refine your learning path.",
	},
	{
		Title:       "Unlock Premium Plan",
		Description: "Access AI-powered personalized learning, 1:1 mentorship, project reviews, and exclusive community support.",
	},
}

// Fallback is the deterministic plan generator. It is a total function of
// its input: no I/O, no randomness, no failure modes.
type Fallback struct {
	catalog *Catalog
}

func NewFallback(c *Catalog) *Fallback {
	if c == nil {
		c = DefaultCatalog()
	}
	return &Fallback{catalog: c}
}

func (f *Fallback) Generate(in plan.CanonicalInput) plan.Plan {
	seed := in.CurrentSkills
	if len(seed) == 0 {
		seed = defaultSeedSkills
	}
	weekday, weekend := durations(in.WeeklyHours)
	return plan.Plan{
		Summary:           summary(in, seed),
		PrioritizedSkills: f.PrioritizedSkills(in.TargetGoal),
		WeekPlan:          f.weekPlan(in.TargetGoal),
		WeeklySchedule:    weeklySchedule(in.WeeklyHours, timeSlot(in), weekday, weekend, in.CommuteMinutesPerDay >= commuteThresholdMin),
		BurnoutTips:       burnoutTips(in.WeeklyHours),
		NextActions:       append([]plan.NextAction(nil), fixedNextActions...),
	}
}

func timeSlot(in plan.CanonicalInput) string {
	switch in.PreferredStudyTime {
	case plan.StudyMorning:
		return slotMorning
	case plan.StudyEvening:
		if in.LowEnergyAfter == earlyLowEnergyLabel {
			return slotEarlyEvening
		}
		return slotEvening
	case plan.StudyFlexible:
		return slotMidday
	default:
		return slotEvening
	}
}

func durations(weeklyHours int) (weekday, weekend int) {
	if weeklyHours <= 3 {
		return 25, 60
	}
	return 40, 90
}

func weeklySchedule(weeklyHours int, slot string, weekdayMin, weekendMin int, commute bool) []plan.WeeklySchedule {
	out := make([]plan.WeeklySchedule, 0, len(plan.Weekdays))
	if weeklyHours == 0 {
		for i, row := range restWeekTemplate {
			s := slot
			if row.rest {
				s = slotRest
			}
			out = append(out, plan.WeeklySchedule{Day: plan.Weekdays[i], Slot: s, DurationMin: row.duration, Task: row.task})
		}
		return out
	}

	substituted := 0
	for i, day := range plan.Weekdays {
		task := weekdayTasks[i]
		if alt, ok := commuteTasks[i]; ok && commute && substituted < maxCommuteTasks {
			task = alt
			substituted++
		}
		d := weekdayMin
		if day == "Saturday" || day == "Sunday" {
			d = weekendMin
		}
		out = append(out, plan.WeeklySchedule{Day: day, Slot: slot, DurationMin: d, Task: task})
	}
	return out
}

// PrioritizedSkills returns the five skills for a known role, or templated
// generic skills for anything else. Priorities follow list order.
func (f *Fallback) PrioritizedSkills(targetGoal string) []plan.SkillPriority {
	src := f.catalog.Generic.Skills
	if r, ok := f.catalog.Role(targetGoal); ok {
		src = r.Skills
	}
	out := make([]plan.SkillPriority, 0, len(src))
	for i, s := range src {
		out = append(out, plan.SkillPriority{
			Skill:    fillGoal(s.Skill, targetGoal),
			Reason:   fillGoal(s.Reason, targetGoal),
			Priority: i + 1,
		})
	}
	return out
}

func (f *Fallback) weekPlan(targetGoal string) []plan.WeekPlan {
	src := f.catalog.Generic.Weeks
	if r, ok := f.catalog.Role(targetGoal); ok && len(r.Weeks) > 0 {
		src = r.Weeks
	}
	out := make([]plan.WeekPlan, 0, len(src))
	for i, w := range src {
		out = append(out, plan.WeekPlan{
			Week:        i + 1,
			Focus:       fillGoal(w.Focus, targetGoal),
			Outcome:     fillGoal(w.Outcome, targetGoal),
			MiniProject: fillGoal(w.MiniProject, targetGoal),
		})
	}
	return out
}

func burnoutTips(weeklyHours int) []string {
	tips := append([]string(nil), baseBurnoutTips...)
	switch {
	case weeklyHours <= 3:
		tips = append(tips,
			"Quality over quantity: 30 focused minutes beats 2 distracted hours",
			"Celebrate small wins: finishing one tutorial is progress",
		)
	case weeklyHours > 10:
		tips = append(tips,
			"Schedule mandatory rest days to avoid diminishing returns",
			"Watch for signs of fatigue: if retention drops, take a break",
		)
	default:
		tips = append(tips, "Build consistency: same time each day creates a habit loop")
	}
	return tips
}

func summary(in plan.CanonicalInput, seed []string) string {
	top := seed
	if len(top) > 3 {
		top = top[:3]
	}
	s := fmt.Sprintf(
		"Your personalized 12-week transformation from %s to %s. With %d hours per week and your %s background, you'll build production-ready AI skills through hands-on projects and structured learning.",
		in.CurrentRole, in.TargetGoal, in.WeeklyHours, strings.Join(top, ", "),
	)
	return clampRunes(s, maxSummaryLength)
}

// clampRunes keeps s within max runes, marking the cut with an ellipsis.
func clampRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}
