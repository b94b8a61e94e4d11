package plan

// CanonicalInput is the validated, normalized career-transition profile that
// drives generation. It is built once per request and never mutated.
type CanonicalInput struct {
	FullName             string   `json:"fullName"`
	CurrentRole          string   `json:"currentRole"`
	YearsExperience      int      `json:"yearsExperience"`
	CurrentSkills        []string `json:"currentSkills"`
	TargetGoal           string   `json:"targetGoal"`
	WeeklyHours          int      `json:"weeklyHours"`
	CommuteMinutesPerDay int      `json:"commuteMinutesPerDay"`
	PreferredStudyTime   string   `json:"preferredStudyTime"`
	LowEnergyAfter       string   `json:"lowEnergyAfter"`
	WeekendAvailability  string   `json:"weekendAvailability"`
	Notes                string   `json:"notes,omitempty"`
}

// Study time values the generator recognizes. Anything else takes the
// evening default.
const (
	StudyMorning  = "Morning"
	StudyEvening  = "Evening"
	StudyFlexible = "Flexible"
)

var Weekdays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

type Plan struct {
	Summary string `json:"summary" validate:"min=10,max=500"`

	// Echoed from the input after generation; ignored by validation.
	TargetRole  string `json:"target_role,omitempty"`
	CurrentRole string `json:"current_role,omitempty"`
	WeeklyHours *int   `json:"weekly_hours,omitempty"`

	PrioritizedSkills []SkillPriority  `json:"prioritized_skills" validate:"len=5,dive"`
	WeekPlan          []WeekPlan       `json:"week_plan" validate:"len=12,dive"`
	WeeklySchedule    []WeeklySchedule `json:"weekly_schedule" validate:"len=7,dive"`
	BurnoutTips       []string         `json:"burnout_tips" validate:"min=4,max=6,dive,min=10"`
	NextActions       []NextAction     `json:"next_actions" validate:"len=3,dive"`
}

type SkillPriority struct {
	Skill    string `json:"skill" validate:"min=2"`
	Reason   string `json:"reason" validate:"min=10"`
	Priority int    `json:"priority" validate:"min=1,max=5"`
}

type WeekPlan struct {
	Week        int       `json:"week" validate:"min=1,max=12"`
	Focus       string    `json:"focus" validate:"min=5"`
	Outcome     string    `json:"outcome" validate:"min=5"`
	MiniProject string    `json:"mini_project" validate:"min=5"`
	Concepts    []Concept `json:"concepts,omitempty" validate:"omitempty,dive"`
	Topics      []Topic   `json:"topics,omitempty" validate:"omitempty,dive"`
}

type Concept struct {
	Name        string `json:"name" validate:"min=2"`
	Description string `json:"description" validate:"min=5"`
	// e.g. "Week 1 - Day 3"
	Date      string   `json:"date" validate:"min=3"`
	Resources []string `json:"resources,omitempty"`
}

type Topic struct {
	Title          string   `json:"title" validate:"min=2"`
	Details        string   `json:"details" validate:"min=5"`
	EstimatedHours *int     `json:"estimated_hours,omitempty" validate:"omitempty,min=0,max=40"`
	Resources      []string `json:"resources,omitempty"`
}

type WeeklySchedule struct {
	Day         string `json:"day" validate:"oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	Slot        string `json:"slot" validate:"min=3"`
	DurationMin int    `json:"duration_min" validate:"min=0,max=180"`
	Task        string `json:"task" validate:"min=5"`
}

type NextAction struct {
	Title       string `json:"title" validate:"min=3"`
	Description string `json:"description" validate:"min=10"`
}

// Annotate returns a copy of p carrying the role and hours echoed from in.
func (p Plan) Annotate(in CanonicalInput) Plan {
	hours := in.WeeklyHours
	p.TargetRole = in.TargetGoal
	p.CurrentRole = in.CurrentRole
	p.WeeklyHours = &hours
	return p
}
