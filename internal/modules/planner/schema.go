package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/upskill-backend/internal/domain/plan"
)

var planValidate = newPlanValidator()

func newPlanValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidatePlan checks p against the plan contract shared by the AI and
// deterministic paths. It returns *ValidationError listing every violation.
func ValidatePlan(p *plan.Plan) error {
	if p == nil {
		return &ValidationError{Issues: []Issue{{Message: "plan is required"}}}
	}
	return toValidationError(planValidate.Struct(p))
}

// ValidateSkills applies the plan's prioritized-skill constraints to a
// standalone list: exactly five entries, each individually valid.
func ValidateSkills(skills []plan.SkillPriority) error {
	if len(skills) != skillCount {
		return &ValidationError{Issues: []Issue{{
			Path:    "prioritized_skills",
			Message: fmt.Sprintf("Must have exactly %d prioritized skills", skillCount),
		}}}
	}
	out := &ValidationError{}
	for i := range skills {
		err := toValidationError(planValidate.Struct(&skills[i]))
		var ve *ValidationError
		if errors.As(err, &ve) {
			for _, is := range ve.Issues {
				is.Path = fmt.Sprintf("prioritized_skills[%d].%s", i, is.Path)
				out.Issues = append(out.Issues, is)
			}
		}
	}
	if len(out.Issues) > 0 {
		return out
	}
	return nil
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Issues: []Issue{{Message: err.Error()}}}
	}
	out := &ValidationError{Issues: make([]Issue, 0, len(verrs))}
	for _, fe := range verrs {
		out.Issues = append(out.Issues, Issue{Path: issuePath(fe), Message: issueMessage(fe)})
	}
	return out
}

// ParsePlan decodes raw JSON into a Plan and validates it. Type mismatches
// (a string priority, a fractional week) are reported as *ValidationError
// just like range violations. Unknown keys are ignored.
func ParsePlan(raw []byte) (*plan.Plan, error) {
	var p plan.Plan
	if err := json.Unmarshal(raw, &p); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &ValidationError{Issues: []Issue{{
				Path:    typeErr.Field,
				Message: fmt.Sprintf("expected %s, received %s", typeErr.Type.Kind(), typeErr.Value),
			}}}
		}
		return nil, &ValidationError{Issues: []Issue{{Message: "invalid JSON: " + err.Error()}}}
	}
	missing := missingDurations(raw)
	err := ValidatePlan(&p)
	if len(missing) == 0 {
		if err != nil {
			return nil, err
		}
		return &p, nil
	}
	out := &ValidationError{Issues: missing}
	var ve *ValidationError
	if errors.As(err, &ve) {
		out.Issues = append(out.Issues, ve.Issues...)
	}
	return nil, out
}

// missingDurations reports schedule rows whose duration_min is absent or
// null. Decoding alone would read those as 0, which is in range.
func missingDurations(raw []byte) []Issue {
	var doc struct {
		WeeklySchedule []map[string]json.RawMessage `json:"weekly_schedule"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}
	var out []Issue
	for i, row := range doc.WeeklySchedule {
		v, ok := row["duration_min"]
		if !ok || string(v) == "null" {
			out = append(out, Issue{
				Path:    fmt.Sprintf("weekly_schedule[%d].duration_min", i),
				Message: "Duration is required",
			})
		}
	}
	return out
}

// issuePath renders "Plan.week_plan[3].focus" as "week_plan[3].focus".
func issuePath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

var fieldLabels = map[string]string{
	"summary":            "Summary",
	"skill":              "Skill name",
	"reason":             "Reason",
	"focus":              "Focus",
	"outcome":            "Outcome",
	"mini_project":       "Mini project",
	"name":               "Concept name",
	"description":        "Description",
	"date":               "Date",
	"title":              "Title",
	"details":            "Topic details",
	"slot":               "Time slot",
	"task":               "Task description",
	"burnout_tips":       "Burnout tips",
	"prioritized_skills": "Prioritized skills",
	"week_plan":          "Weeks",
	"weekly_schedule":    "Schedule days",
	"next_actions":       "Next actions",
}

func issueMessage(fe validator.FieldError) string {
	field := fe.Field()
	// Elements of burnout_tips report as "burnout_tips[i]".
	if i := strings.IndexByte(field, '['); i > 0 {
		if field[:i] == "burnout_tips" {
			return fmt.Sprintf("Each tip must be at least %s characters", fe.Param())
		}
		field = field[:i]
	}
	label, ok := fieldLabels[field]
	if !ok {
		label = field
	}
	isCollection := fe.Kind() == reflect.Slice
	switch fe.Tag() {
	case "len":
		return fmt.Sprintf("Must have exactly %s %s", fe.Param(), strings.ToLower(label))
	case "min":
		if isCollection {
			return fmt.Sprintf("Must have at least %s %s", fe.Param(), strings.ToLower(label))
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be greater than or equal to %s", label, fe.Param())
	case "max":
		if isCollection {
			return fmt.Sprintf("Must have at most %s %s", fe.Param(), strings.ToLower(label))
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be less than or equal to %s", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", label, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", label, fe.Tag())
	}
}
