package planner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/upskill-backend/internal/domain/plan"
	"github.com/yungbote/upskill-backend/internal/observability"
	"github.com/yungbote/upskill-backend/internal/platform/ctxutil"
	"github.com/yungbote/upskill-backend/internal/platform/logger"
)

// maxAIAttempts bounds the requester to the initial call plus one repair.
const maxAIAttempts = 2

// TextGenerator is the slice of an LLM client the planner needs. Both the
// OpenAI and Gemini clients satisfy it.
type TextGenerator interface {
	GenerateJSONText(ctx context.Context, system string, user string) (string, error)
}

type AIRequester struct {
	log     *logger.Logger
	gen     TextGenerator
	metrics *observability.Metrics
}

func NewAIRequester(log *logger.Logger, gen TextGenerator, metrics *observability.Metrics) *AIRequester {
	return &AIRequester{
		log:     log.With("service", "AIPlanRequester"),
		gen:     gen,
		metrics: metrics,
	}
}

// Request asks the model for a plan and validates it. A schema failure on
// the first attempt triggers one repair attempt; a missing JSON object or a
// transport error fails immediately. Every error wraps ErrAIGeneration.
func (r *AIRequester) Request(ctx context.Context, in plan.CanonicalInput) (*plan.Plan, error) {
	ctx, span := observability.Tracer().Start(ctx, "planner.ai_request")
	defer span.End()

	start := time.Now()
	defer func() { r.metrics.ObserveAIRequest(time.Since(start)) }()

	system := buildSystemPrompt(in)
	var lastErr error
	for attempt := 0; attempt < maxAIAttempts; attempt++ {
		user := initialUserMessage(in)
		if attempt > 0 {
			user = repairUserMessage
		}
		span.SetAttributes(attribute.Int("planner.ai.attempt", attempt+1))

		text, err := r.gen.GenerateJSONText(ctx, system, user)
		if err != nil {
			r.metrics.ObserveAIAttempt("error")
			span.RecordError(err)
			span.SetStatus(codes.Error, "transport")
			return nil, fmt.Errorf("%w: %v", ErrAIGeneration, err)
		}

		candidate, ok := extractJSONObject(text)
		if !ok {
			r.metrics.ObserveAIAttempt("no_json")
			span.SetStatus(codes.Error, "no json")
			return nil, fmt.Errorf("%w: no JSON found in response", ErrAIGeneration)
		}

		p, err := ParsePlan([]byte(candidate))
		if err == nil {
			r.metrics.ObserveAIAttempt("ok")
			return p, nil
		}
		r.metrics.ObserveAIAttempt("invalid")
		lastErr = err
		r.log.Warn("AI plan failed validation",
			append(ctxutil.LogFields(ctx), "attempt", attempt+1, "error", err.Error())...,
		)
	}
	span.SetStatus(codes.Error, "schema")
	return nil, fmt.Errorf("%w: schema validation failed after retry: %v", ErrAIGeneration, lastErr)
}

// extractJSONObject returns the span from the first '{' to the last '}'.
// Prose around a single object is tolerated; several objects in one reply
// yield one span covering all of them, which then fails to parse.
func extractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(text, '}')
	if end < start {
		return "", false
	}
	return text[start : end+1], true
}

// ExtractJSONArray is the array counterpart of extractJSONObject: the span
// from the first '[' to the last ']'.
func ExtractJSONArray(text string) (string, bool) {
	start := strings.IndexByte(text, '[')
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(text, ']')
	if end < start {
		return "", false
	}
	return text[start : end+1], true
}

func initialUserMessage(in plan.CanonicalInput) string {
	return fmt.Sprintf("Create a personalized 12-week learning plan for %s based on the context. Output ONLY JSON.", in.FullName)
}

const repairUserMessage = "Fix the JSON to match the schema exactly. Output ONLY valid JSON with no markdown or other text. " +
	"Ensure exactly 5 skills, 12 weeks, 7 schedule days, 4-6 tips, and exactly 3 next actions."

func buildSystemPrompt(in plan.CanonicalInput) string {
	skills := strings.Join(in.CurrentSkills, ", ")
	if skills == "" {
		skills = "None specified"
	}
	var b strings.Builder
	fmt.Fprintf(&b, `You are an expert career transition coach. Produce a PERSONALIZED and DEEPLY DETAILED 12-week upskilling plan as STRICT JSON ONLY.

CRITICAL RULES:
1. Output must be ONLY valid JSON (no markdown, no extra text).
2. Return exactly these keys: summary, prioritized_skills, week_plan, weekly_schedule, burnout_tips, next_actions.
3. All content must be specific to transitioning from "%[1]s" to "%[2]s".
4. IMPORTANT: The summary must explicitly mention "%[2]s" (the actual role name, not a placeholder). Example: "Transform your %[1]s expertise into %[2]s mastery with %[3]d hours per week..."

USER CONTEXT:
- Current Role: %[1]s
- Target Role: %[2]s
- Years of Experience: %[4]d
- Current Skills: %[5]s
- Weekly Study Hours: %[3]d
- Commute Minutes Per Day: %[6]d
- Preferred Study Time: %[7]s
- Low Energy After: %[8]s
- Weekend Availability: %[9]s
`, in.CurrentRole, in.TargetGoal, in.WeeklyHours, in.YearsExperience, skills,
		in.CommuteMinutesPerDay, in.PreferredStudyTime, in.LowEnergyAfter, in.WeekendAvailability)

	fmt.Fprintf(&b, `
SCHEMA EXPECTATIONS:
{
  "summary": "(150-250 chars) Example: 'Your personalized 12-week transformation from Backend Engineer to Product Manager. With 4 hours per week and your Java, Spring Boot, SQL background, you'll learn product strategy, user research, and roadmap planning.'",
  "prioritized_skills": [exactly 5 objects: {"skill","reason","priority" 1-5}],
  "week_plan": [exactly 12 objects: {"week","focus","outcome","mini_project","concepts"?,"topics"?}],
  "concepts": [per-week 4-6 objects: {"name","description","date" (e.g., "Week X - Day Y"),"resources"[]}],
  "topics": [per-week 6-10 objects: {"title","details","estimated_hours" (int),"resources"[]}],
  "weekly_schedule": [exactly 7 objects: {"day","slot","duration_min","task"}],
  "burnout_tips": [5-6 strings],
  "next_actions": [exactly 3 objects: {"title","description"}]
}

GUIDELINES FOR DEPTH:
- Week 1 must be "Basics/Foundation". Include a comprehensive topic list covering prerequisites and fundamentals with concrete outcomes.
- Every week must include a clear focus and outcome, plus a mini_project directly tied to %[1]s.
- Topics: Provide granular coverage (e.g., sub-concepts, commands, API names, equations). Each topic should have crisp details (1-2 sentences), specific resources (course names/articles/tools), and realistic estimated_hours.
- Concepts: Use these to anchor notable learning milestones with dates across the week (e.g., "Week 3 - Day 2"). Include 2-3 sentence explanations and 2-4 specific resources.
- Progression: Foundation (1-2) → Core (3-4) → Practical (5-7) → Advanced (8-10) → Capstone (11-12).
- Schedule times: Morning=6:30 AM, Evening=7:00 PM (or 5:30 PM if low energy after 6 PM), Flexible=1:00 PM.
- Be specific and practical; avoid generic phrases. Use real tool/library/course names.

Return ONLY the JSON object.`, in.TargetGoal)
	return b.String()
}
