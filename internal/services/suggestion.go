package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/yungbote/upskill-backend/internal/domain/plan"
	"github.com/yungbote/upskill-backend/internal/modules/planner"
	"github.com/yungbote/upskill-backend/internal/platform/apierr"
	"github.com/yungbote/upskill-backend/internal/platform/ctxutil"
	"github.com/yungbote/upskill-backend/internal/platform/logger"
)

const maxRoleSuggestions = 5

// TextGenerator is the free-form half of the LLM clients; arrays cannot be
// requested in JSON-object mode.
type TextGenerator interface {
	GenerateText(ctx context.Context, system string, user string) (string, error)
}

type SkillsResult struct {
	Skills []plan.SkillPriority
	Source string
}

type SuggestionService interface {
	SuggestRoles(ctx context.Context, roleInput string) ([]string, error)
	GenerateSkills(ctx context.Context, targetRole, currentRole string) (*SkillsResult, error)
}

type suggestionService struct {
	log      *logger.Logger
	gen      TextGenerator
	catalog  *planner.Catalog
	fallback *planner.Fallback
}

// NewSuggestionService accepts a nil gen; suggestions then come from the
// role catalog and skills from the deterministic generator.
func NewSuggestionService(log *logger.Logger, gen TextGenerator, catalog *planner.Catalog) SuggestionService {
	if catalog == nil {
		catalog = planner.DefaultCatalog()
	}
	return &suggestionService{
		log:      log.With("service", "SuggestionService"),
		gen:      gen,
		catalog:  catalog,
		fallback: planner.NewFallback(catalog),
	}
}

const roleSuggestionPrompt = `You are a career advisor. Given a partial job role title, suggest 4-5 similar or related job roles that would be relevant for someone in tech/engineering. Return ONLY a JSON array of role names as strings, nothing else.

Example input: "Back"
Example output: ["Backend Engineer", "Backend Developer", "Backend Systems Engineer", "Backend Services Developer", "Full Stack Backend Engineer"]`

func (s *suggestionService) SuggestRoles(ctx context.Context, roleInput string) ([]string, error) {
	query := strings.TrimSpace(roleInput)
	if len([]rune(query)) < 2 {
		return nil, apierr.Newf(http.StatusBadRequest, apierr.CodeInvalidInput, "Role input must be at least 2 characters")
	}
	if s.gen == nil {
		return s.catalog.MatchRoles(query, maxRoleSuggestions), nil
	}

	text, err := s.gen.GenerateText(ctx, roleSuggestionPrompt, fmt.Sprintf("Suggest roles similar to or related to: %q", query))
	if err != nil {
		s.log.Error("Role suggestion request failed", append(ctxutil.LogFields(ctx), "error", err)...)
		return nil, apierr.Newf(http.StatusInternalServerError, apierr.CodeAIUnavailable, "Failed to generate role suggestions")
	}

	out := []string{}
	span, ok := planner.ExtractJSONArray(text)
	if !ok {
		s.log.Warn("No JSON array in role suggestions", "response_len", len(text))
		return out, nil
	}
	var items []any
	if err := json.Unmarshal([]byte(span), &items); err != nil {
		s.log.Warn("Failed to parse role suggestions", "error", err)
		return out, nil
	}
	for _, it := range items {
		if name, ok := it.(string); ok && strings.TrimSpace(name) != "" {
			out = append(out, strings.TrimSpace(name))
		}
	}
	return out, nil
}

func skillsSystemPrompt(currentRole, targetRole string) string {
	return fmt.Sprintf(`You are a career development expert. Generate exactly 5 priority skills someone transitioning from "%[1]s" to "%[2]s" should focus on.

Return ONLY a valid JSON array with exactly 5 objects. Each object must have:
- "skill": string (skill name)
- "reason": string (why this skill is critical for the transition)
- "priority": number (1-5, where 1 is highest priority)

Example output format:
[
  {"skill": "Skill Name", "reason": "Why this matters for the transition", "priority": 1},
  {"skill": "Another Skill", "reason": "Description of importance", "priority": 2}
]

Generate skills SPECIFIC to transitioning from %[1]s to %[2]s. Do not be generic. Each skill and reason must be tailored to this specific career transition.`, currentRole, targetRole)
}

func (s *suggestionService) GenerateSkills(ctx context.Context, targetRole, currentRole string) (*SkillsResult, error) {
	targetRole = strings.TrimSpace(targetRole)
	currentRole = strings.TrimSpace(currentRole)
	if targetRole == "" || currentRole == "" {
		return nil, apierr.Newf(http.StatusBadRequest, apierr.CodeInvalidInput, "targetRole and currentRole are required")
	}

	skills, err := s.aiSkills(ctx, targetRole, currentRole)
	if err == nil {
		return &SkillsResult{Skills: skills, Source: planner.SourceAI}, nil
	}
	if !errors.Is(err, errNoGenerator) {
		s.log.Warn("AI skill generation failed, using fallback", append(ctxutil.LogFields(ctx), "error", err)...)
	}
	return &SkillsResult{Skills: s.fallback.PrioritizedSkills(targetRole), Source: planner.SourceFallback}, nil
}

var errNoGenerator = errors.New("no text generator configured")

func (s *suggestionService) aiSkills(ctx context.Context, targetRole, currentRole string) ([]plan.SkillPriority, error) {
	if s.gen == nil {
		return nil, errNoGenerator
	}
	user := fmt.Sprintf("Generate 5 priority skills for someone transitioning from %s to %s. Output ONLY valid JSON array, no markdown or other text.", currentRole, targetRole)
	text, err := s.gen.GenerateText(ctx, skillsSystemPrompt(currentRole, targetRole), user)
	if err != nil {
		return nil, err
	}
	span, ok := planner.ExtractJSONArray(text)
	if !ok {
		return nil, errors.New("no JSON array found in response")
	}
	var skills []plan.SkillPriority
	if err := json.Unmarshal([]byte(span), &skills); err != nil {
		return nil, fmt.Errorf("parse skills: %w", err)
	}
	if err := planner.ValidateSkills(skills); err != nil {
		return nil, err
	}
	return skills, nil
}
