package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/upskill-backend/internal/data/kv"
	"github.com/yungbote/upskill-backend/internal/data/repos"
	"github.com/yungbote/upskill-backend/internal/data/repos/testutil"
	"github.com/yungbote/upskill-backend/internal/domain/plan"
	httpH "github.com/yungbote/upskill-backend/internal/http/handlers"
	"github.com/yungbote/upskill-backend/internal/modules/planner"
	"github.com/yungbote/upskill-backend/internal/observability"
	"github.com/yungbote/upskill-backend/internal/services"
)

type failingGenerator struct {
	calls atomic.Int32
	text  string
	err   error
}

func (g *failingGenerator) GenerateJSONText(context.Context, string, string) (string, error) {
	g.calls.Add(1)
	return g.text, g.err
}

type stack struct {
	engine  *gin.Engine
	gen     *failingGenerator
	cache   *kv.MemoryPlanCache
	metrics *observability.Metrics
}

func newStack(t *testing.T, gen *failingGenerator) *stack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.DB(t)
	log := testutil.Logger(t)
	metrics := observability.NewMetrics()
	cache := kv.NewMemoryPlanCache(kv.DefaultPlanTTL, nil)
	limiter := kv.NewMemoryRateLimiter(kv.RateLimitConfig{}, nil)

	var requester planner.Requester
	if gen != nil {
		requester = planner.NewAIRequester(log, gen, metrics)
	}
	orch := planner.NewOrchestrator(log, cache, requester, nil, metrics, planner.OrchestratorConfig{AITimeout: 2 * time.Second})

	leadRepo := repos.NewLeadRepo(db, log)
	eventRepo := repos.NewEventRepo(db, log)
	mail := services.NewMailService(log, nil, services.MailConfig{})

	engine := NewRouter(RouterConfig{
		Log:               log,
		Metrics:           metrics,
		MetricsEnabled:    true,
		RateLimiter:       limiter,
		PlanHandler:       httpH.NewPlanHandler(services.NewPlanService(log, orch)),
		LeadHandler:       httpH.NewLeadHandler(services.NewLeadService(db, log, leadRepo, eventRepo, mail)),
		EventHandler:      httpH.NewEventHandler(services.NewEventService(db, log, eventRepo)),
		SuggestionHandler: httpH.NewSuggestionHandler(services.NewSuggestionService(log, nil, nil)),
		HealthHandler:     httpH.NewHealthHandler(nil, metrics),
	})
	return &stack{engine: engine, gen: gen, cache: cache, metrics: metrics}
}

func (s *stack) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

const validInput = `{
	"fullName": "Sam Rivera",
	"currentRole": "QA Engineer",
	"yearsExperience": 4,
	"currentSkills": ["Selenium", "Python"],
	"targetGoal": "AI/ML Engineer",
	"weeklyHours": 6,
	"commuteMinutesPerDay": 75,
	"preferredStudyTime": "Evening",
	"lowEnergyAfter": "9 PM",
	"weekendAvailability": "Both"
}`

func decodePlan(t *testing.T, rec *httptest.ResponseRecorder) plan.Plan {
	t.Helper()
	var p plan.Plan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func TestGeneratePlanFallsBackWhenAIFails(t *testing.T) {
	s := newStack(t, &failingGenerator{err: errors.New("upstream 503")})

	rec := s.do(http.MethodPost, "/generate-plan", validInput)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, planner.SourceFallback, rec.Header().Get("X-Plan-Source"))

	p := decodePlan(t, rec)
	require.NoError(t, planner.ValidatePlan(&p))
	assert.Equal(t, "AI/ML Engineer", p.TargetRole)
	require.NotNil(t, p.WeeklyHours)
	assert.Equal(t, 6, *p.WeeklyHours)
}

func TestGeneratePlanFallsBackOnSchemaInvalidAI(t *testing.T) {
	s := newStack(t, &failingGenerator{text: `{"summary":"too thin"}`})

	rec := s.do(http.MethodPost, "/generate-plan", validInput)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, planner.SourceFallback, rec.Header().Get("X-Plan-Source"))
	assert.EqualValues(t, 2, s.gen.calls.Load(), "one repair attempt after the schema failure")
}

func TestGeneratePlanServesCacheForEquivalentInput(t *testing.T) {
	s := newStack(t, &failingGenerator{err: errors.New("down")})

	first := s.do(http.MethodPost, "/generate-plan", validInput)
	require.Equal(t, http.StatusOK, first.Code)
	require.EqualValues(t, 1, s.gen.calls.Load())

	reordered := bytes.Replace([]byte(validInput), []byte(`["Selenium", "Python"]`), []byte(`["Python", "Selenium"]`), 1)
	reordered = bytes.Replace(reordered, []byte(`"Sam Rivera"`), []byte(`"  SAM RIVERA "`), 1)

	second := s.do(http.MethodPost, "/generate-plan", string(reordered))
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, planner.SourceCache, second.Header().Get("X-Plan-Source"))
	assert.EqualValues(t, 1, s.gen.calls.Load(), "cache hit makes no AI call")
	assert.Equal(t, 1, s.cache.Len())
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestGeneratePlanValidation(t *testing.T) {
	s := newStack(t, nil)

	rec := s.do(http.MethodPost, "/generate-plan", `{not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid JSON body","code":"invalid_json"}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/generate-plan", `{"fullName":"A","currentRole":"B","targetGoal":"C","preferredStudyTime":"Morning","lowEnergyAfter":"x","weekendAvailability":"y","yearsExperience":31,"commuteMinutesPerDay":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Years of experience must be between 0 and 30","code":"invalid_input"}`, rec.Body.String())
}

func TestGeneratePlanRateLimit(t *testing.T) {
	s := newStack(t, nil)

	for i := 0; i < 30; i++ {
		rec := s.do(http.MethodPost, "/generate-plan", `{}`, "X-Forwarded-For", "203.0.113.7")
		require.Equal(t, http.StatusBadRequest, rec.Code, "request %d", i+1)
	}
	rec := s.do(http.MethodPost, "/generate-plan", validInput, "X-Forwarded-For", "203.0.113.7")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	var body struct {
		Error          string `json:"error"`
		ResetInSeconds int    `json:"resetInSeconds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Positive(t, body.ResetInSeconds)
	assert.Equal(t, fmt.Sprintf("Rate limit exceeded. Try again in %d seconds.", body.ResetInSeconds), body.Error)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	other := s.do(http.MethodPost, "/generate-plan", validInput, "X-Forwarded-For", "198.51.100.1")
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestLeadCaptureAndSharedPlan(t *testing.T) {
	s := newStack(t, nil)

	planRec := s.do(http.MethodPost, "/generate-plan", validInput)
	require.Equal(t, http.StatusOK, planRec.Code)

	body := fmt.Sprintf(`{"email":"sam@example.com","inputs":%s,"plan":%s}`, validInput, planRec.Body.String())
	rec := s.do(http.MethodPost, "/leads", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var lead struct {
		OK        bool   `json:"ok"`
		LeadScore int    `json:"lead_score"`
		PlanToken string `json:"plan_token"`
		EmailSent bool   `json:"email_sent"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lead))
	assert.True(t, lead.OK)
	assert.Equal(t, 60, lead.LeadScore)
	assert.Len(t, lead.PlanToken, 32)
	assert.True(t, lead.EmailSent)

	rec = s.do(http.MethodGet, "/plan/"+lead.PlanToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var shared struct {
		OK     bool            `json:"ok"`
		Plan   plan.Plan       `json:"plan"`
		Inputs json.RawMessage `json:"inputs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shared))
	assert.True(t, shared.OK)
	assert.JSONEq(t, validInput, string(shared.Inputs))
	require.NoError(t, planner.ValidatePlan(&shared.Plan))

	rec = s.do(http.MethodGet, "/plan/0000000000000000000000000000dead", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Plan not found","code":"plan_not_found"}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/leads", `{"email":"nope","inputs":{},"plan":{}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid email format","code":"invalid_email"}`, rec.Body.String())
}

func TestTrackAndSuggestions(t *testing.T) {
	s := newStack(t, nil)

	rec := s.do(http.MethodPost, "/track", `{"event_type":"plan_viewed","meta":{"source":"share"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/track", `{"event_type":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/suggest-roles", `{"roleInput":"devops"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"suggestions":["DevOps Engineer"]}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/generate-skills", `{"targetRole":"Data Engineer","currentRole":"Analyst"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var skills struct {
		Skills []plan.SkillPriority `json:"skills"`
		Source string               `json:"source"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &skills))
	assert.Len(t, skills.Skills, 5)
	assert.Equal(t, planner.SourceFallback, skills.Source)

	rec = s.do(http.MethodPost, "/send-plan", `{"email":"a@b.co","plan":{},"inputs":{}}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code, "mail is not configured in this stack")
}

func TestHealthAndMetrics(t *testing.T) {
	s := newStack(t, nil)

	rec := s.do(http.MethodGet, "/healthcheck", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	s.do(http.MethodPost, "/generate-plan", validInput)
	rec = s.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `upskill_plan_generations_total{source="fallback"} 1`)
	assert.Contains(t, rec.Body.String(), `upskill_http_requests_total{method="POST",route="/generate-plan",status="200"} 1`)
}
