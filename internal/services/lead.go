package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/upskill-backend/internal/data/repos"
	types "github.com/yungbote/upskill-backend/internal/domain"
	"github.com/yungbote/upskill-backend/internal/domain/plan"
	"github.com/yungbote/upskill-backend/internal/modules/leads"
	"github.com/yungbote/upskill-backend/internal/platform/apierr"
	"github.com/yungbote/upskill-backend/internal/platform/ctxutil"
	"github.com/yungbote/upskill-backend/internal/platform/logger"
)

// CaptureLeadRequest mirrors the request body. Email stays untyped so a
// non-string value is reported as missing rather than as bad JSON.
type CaptureLeadRequest struct {
	Email  any             `json:"email"`
	Inputs json.RawMessage `json:"inputs"`
	Plan   json.RawMessage `json:"plan"`
}

type CaptureLeadResult struct {
	LeadScore int
	PlanToken string
	EmailSent bool
}

type SharedPlan struct {
	Plan   json.RawMessage
	Inputs json.RawMessage
}

type LeadService interface {
	Capture(ctx context.Context, req CaptureLeadRequest) (*CaptureLeadResult, error)
	GetPlan(ctx context.Context, token string) (*SharedPlan, error)
	// SendPlan emails a plan without storing anything.
	SendPlan(ctx context.Context, req CaptureLeadRequest) error
}

type leadService struct {
	db        *gorm.DB
	log       *logger.Logger
	leadRepo  repos.LeadRepo
	eventRepo repos.EventRepo
	mail      MailService
	newToken  func() (string, error)
}

func NewLeadService(db *gorm.DB, log *logger.Logger, leadRepo repos.LeadRepo, eventRepo repos.EventRepo, mail MailService) LeadService {
	return &leadService{
		db:        db,
		log:       log.With("service", "LeadService"),
		leadRepo:  leadRepo,
		eventRepo: eventRepo,
		mail:      mail,
		newToken:  leads.NewToken,
	}
}

func (s *leadService) Capture(ctx context.Context, req CaptureLeadRequest) (*CaptureLeadResult, error) {
	email, _ := req.Email.(string)
	if email == "" {
		return nil, apierr.Newf(http.StatusBadRequest, apierr.CodeInvalidEmail, "Email is required")
	}
	if !leads.ValidEmail(email) {
		return nil, apierr.Newf(http.StatusBadRequest, apierr.CodeInvalidEmail, "Invalid email format")
	}
	if !isJSONObject(req.Inputs) {
		return nil, apierr.Newf(http.StatusBadRequest, apierr.CodeMissingInputs, "Inputs are required")
	}
	if !isJSONObject(req.Plan) {
		return nil, apierr.Newf(http.StatusBadRequest, apierr.CodeMissingPlan, "Plan is required")
	}

	scoreIn := leads.ScoreInputFrom(req.Inputs)
	score := leads.Score(scoreIn)

	lead, err := s.insertLead(ctx, &types.Lead{
		Email:      email,
		FullName:   scoreIn.FullName,
		TargetGoal: scoreIn.TargetGoal,
		LeadScore:  score,
		Inputs:     datatypes.JSON(req.Inputs),
		Plan:       datatypes.JSON(req.Plan),
		Source:     "web",
	})
	if err != nil {
		s.log.Error("Failed to insert lead", append(ctxutil.LogFields(ctx), "error", err)...)
		return nil, apierr.Newf(http.StatusInternalServerError, apierr.CodeLeadPersistFailed, "Failed to save lead. Please try again.")
	}

	// The lead is committed; the event and the email are best effort and
	// must outlive a client that disconnects early.
	sideCtx := context.WithoutCancel(ctx)
	var g errgroup.Group
	g.Go(func() error {
		meta, _ := json.Marshal(map[string]any{
			"lead_score":  score,
			"target_goal": scoreIn.TargetGoal,
		})
		if _, err := s.eventRepo.Create(sideCtx, nil, &types.Event{
			EventType: types.EventLeadCaptured,
			Email:     &email,
			Meta:      datatypes.JSON(meta),
		}); err != nil {
			s.log.Warn("Failed to insert lead event", append(ctxutil.LogFields(ctx), "error", err)...)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.sendPlanEmail(sideCtx, email, req.Plan, scoreIn, lead.PlanToken); err != nil {
			s.log.Warn("Failed to send plan email", append(ctxutil.LogFields(ctx), "error", err)...)
		}
		return nil
	})
	_ = g.Wait()

	return &CaptureLeadResult{
		LeadScore: score,
		PlanToken: lead.PlanToken,
		EmailSent: true,
	}, nil
}

// insertLead retries once with a fresh token when the first collides.
func (s *leadService) insertLead(ctx context.Context, lead *types.Lead) (*types.Lead, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		token, err := s.newToken()
		if err != nil {
			return nil, err
		}
		lead.PlanToken = token
		created, err := s.leadRepo.Create(ctx, s.db, lead)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, leads.ErrDuplicateToken) {
			return nil, err
		}
		s.log.Warn("Plan token collision, regenerating", "attempt", attempt+1)
		lastErr = err
	}
	return nil, lastErr
}

func (s *leadService) sendPlanEmail(ctx context.Context, to string, rawPlan json.RawMessage, in leads.ScoreInput, token string) error {
	if s.mail == nil || !s.mail.Enabled() {
		s.log.Info("Mail disabled, skipping plan email")
		return nil
	}
	var p plan.Plan
	if err := json.Unmarshal(rawPlan, &p); err != nil {
		return err
	}
	return s.mail.SendPlan(ctx, to, &p, plan.CanonicalInput{FullName: in.FullName, TargetGoal: in.TargetGoal}, token)
}

func (s *leadService) GetPlan(ctx context.Context, token string) (*SharedPlan, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apierr.Newf(http.StatusBadRequest, apierr.CodeInvalidInput, "Invalid token")
	}
	if !leads.ValidToken(token) {
		return nil, apierr.Newf(http.StatusNotFound, apierr.CodePlanNotFound, "Plan not found")
	}
	lead, err := s.leadRepo.GetByToken(ctx, s.db, token)
	if errors.Is(err, repos.ErrLeadNotFound) {
		s.log.Info("Plan not found for token", "token", token)
		return nil, apierr.Newf(http.StatusNotFound, apierr.CodePlanNotFound, "Plan not found")
	}
	if err != nil {
		s.log.Error("Failed to fetch plan", append(ctxutil.LogFields(ctx), "error", err)...)
		return nil, apierr.Newf(http.StatusInternalServerError, apierr.CodeInternal, "Failed to fetch plan")
	}
	return &SharedPlan{Plan: json.RawMessage(lead.Plan), Inputs: json.RawMessage(lead.Inputs)}, nil
}

func (s *leadService) SendPlan(ctx context.Context, req CaptureLeadRequest) error {
	email, _ := req.Email.(string)
	if email == "" {
		return apierr.Newf(http.StatusBadRequest, apierr.CodeInvalidEmail, "Email is required")
	}
	if !leads.ValidEmail(email) {
		return apierr.Newf(http.StatusBadRequest, apierr.CodeInvalidEmail, "Invalid email format")
	}
	if !isJSONObject(req.Plan) || !isJSONObject(req.Inputs) {
		return apierr.Newf(http.StatusBadRequest, apierr.CodeMissingPlan, "Plan and inputs are required")
	}
	if s.mail == nil || !s.mail.Enabled() {
		s.log.Warn("Send plan requested but mail is disabled")
		return apierr.New(http.StatusInternalServerError, apierr.CodeEmailFailed, ErrMailDisabled)
	}

	var p plan.Plan
	if err := json.Unmarshal(req.Plan, &p); err != nil {
		return apierr.Newf(http.StatusBadRequest, apierr.CodeMissingPlan, "Plan and inputs are required")
	}
	in := leads.ScoreInputFrom(req.Inputs)
	if err := s.mail.SendPlan(ctx, email, &p, plan.CanonicalInput{FullName: in.FullName, TargetGoal: in.TargetGoal}, ""); err != nil {
		s.log.Error("Failed to send plan email", append(ctxutil.LogFields(ctx), "error", err)...)
		return apierr.Newf(http.StatusInternalServerError, apierr.CodeEmailFailed, "Failed to send email. Please try again.")
	}
	return nil
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
