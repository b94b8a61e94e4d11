package services

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/yungbote/upskill-backend/internal/domain/plan"
	"github.com/yungbote/upskill-backend/internal/platform/logger"
	"github.com/yungbote/upskill-backend/internal/platform/sendgrid"
)

//go:embed templates/plan_email.html.tmpl
var planEmailSource string

var planEmailTemplate = template.Must(template.New("plan_email").Parse(planEmailSource))

var ErrMailDisabled = errors.New("mail delivery is not configured")

type MailService interface {
	Enabled() bool
	SendPlan(ctx context.Context, to string, p *plan.Plan, in plan.CanonicalInput, token string) error
}

type MailConfig struct {
	AppBaseURL string
}

type mailService struct {
	log    *logger.Logger
	sender sendgrid.Client
	cfg    MailConfig
	now    func() time.Time
}

// NewMailService returns a service that reports Enabled() == false when
// sender is nil.
func NewMailService(log *logger.Logger, sender sendgrid.Client, cfg MailConfig) MailService {
	cfg.AppBaseURL = strings.TrimRight(strings.TrimSpace(cfg.AppBaseURL), "/")
	return &mailService{
		log:    log.With("service", "MailService"),
		sender: sender,
		cfg:    cfg,
		now:    time.Now,
	}
}

func (s *mailService) Enabled() bool { return s.sender != nil }

type planEmailData struct {
	Name       string
	TargetGoal string
	Plan       *plan.Plan
	PlanLink   string
	Year       int
}

func (s *mailService) SendPlan(ctx context.Context, to string, p *plan.Plan, in plan.CanonicalInput, token string) error {
	if s.sender == nil {
		return ErrMailDisabled
	}
	if p == nil {
		return fmt.Errorf("plan required")
	}

	html, err := s.renderPlan(p, in, token)
	if err != nil {
		return err
	}

	res, err := s.sender.Send(ctx, sendgrid.SendEmailRequest{
		To:         []sendgrid.EmailAddress{{Email: to, Name: in.FullName}},
		Subject:    PlanEmailSubject(in.TargetGoal),
		HTML:       html,
		Text:       planEmailText(p, s.planLink(token)),
		Categories: []string{"plan"},
	})
	if err != nil {
		return err
	}
	s.log.Info("Plan email sent", "email", to, "message_id", res.MessageID)
	return nil
}

func PlanEmailSubject(targetGoal string) string {
	return "Your Personalized Learning Plan - " + targetGoal
}

func (s *mailService) planLink(token string) string {
	if token == "" || s.cfg.AppBaseURL == "" {
		return ""
	}
	return s.cfg.AppBaseURL + "/p/" + token
}

func (s *mailService) renderPlan(p *plan.Plan, in plan.CanonicalInput, token string) (string, error) {
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		name = "there"
	}
	var buf bytes.Buffer
	if err := planEmailTemplate.Execute(&buf, planEmailData{
		Name:       name,
		TargetGoal: in.TargetGoal,
		Plan:       p,
		PlanLink:   s.planLink(token),
		Year:       s.now().Year(),
	}); err != nil {
		return "", fmt.Errorf("render plan email: %w", err)
	}
	return buf.String(), nil
}

func planEmailText(p *plan.Plan, link string) string {
	var b strings.Builder
	b.WriteString(p.Summary)
	b.WriteString("\n\nPriority skills:\n")
	for _, sk := range p.PrioritizedSkills {
		fmt.Fprintf(&b, "%d. %s\n", sk.Priority, sk.Skill)
	}
	if link != "" {
		b.WriteString("\nView your plan online: ")
		b.WriteString(link)
		b.WriteString("\n")
	}
	return b.String()
}
