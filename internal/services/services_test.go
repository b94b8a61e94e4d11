package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/upskill-backend/internal/domain/plan"
	"github.com/yungbote/upskill-backend/internal/modules/planner"
	"github.com/yungbote/upskill-backend/internal/platform/apierr"
	"github.com/yungbote/upskill-backend/internal/platform/sendgrid"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []sendgrid.SendEmailRequest
	err  error
}

func (f *fakeSender) Send(_ context.Context, req sendgrid.SendEmailRequest) (*sendgrid.SendEmailResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, req)
	return &sendgrid.SendEmailResult{StatusCode: 202, MessageID: "msg-1"}, nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeText struct {
	text  string
	err   error
	calls int
}

func (f *fakeText) GenerateText(context.Context, string, string) (string, error) {
	f.calls++
	return f.text, f.err
}

func sampleInput() plan.CanonicalInput {
	return plan.CanonicalInput{
		FullName:             "Sam Rivera",
		CurrentRole:          "QA Engineer",
		YearsExperience:      4,
		CurrentSkills:        []string{"Selenium", "Python"},
		TargetGoal:           "AI/ML Engineer",
		WeeklyHours:          6,
		CommuteMinutesPerDay: 30,
		PreferredStudyTime:   plan.StudyEvening,
		LowEnergyAfter:       "9 PM",
		WeekendAvailability:  "Both",
	}
}

func samplePlanJSON(t *testing.T) json.RawMessage {
	t.Helper()
	p := planner.NewFallback(nil).Generate(sampleInput())
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	return raw
}

func requireAPIError(t *testing.T, err error, status int, code, msg string) {
	t.Helper()
	var ae *apierr.Error
	require.True(t, errors.As(err, &ae), "expected *apierr.Error, got %v", err)
	require.Equal(t, status, ae.Status)
	require.Equal(t, code, ae.Code)
	if msg != "" {
		require.Equal(t, msg, ae.Error())
	}
}
