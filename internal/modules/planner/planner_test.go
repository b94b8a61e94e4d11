package planner

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/upskill-backend/internal/domain/plan"
)

func sampleInput() plan.CanonicalInput {
	return plan.CanonicalInput{
		FullName:             "Ada Lovelace",
		CurrentRole:          "Backend Engineer",
		YearsExperience:      6,
		CurrentSkills:        []string{"Java", "SQL", "Docker", "Kafka"},
		TargetGoal:           "AI/ML Engineer",
		WeeklyHours:          6,
		CommuteMinutesPerDay: 30,
		PreferredStudyTime:   "Evening",
		LowEnergyAfter:       "9 PM",
		WeekendAvailability:  "Both days",
	}
}

func validPlanJSON(t *testing.T) string {
	t.Helper()
	p := NewFallback(nil).Generate(sampleInput())
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	return string(raw)
}

// scriptedGenerator replays canned replies in order and counts calls.
type scriptedGenerator struct {
	mu      sync.Mutex
	replies []reply
	calls   int32
	block   chan struct{}
	users   []string
}

type reply struct {
	text string
	err  error
}

func (g *scriptedGenerator) GenerateJSONText(ctx context.Context, system, user string) (string, error) {
	atomic.AddInt32(&g.calls, 1)
	if g.block != nil {
		select {
		case <-g.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.users = append(g.users, user)
	if len(g.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	r := g.replies[0]
	if len(g.replies) > 1 {
		g.replies = g.replies[1:]
	}
	return r.text, r.err
}

func (g *scriptedGenerator) Calls() int { return int(atomic.LoadInt32(&g.calls)) }

type mapCache struct {
	mu   sync.Mutex
	m    map[string]plan.Plan
	sets int
}

func newMapCache() *mapCache { return &mapCache{m: map[string]plan.Plan{}} }

func (c *mapCache) Get(_ context.Context, key string) (*plan.Plan, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.m[key]
	if !ok {
		return nil, false, nil
	}
	return &p, true, nil
}

func (c *mapCache) Set(_ context.Context, key string, p *plan.Plan) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = *p
	c.sets++
	return nil
}
