package domain

import (
	"github.com/yungbote/upskill-backend/internal/domain/lead"
	"github.com/yungbote/upskill-backend/internal/domain/plan"
)

const (
	EventLeadCaptured = lead.EventLeadCaptured
	EventPlanEmailed  = lead.EventPlanEmailed
)

type Lead = lead.Lead
type Event = lead.Event

type CanonicalInput = plan.CanonicalInput
type Plan = plan.Plan
