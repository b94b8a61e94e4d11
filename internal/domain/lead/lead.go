package lead

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Lead is a captured email plus the (inputs, plan) pair it was shown. The
// plan token is the public handle for the shareable plan link.
type Lead struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email      string         `gorm:"column:email;not null;index" json:"email"`
	FullName   string         `gorm:"column:full_name" json:"full_name"`
	TargetGoal string         `gorm:"column:target_goal" json:"target_goal"`
	LeadScore  int            `gorm:"column:lead_score;not null;default:0" json:"lead_score"`
	Inputs     datatypes.JSON `gorm:"column:inputs;not null" json:"inputs"`
	Plan       datatypes.JSON `gorm:"column:plan;not null" json:"plan"`
	PlanToken  string         `gorm:"column:plan_token;not null;uniqueIndex" json:"plan_token"`
	Source     string         `gorm:"column:source;not null;default:'web'" json:"source"`
	CreatedAt  time.Time      `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (Lead) TableName() string { return "leads" }

const (
	EventLeadCaptured = "lead_captured"
	EventPlanEmailed  = "plan_emailed"
)

// Event is an append-only analytics record.
type Event struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EventType string         `gorm:"column:event_type;not null;index" json:"event_type"`
	Email     *string        `gorm:"column:email;index" json:"email,omitempty"`
	Meta      datatypes.JSON `gorm:"column:meta" json:"meta,omitempty"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (Event) TableName() string { return "events" }
