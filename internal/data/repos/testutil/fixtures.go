package testutil

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/upskill-backend/internal/domain"
)

// SeedLead inserts a lead with a fresh random plan token and minimal JSON
// payloads, bypassing the repo.
func SeedLead(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.Lead {
	tb.Helper()
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		tb.Fatalf("seed lead token: %v", err)
	}
	l := &types.Lead{
		ID:         uuid.New(),
		Email:      email,
		FullName:   "Seed",
		TargetGoal: "Data Engineer",
		Inputs:     datatypes.JSON(`{"targetGoal":"Data Engineer"}`),
		Plan:       datatypes.JSON(`{"summary":"seeded plan"}`),
		PlanToken:  hex.EncodeToString(b[:]),
		Source:     "web",
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lead: %v", err)
	}
	return l
}

func SeedEvent(tb testing.TB, ctx context.Context, tx *gorm.DB, eventType string) *types.Event {
	tb.Helper()
	e := &types.Event{
		ID:        uuid.New(),
		EventType: eventType,
		Meta:      datatypes.JSON(`{}`),
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed event: %v", err)
	}
	return e
}
