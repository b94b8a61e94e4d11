package lead

import (
	"context"
	"errors"
	"testing"

	"gorm.io/datatypes"

	"github.com/yungbote/upskill-backend/internal/data/repos/testutil"
	types "github.com/yungbote/upskill-backend/internal/domain"
	"github.com/yungbote/upskill-backend/internal/modules/leads"
)

func TestLeadRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewLeadRepo(db, testutil.Logger(t))
	ctx := context.Background()

	token, err := leads.NewToken()
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}
	created, err := repo.Create(ctx, tx, &types.Lead{
		Email:      "leadrepo@example.com",
		FullName:   "Jordan",
		TargetGoal: "Data Analyst",
		LeadScore:  20,
		Inputs:     datatypes.JSON(`{"targetGoal":"Data Analyst"}`),
		Plan:       datatypes.JSON(`{"summary":"a plan"}`),
		PlanToken:  token,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Source != "web" {
		t.Fatalf("Create: expected default source web, got %q", created.Source)
	}

	got, err := repo.GetByToken(ctx, tx, token)
	if err != nil {
		t.Fatalf("GetByToken: %v", err)
	}
	if got.ID != created.ID || got.Email != "leadrepo@example.com" || got.LeadScore != 20 {
		t.Fatalf("GetByToken: unexpected result: %+v", got)
	}
	if string(got.Plan) != `{"summary":"a plan"}` {
		t.Fatalf("GetByToken: plan round trip mismatch: %s", got.Plan)
	}

	if _, err := repo.GetByToken(ctx, tx, "0123456789abcdef0123456789abcdef"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByToken(missing): expected ErrNotFound, got %v", err)
	}

	_, err = repo.Create(ctx, tx, &types.Lead{
		Email:     "other@example.com",
		Inputs:    datatypes.JSON(`{}`),
		Plan:      datatypes.JSON(`{}`),
		PlanToken: token,
	})
	if !errors.Is(err, leads.ErrDuplicateToken) {
		t.Fatalf("Create(duplicate token): expected ErrDuplicateToken, got %v", err)
	}
}

func TestEventRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewEventRepo(db, testutil.Logger(t))
	ctx := context.Background()

	email := "events@example.com"
	if _, err := repo.Create(ctx, tx, &types.Event{
		EventType: types.EventLeadCaptured,
		Email:     &email,
		Meta:      datatypes.JSON(`{"leadScore":40}`),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Create(ctx, tx, &types.Event{EventType: "page_view"}); err != nil {
		t.Fatalf("Create(no email): %v", err)
	}
	testutil.SeedEvent(t, ctx, tx, types.EventPlanEmailed)

	n, err := repo.CountByType(ctx, tx, types.EventLeadCaptured)
	if err != nil {
		t.Fatalf("CountByType: %v", err)
	}
	if n != 1 {
		t.Fatalf("CountByType: expected 1, got %d", n)
	}
}

func TestLeadRepoSeededToken(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	seeded := testutil.SeedLead(t, ctx, tx, "seeded@example.com")
	repo := NewLeadRepo(db, testutil.Logger(t))

	got, err := repo.GetByToken(ctx, tx, seeded.PlanToken)
	if err != nil {
		t.Fatalf("GetByToken: %v", err)
	}
	if got.ID != seeded.ID {
		t.Fatalf("GetByToken: expected %s, got %s", seeded.ID, got.ID)
	}

	_, err = repo.Create(ctx, tx, &types.Lead{
		Email:     "dup@example.com",
		Inputs:    datatypes.JSON(`{}`),
		Plan:      datatypes.JSON(`{}`),
		PlanToken: seeded.PlanToken,
	})
	if !errors.Is(err, leads.ErrDuplicateToken) {
		t.Fatalf("Create(seeded token): expected ErrDuplicateToken, got %v", err)
	}
}
