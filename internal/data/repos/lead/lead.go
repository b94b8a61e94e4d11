package lead

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	types "github.com/yungbote/upskill-backend/internal/domain"
	"github.com/yungbote/upskill-backend/internal/modules/leads"
	"github.com/yungbote/upskill-backend/internal/platform/logger"
)

// ErrNotFound is returned when no lead carries the requested token.
var ErrNotFound = errors.New("lead not found")

type LeadRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lead *types.Lead) (*types.Lead, error)
	GetByToken(ctx context.Context, tx *gorm.DB, token string) (*types.Lead, error)
}

type leadRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLeadRepo(db *gorm.DB, baseLog *logger.Logger) LeadRepo {
	repoLog := baseLog.With("repo", "LeadRepo")
	return &leadRepo{db: db, log: repoLog}
}

func (lr *leadRepo) Create(ctx context.Context, tx *gorm.DB, lead *types.Lead) (*types.Lead, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	if lead == nil {
		return nil, errors.New("lead required")
	}
	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	if lead.Source == "" {
		lead.Source = "web"
	}

	if err := transaction.WithContext(ctx).Create(lead).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, leads.ErrDuplicateToken
		}
		return nil, err
	}
	return lead, nil
}

func (lr *leadRepo) GetByToken(ctx context.Context, tx *gorm.DB, token string) (*types.Lead, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	var result types.Lead
	err := transaction.WithContext(ctx).
		Where("plan_token = ?", token).
		Limit(1).
		Find(&result).Error
	if err != nil {
		return nil, err
	}
	if result.ID == uuid.Nil {
		return nil, ErrNotFound
	}
	return &result, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
