package lead

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/upskill-backend/internal/domain"
	"github.com/yungbote/upskill-backend/internal/platform/logger"
)

type EventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, event *types.Event) (*types.Event, error)
	CountByType(ctx context.Context, tx *gorm.DB, eventType string) (int64, error)
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	repoLog := baseLog.With("repo", "EventRepo")
	return &eventRepo{db: db, log: repoLog}
}

func (er *eventRepo) Create(ctx context.Context, tx *gorm.DB, event *types.Event) (*types.Event, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	if event == nil {
		return nil, errors.New("event required")
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	if err := transaction.WithContext(ctx).Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

func (er *eventRepo) CountByType(ctx context.Context, tx *gorm.DB, eventType string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var n int64
	if err := transaction.WithContext(ctx).
		Model(&types.Event{}).
		Where("event_type = ?", eventType).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
