package services

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/upskill-backend/internal/data/repos"
	types "github.com/yungbote/upskill-backend/internal/domain"
	"github.com/yungbote/upskill-backend/internal/platform/apierr"
	"github.com/yungbote/upskill-backend/internal/platform/ctxutil"
	"github.com/yungbote/upskill-backend/internal/platform/logger"
)

type TrackEventRequest struct {
	EventType any             `json:"event_type"`
	Email     any             `json:"email"`
	Meta      json.RawMessage `json:"meta"`
}

type EventService interface {
	Track(ctx context.Context, req TrackEventRequest) error
}

type eventService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.EventRepo
}

func NewEventService(db *gorm.DB, baseLog *logger.Logger, repo repos.EventRepo) EventService {
	return &eventService{
		db:   db,
		log:  baseLog.With("service", "EventService"),
		repo: repo,
	}
}

func (s *eventService) Track(ctx context.Context, req TrackEventRequest) error {
	eventType, _ := req.EventType.(string)
	if strings.TrimSpace(eventType) == "" {
		return apierr.Newf(http.StatusBadRequest, apierr.CodeInvalidInput, "event_type is required and must be non-empty")
	}

	var email *string
	if e, ok := req.Email.(string); ok && e != "" {
		email = &e
	}
	meta := datatypes.JSON("{}")
	if isJSONObject(req.Meta) {
		meta = datatypes.JSON(req.Meta)
	}

	if _, err := s.repo.Create(ctx, s.db, &types.Event{
		EventType: eventType,
		Email:     email,
		Meta:      meta,
	}); err != nil {
		s.log.Error("Failed to insert event", append(ctxutil.LogFields(ctx), "event_type", eventType, "error", err)...)
		return apierr.Newf(http.StatusInternalServerError, apierr.CodeEventPersistFailed, "Failed to track event. Please try again.")
	}
	return nil
}
