package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/upskill-backend/internal/data/repos/lead"
	"github.com/yungbote/upskill-backend/internal/platform/logger"
)

type LeadRepo = lead.LeadRepo
type EventRepo = lead.EventRepo

var ErrLeadNotFound = lead.ErrNotFound

func NewLeadRepo(db *gorm.DB, baseLog *logger.Logger) LeadRepo { return lead.NewLeadRepo(db, baseLog) }
func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	return lead.NewEventRepo(db, baseLog)
}
