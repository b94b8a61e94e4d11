package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/upskill-backend/internal/data/repos"
	"github.com/yungbote/upskill-backend/internal/platform/logger"
)

type Repos struct {
	Lead  repos.LeadRepo
	Event repos.EventRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Lead:  repos.NewLeadRepo(db, log),
		Event: repos.NewEventRepo(db, log),
	}
}
