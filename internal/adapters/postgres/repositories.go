package postgres

import (
	"gorm.io/gorm"

	"github.com/adpilot/marketops/internal/ports"
)

type Repositories struct {
	Users       ports.UserRepository
	Connections ports.ConnectionRepository
	Campaigns   ports.CampaignRepository
	Leads       ports.LeadRepository
	Outbox      ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:       &userRepository{db: db},
		Connections: &connectionRepository{db: db},
		Campaigns:   &campaignRepository{db: db},
		Leads:       &leadRepository{db: db},
		Outbox:      &outboxRepository{db: db},
	}
}
