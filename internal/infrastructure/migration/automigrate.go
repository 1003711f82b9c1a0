package migration

import (
	"sitedesk/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.SiteModel{},
		&models.SiteSequenceModel{},
		&models.TicketModel{},
		&models.TicketHistoryModel{},
		&models.RecurrenceRuleModel{},
		&models.NotificationModel{},
		&models.DigestStateModel{},
	}
}
