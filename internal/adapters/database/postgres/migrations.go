package postgres

import "github.com/membify/membify-bot/internal/domain/entity"

// Migrations is a list of all gorm migrations for the database.
var Migrations = []interface{}{
	&entity.Community{},
	&entity.Member{},
	&entity.BotSettings{},
	&entity.NotificationRecord{},
	&entity.ActivityLogEntry{},
	&entity.RunLog{},
}
