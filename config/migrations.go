package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"p9e.in/fleettrack/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250812_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.Location{}, &models.Vehicle{},
					&models.Tracker{}, &models.OrderDocument{}, &models.Installation{})
			},
		},
		{
			ID: "20250819_create_action_log",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.ActionLog{})
			},
		},
	})

	return m.Migrate()
}
