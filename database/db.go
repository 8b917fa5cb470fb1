package database

import (
	"github.com/milopalmaerts/travel-planner-app/persistence"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(connStr string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&persistence.CollectionRecord{}); err != nil {
		return nil, err
	}

	return db, nil
}
