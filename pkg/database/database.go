package database

import (
	"fmt"
	"log"

	"kidlearn_backend/internal/config"
	"kidlearn_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.Parent{},
		&model.Child{},
		&model.Activity{},
		&model.ProgressRecord{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedDemoActivities(db)

	return db, nil
}

// seedDemoActivities keeps a fresh install usable without an import.
func seedDemoActivities(db *gorm.DB) {
	var count int64
	db.Model(&model.Activity{}).Count(&count)
	if count > 0 {
		return
	}

	demos := []model.Activity{
		{Title: "Counting to 100", Subject: model.SubjectMath, EstimatedDuration: 600, Order: 1},
		{Title: "Short vowels", Subject: model.SubjectReading, EstimatedDuration: 900, Order: 2},
		{Title: "Shapes around us", Subject: model.SubjectLogic, EstimatedDuration: 480, Order: 3},
	}
	for _, a := range demos {
		db.Create(&a)
	}
}
