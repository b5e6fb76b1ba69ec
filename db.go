package main

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func OpenDB(cfg *Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	switch cfg.DBDriver {
	case "sqlite", "":
		dsn := cfg.DBDSN
		if dsn == "" {
			dsn = "file:" + cfg.SQLitePath + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
		}
		return gorm.Open(sqlite.Open(dsn), gcfg)
	case "postgres":
		dsn := cfg.DBDSN
		if dsn == "" {
			dsn = "host=localhost user=postgres password=postgres dbname=smartest port=5432 sslmode=disable"
		}
		return gorm.Open(postgres.Open(dsn), gcfg)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", cfg.DBDriver)
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Student{},
		&Question{},
		&Submission{},
		&RetakeGrant{},
		&Setting{},
		&Admin{},
	)
}

func IsQuestionTableEmpty(db *gorm.DB) (bool, error) {
	var count int64
	if err := db.Model(&Question{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}
