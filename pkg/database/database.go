package database

import (
	"apec_lms_backend/internal/config"
	"apec_lms_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
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
		// Surfaces duplicate-key violations as gorm.ErrDuplicatedKey, which
		// the enrollment path relies on for its unique-index race guard.
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if migrate {
		// Order matters: FK constraints (including the ON DELETE CASCADE
		// chains from courses to quiz questions and enrollments) reference
		// earlier tables.
		err = db.AutoMigrate(
			&model.User{},
			&model.Course{},
			&model.QuizQuestion{},
			&model.Enrollment{},
			&model.Certificate{},
		)
		if err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
	}

	return db, nil
}
