package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campuslink/internal/config"
)

// InitDatabase 는 PostgreSQL 연결을 초기화하고 GORM 인스턴스를 돌려준다.
// TranslateError 를 켜서 유니크 제약 위반을 gorm.ErrDuplicatedKey 로 받는다.
// 이메일/닉네임/관심학교 중복은 조회 후 삽입이 아니라 제약 충돌로 판정한다.
func InitDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap db: %w", err)
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// AutoMigrate 는 전체 스키마를 마이그레이션한다. api/worker/admin 이 공유한다.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&School{},
		&UserSchool{},
		&Post{},
		&Comment{},
	)
}
