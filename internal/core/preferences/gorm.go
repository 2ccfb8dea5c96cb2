package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cookmate/internal/infrastructure/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// preferenceDocument 一位使用者一列，內容為整份 JSON
type preferenceDocument struct {
	UserID    string `gorm:"primaryKey;size:128"`
	Document  string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (preferenceDocument) TableName() string {
	return "preference_documents"
}

// GormStore 關聯式資料庫儲存（sqlite 或 postgres）
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 開啟資料庫並建立資料表
func NewGormStore(cfg config.PreferencesConfig) (*GormStore, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		dialector = sqlite.Open(cfg.DSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences database: %w", err)
	}

	return NewGormStoreWithDB(db)
}

// NewGormStoreWithDB 使用既有連線並執行遷移
func NewGormStoreWithDB(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&preferenceDocument{}); err != nil {
		return nil, fmt.Errorf("failed to migrate preferences table: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Load(ctx context.Context, userID string) (*UserPreferences, error) {
	var doc preferenceDocument
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	var prefs UserPreferences
	if err := json.Unmarshal([]byte(doc.Document), &prefs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}
	return &prefs, nil
}

func (s *GormStore) Save(ctx context.Context, userID string, prefs UserPreferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	doc := preferenceDocument{UserID: userID, Document: string(data), UpdatedAt: time.Now()}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
	}).Create(&doc).Error
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, userID string) error {
	if err := s.db.WithContext(ctx).Delete(&preferenceDocument{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to delete preferences: %w", err)
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
