package preferences

import (
	"context"
	"errors"
	"fmt"

	"cookmate/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 偏好的讀寫入口，驗證失敗時不會動到已儲存的文件
type Service struct {
	store Store
}

// NewService 建立偏好服務
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Load 讀取偏好，尚未設定時回傳 nil
func (s *Service) Load(ctx context.Context, userID string) (*UserPreferences, error) {
	prefs, err := s.store.Load(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		common.LogError("讀取偏好失敗", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return prefs, nil
}

// Save 整份覆寫偏好
func (s *Service) Save(ctx context.Context, userID string, prefs UserPreferences) error {
	prefs.Normalize()
	if err := prefs.Validate(); err != nil {
		return err
	}

	if err := s.store.Save(ctx, userID, prefs); err != nil {
		common.LogError("儲存偏好失敗", zap.String("user_id", userID), zap.Error(err))
		return common.ErrStorageFailure.Wrap(err)
	}

	common.LogInfo("偏好已儲存",
		zap.String("user_id", userID),
		zap.String("skill_level", string(prefs.SkillLevel)),
		zap.Int("allergies", len(prefs.Allergies)),
	)
	return nil
}

// Update 套用部分欄位後整份覆寫，尚未設定時以預設值為基礎
func (s *Service) Update(ctx context.Context, userID string, patch []byte) (*UserPreferences, error) {
	current, err := s.Load(ctx, userID)
	if err != nil {
		return nil, common.ErrStorageFailure.Wrap(err)
	}
	if current == nil {
		def := Default()
		current = &def
	}

	merged, err := Merge(*current, patch)
	if err != nil {
		return nil, err
	}

	if err := s.Save(ctx, userID, merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Clear 刪除偏好
func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear preferences: %w", err)
	}
	common.LogInfo("偏好已清除", zap.String("user_id", userID))
	return nil
}
