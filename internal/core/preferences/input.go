package preferences

import (
	"bytes"
	"encoding/json"
	"fmt"

	"cookmate/internal/pkg/common"
)

// Input 編輯偏好時的輸入格式，calorieLimit 可為數字或表單字串
type Input struct {
	DietaryRestrictions DietaryRestrictions `json:"dietaryRestrictions"`
	Allergies           []string            `json:"allergies"`
	CalorieLimit        json.RawMessage     `json:"calorieLimit,omitempty"`
	CuisinePreferences  []string            `json:"cuisinePreferences"`
	SkillLevel          SkillLevel          `json:"skillLevel"`
	MealTimePreference  MealTimePreference  `json:"mealTimePreference"`
	TastePreferences    TastePreferences    `json:"tastePreferences"`
	HealthGoals         string              `json:"healthGoals"`
}

// ToPreferences 轉為偏好文件並驗證
func (in Input) ToPreferences() (UserPreferences, error) {
	limit, err := parseCalorieValue(in.CalorieLimit)
	if err != nil {
		return UserPreferences{}, err
	}

	prefs := UserPreferences{
		DietaryRestrictions: in.DietaryRestrictions,
		Allergies:           in.Allergies,
		CalorieLimit:        limit,
		CuisinePreferences:  in.CuisinePreferences,
		SkillLevel:          in.SkillLevel,
		MealTimePreference:  in.MealTimePreference,
		TastePreferences:    in.TastePreferences,
		HealthGoals:         in.HealthGoals,
	}
	prefs.Normalize()
	if err := prefs.Validate(); err != nil {
		return UserPreferences{}, err
	}
	return prefs, nil
}

// DecodeInput 解析完整的偏好文件輸入
func DecodeInput(data []byte) (UserPreferences, error) {
	var in Input
	if err := common.ParseJSONBytes(data, &in); err != nil {
		return UserPreferences{}, common.ErrInvalidRequest.Wrap(err)
	}
	return in.ToPreferences()
}

// Merge 將部分欄位覆蓋到現有文件上，回傳完整的新文件
func Merge(current UserPreferences, patch []byte) (UserPreferences, error) {
	var changes map[string]json.RawMessage
	if err := common.ParseJSONBytes(patch, &changes); err != nil {
		return UserPreferences{}, common.ErrInvalidRequest.Wrap(err)
	}

	base, err := json.Marshal(current)
	if err != nil {
		return UserPreferences{}, fmt.Errorf("failed to marshal preferences: %w", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(base, &doc); err != nil {
		return UserPreferences{}, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}

	for key, value := range changes {
		doc[key] = value
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return UserPreferences{}, fmt.Errorf("failed to marshal merged preferences: %w", err)
	}
	return DecodeInput(merged)
}

func parseCalorieValue(raw json.RawMessage) (*float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	switch raw[0] {
	case '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, common.NewValidationError(invalidCalorieMessage)
		}
		return ParseCalorieLimit(text)
	default:
		var limit float64
		if err := json.Unmarshal(raw, &limit); err != nil || limit < 0 {
			return nil, common.NewValidationError(invalidCalorieMessage)
		}
		return &limit, nil
	}
}
