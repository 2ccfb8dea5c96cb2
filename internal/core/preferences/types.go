// Package preferences 管理使用者的飲食與口味偏好文件。
package preferences

import (
	"math"
	"strconv"
	"strings"

	"cookmate/internal/pkg/common"
)

// SkillLevel 烹飪熟練度
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

// Valid 檢查是否為已知的熟練度
func (s SkillLevel) Valid() bool {
	switch s {
	case SkillBeginner, SkillIntermediate, SkillAdvanced:
		return true
	}
	return false
}

// DietaryRestrictions 飲食限制，可同時成立
type DietaryRestrictions struct {
	Vegan       bool `json:"vegan"`
	Vegetarian  bool `json:"vegetarian"`
	Pescatarian bool `json:"pescatarian"`
	GlutenFree  bool `json:"glutenFree"`
	DairyFree   bool `json:"dairyFree"`
	Keto        bool `json:"keto"`
	Paleo       bool `json:"paleo"`
}

// MealTimePreference 準備時間偏好
type MealTimePreference struct {
	Quick     bool `json:"quick"`
	Standard  bool `json:"standard"`
	Elaborate bool `json:"elaborate"`
}

// TastePreferences 口味偏好
type TastePreferences struct {
	Spicy  bool `json:"spicy"`
	Sweet  bool `json:"sweet"`
	Savory bool `json:"savory"`
	Bitter bool `json:"bitter"`
	Sour   bool `json:"sour"`
}

// UserPreferences 使用者偏好文件，整份讀寫
type UserPreferences struct {
	DietaryRestrictions DietaryRestrictions `json:"dietaryRestrictions"`
	Allergies           []string            `json:"allergies"`
	CalorieLimit        *float64            `json:"calorieLimit,omitempty"`
	CuisinePreferences  []string            `json:"cuisinePreferences"`
	SkillLevel          SkillLevel          `json:"skillLevel"`
	MealTimePreference  MealTimePreference  `json:"mealTimePreference"`
	TastePreferences    TastePreferences    `json:"tastePreferences"`
	HealthGoals         string              `json:"healthGoals"`
}

// Default 新使用者的預設偏好
func Default() UserPreferences {
	return UserPreferences{
		Allergies:          []string{},
		CuisinePreferences: []string{},
		SkillLevel:         SkillBeginner,
		MealTimePreference: MealTimePreference{Standard: true},
	}
}

// ActiveTastes 回傳已開啟的口味名稱，順序固定
func (p UserPreferences) ActiveTastes() []string {
	var tastes []string
	if p.TastePreferences.Spicy {
		tastes = append(tastes, "spicy")
	}
	if p.TastePreferences.Sweet {
		tastes = append(tastes, "sweet")
	}
	if p.TastePreferences.Savory {
		tastes = append(tastes, "savory")
	}
	if p.TastePreferences.Bitter {
		tastes = append(tastes, "bitter")
	}
	if p.TastePreferences.Sour {
		tastes = append(tastes, "sour")
	}
	return tastes
}

// Clone 深拷貝，避免呼叫端共用切片
func (p UserPreferences) Clone() UserPreferences {
	out := p
	out.Allergies = append([]string{}, p.Allergies...)
	out.CuisinePreferences = append([]string{}, p.CuisinePreferences...)
	if p.CalorieLimit != nil {
		limit := *p.CalorieLimit
		out.CalorieLimit = &limit
	}
	return out
}

// Normalize 去除空白項目，補上預設熟練度
func (p *UserPreferences) Normalize() {
	p.Allergies = compact(p.Allergies)
	p.CuisinePreferences = compact(p.CuisinePreferences)
	p.HealthGoals = strings.TrimSpace(p.HealthGoals)
	if p.SkillLevel == "" {
		p.SkillLevel = SkillBeginner
	}
}

// Validate 驗證偏好內容
func (p UserPreferences) Validate() error {
	if !p.SkillLevel.Valid() {
		return common.NewValidationError("Please choose a skill level: beginner, intermediate or advanced")
	}
	if p.CalorieLimit != nil && *p.CalorieLimit < 0 {
		return common.NewValidationError(invalidCalorieMessage)
	}
	return nil
}

const invalidCalorieMessage = "Please enter a valid number for calorie limit"

// ParseCalorieLimit 解析使用者輸入的熱量上限，空字串表示不設限
func ParseCalorieLimit(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	limit, err := strconv.ParseFloat(raw, 64)
	if err != nil || limit < 0 || math.IsNaN(limit) || math.IsInf(limit, 0) {
		return nil, common.NewValidationError(invalidCalorieMessage)
	}
	return &limit, nil
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
