package recipe

import (
	"sort"
	"strings"

	"cookmate/internal/core/preferences"
)

// tasteKeywords 口味對應的關鍵字
var tasteKeywords = map[string][]string{
	"spicy":  {"spicy", "hot", "chili", "pepper", "cayenne"},
	"sweet":  {"sweet", "sugar", "honey", "syrup", "caramel"},
	"savory": {"savory", "umami", "meat", "broth", "stock"},
	"bitter": {"bitter", "coffee", "dark chocolate", "beer"},
	"sour":   {"sour", "lemon", "vinegar", "yogurt", "lime"},
}

const cuisineWeight = 2

// ScoredRecipe 食譜與其偏好分數
type ScoredRecipe struct {
	Recipe Recipe `json:"recipe"`
	Score  int    `json:"score"`
}

// Rank 排除含過敏原的食譜後依偏好分數由高到低排序，同分維持輸入順序。
// 飲食限制與熱量上限只影響取得哪些食譜，不參與計分。
func Rank(recipes []Recipe, prefs preferences.UserPreferences) []Recipe {
	scored := RankScored(recipes, prefs)
	out := make([]Recipe, len(scored))
	for i, s := range scored {
		out[i] = s.Recipe
	}
	return out
}

// RankScored 同 Rank，但保留每道食譜的分數
func RankScored(recipes []Recipe, prefs preferences.UserPreferences) []ScoredRecipe {
	allergies := lowerAll(prefs.Allergies)
	cuisines := lowerAll(prefs.CuisinePreferences)
	tastes := prefs.ActiveTastes()

	scored := make([]ScoredRecipe, 0, len(recipes))
	for _, r := range recipes {
		if ContainsAllergen(r, allergies) {
			continue
		}
		scored = append(scored, ScoredRecipe{Recipe: r, Score: score(r, cuisines, tastes)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// ContainsAllergen 任一食材名稱（不分大小寫）包含任一過敏原即為 true，allergies 需為小寫
func ContainsAllergen(r Recipe, allergies []string) bool {
	for _, ing := range r.Ingredients {
		name := strings.ToLower(ing.Name)
		for _, allergen := range allergies {
			if allergen != "" && strings.Contains(name, allergen) {
				return true
			}
		}
	}
	return false
}

func score(r Recipe, cuisines, tastes []string) int {
	total := 0

	area := strings.ToLower(r.Area)
	for _, cuisine := range cuisines {
		if cuisine != "" && strings.Contains(area, cuisine) {
			total += cuisineWeight
		}
	}

	if len(tastes) == 0 {
		return total
	}

	name := strings.ToLower(r.Name)
	instructions := strings.ToLower(r.Instructions)
	ingredients := make([]string, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ingredients[i] = strings.ToLower(ing.Name)
	}

	for _, taste := range tastes {
		if mentionsAny(tasteKeywords[taste], name, instructions, ingredients) {
			total++
		}
	}
	return total
}

func mentionsAny(keywords []string, name, instructions string, ingredients []string) bool {
	for _, kw := range keywords {
		if strings.Contains(name, kw) || strings.Contains(instructions, kw) {
			return true
		}
		for _, ing := range ingredients {
			if strings.Contains(ing, kw) {
				return true
			}
		}
	}
	return false
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
