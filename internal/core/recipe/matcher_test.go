package recipe

import (
	"testing"

	"cookmate/internal/core/preferences"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(recipes []Recipe) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.ID
	}
	return out
}

func TestRankCuisinePreference(t *testing.T) {
	recipes := []Recipe{
		{ID: "mx", Area: "Mexican"},
		{ID: "it", Area: "Italian"},
	}
	prefs := preferences.Default()
	prefs.CuisinePreferences = []string{"italian"}

	scored := RankScored(recipes, prefs)
	require.Len(t, scored, 2)
	assert.Equal(t, "it", scored[0].Recipe.ID)
	assert.Equal(t, 2, scored[0].Score)
	assert.Equal(t, 0, scored[1].Score)
}

func TestRankExcludesAllergens(t *testing.T) {
	recipes := []Recipe{
		{ID: "a", Ingredients: []Ingredient{{Name: "Peanut Butter"}}},
		{ID: "b", Ingredients: []Ingredient{{Name: "Rice"}}},
		{ID: "c", Ingredients: []Ingredient{{Name: "King Prawns"}, {Name: "Garlic"}}},
	}
	prefs := preferences.Default()
	prefs.Allergies = []string{"PEANUT", "prawn"}

	assert.Equal(t, []string{"b"}, ids(Rank(recipes, prefs)))
}

func TestRankIsStableForEqualScores(t *testing.T) {
	recipes := []Recipe{
		{ID: "1", Area: "British"},
		{ID: "2", Area: "Thai"},
		{ID: "3", Area: "French"},
		{ID: "4", Area: "Thai"},
		{ID: "5", Area: "Canadian"},
	}
	prefs := preferences.Default()
	prefs.CuisinePreferences = []string{"thai"}

	assert.Equal(t, []string{"2", "4", "1", "3", "5"}, ids(Rank(recipes, prefs)))
}

func TestRankTasteKeywords(t *testing.T) {
	recipes := []Recipe{
		{ID: "plain", Name: "Boiled Rice", Instructions: "Boil rice."},
		{ID: "name", Name: "Honey Chicken"},
		{ID: "instr", Name: "Fish", Instructions: "Squeeze LEMON over the fish."},
		{ID: "ing", Name: "Stew", Ingredients: []Ingredient{{Name: "Cayenne Pepper"}}},
	}
	prefs := preferences.Default()
	prefs.TastePreferences = preferences.TastePreferences{Sweet: true, Sour: true, Spicy: true}

	scored := RankScored(recipes, prefs)
	got := map[string]int{}
	for _, s := range scored {
		got[s.Recipe.ID] = s.Score
	}
	assert.Equal(t, 0, got["plain"])
	assert.Equal(t, 1, got["name"])
	assert.Equal(t, 1, got["instr"])
	// 多個關鍵字命中同一口味只算一次
	assert.Equal(t, 1, got["ing"])
	assert.Equal(t, "plain", scored[len(scored)-1].Recipe.ID)
}

func TestRankIgnoresDietaryAndCalories(t *testing.T) {
	recipes := []Recipe{
		{ID: "beef", Name: "Beef Wellington", Category: "Beef"},
		{ID: "salad", Name: "Salad", Category: "Vegetarian"},
	}
	limit := 100.0
	prefs := preferences.Default()
	prefs.DietaryRestrictions.Vegan = true
	prefs.CalorieLimit = &limit

	assert.Equal(t, []string{"beef", "salad"}, ids(Rank(recipes, prefs)))
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, Rank(nil, preferences.Default()))
}
