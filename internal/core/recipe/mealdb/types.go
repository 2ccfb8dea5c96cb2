package mealdb

import (
	"encoding/json"
	"strconv"
	"strings"

	"cookmate/internal/core/recipe"
)

type mealsResponse struct {
	Meals []meal `json:"meals"`
}

type filterResponse struct {
	Meals []struct {
		ID string `json:"idMeal"`
	} `json:"meals"`
}

type categoriesResponse struct {
	Categories []struct {
		Name string `json:"strCategory"`
	} `json:"categories"`
}

// meal 原始資料，食材與份量以 strIngredient1..20 / strMeasure1..20 平鋪
type meal struct {
	ID           string
	Name         string
	Category     string
	Area         string
	Instructions string
	Thumbnail    string
	Tags         string
	Youtube      string
	Source       string
	Ingredients  [maxIngredients]string
	Measures     [maxIngredients]string
}

func (m *meal) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	// 缺欄位、null 或非字串都視為空字串
	field := func(key string) string {
		var v string
		if msg, ok := raw[key]; ok {
			_ = json.Unmarshal(msg, &v)
		}
		return v
	}

	m.ID = field("idMeal")
	m.Name = field("strMeal")
	m.Category = field("strCategory")
	m.Area = field("strArea")
	m.Instructions = field("strInstructions")
	m.Thumbnail = field("strMealThumb")
	m.Tags = field("strTags")
	m.Youtube = field("strYoutube")
	m.Source = field("strSource")
	for i := range maxIngredients {
		n := strconv.Itoa(i + 1)
		m.Ingredients[i] = field("strIngredient" + n)
		m.Measures[i] = field("strMeasure" + n)
	}
	return nil
}

func (m meal) toRecipe() recipe.Recipe {
	ingredients := make([]recipe.Ingredient, 0, maxIngredients)
	for i := range maxIngredients {
		name := strings.TrimSpace(m.Ingredients[i])
		if name == "" {
			continue
		}
		ingredients = append(ingredients, recipe.Ingredient{
			Name:    name,
			Measure: strings.TrimSpace(m.Measures[i]),
		})
	}

	tags := []string{}
	if m.Tags != "" {
		for _, tag := range strings.Split(m.Tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	return recipe.Recipe{
		ID:           m.ID,
		Name:         m.Name,
		Category:     m.Category,
		Area:         m.Area,
		Instructions: m.Instructions,
		Thumbnail:    m.Thumbnail,
		Tags:         tags,
		YoutubeURL:   strings.TrimSpace(m.Youtube),
		Ingredients:  ingredients,
		Source:       strings.TrimSpace(m.Source),
	}
}
