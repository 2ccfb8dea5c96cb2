package recipe

// Ingredient 食材名稱與份量，份量不解析單位
type Ingredient struct {
	Name    string `json:"name"`
	Measure string `json:"measure"`
}

// Recipe 從食譜來源取得的料理，取得後不再修改
type Recipe struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Category     string       `json:"category"`
	Area         string       `json:"area"`
	Instructions string       `json:"instructions"`
	Thumbnail    string       `json:"thumbnail"`
	Tags         []string     `json:"tags"`
	YoutubeURL   string       `json:"youtubeUrl,omitempty"`
	Ingredients  []Ingredient `json:"ingredients"`
	Source       string       `json:"source,omitempty"`
}

// RecipeStep 由說明文字切出的步驟，Number 從 1 開始且連續
type RecipeStep struct {
	Number      int    `json:"number"`
	Description string `json:"description"`
}

// RecipeDetail 食譜加上切分好的步驟
type RecipeDetail struct {
	Recipe
	Steps []RecipeStep `json:"steps"`
}

// NewDetail 以說明文字產生步驟
func NewDetail(r Recipe) *RecipeDetail {
	return &RecipeDetail{
		Recipe: r,
		Steps:  Segment(r.Instructions),
	}
}
