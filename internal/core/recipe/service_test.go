package recipe

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cookmate/internal/core/preferences"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu         sync.Mutex
	recipes    map[string]Recipe
	failing    map[string]bool
	categories map[string][]string
	search     map[string][]string
	randomIDs  []string
	randomIdx  int
	searchErr  error

	inFlight    int32
	maxInFlight int32
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		recipes:    map[string]Recipe{},
		failing:    map[string]bool{},
		categories: map[string][]string{},
		search:     map[string][]string{},
	}
}

func (f *fakeSource) add(r Recipe) { f.recipes[r.ID] = r }

func (f *fakeSource) Random(ctx context.Context) (*Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.randomIdx >= len(f.randomIDs) {
		return nil, errors.New("no more random recipes")
	}
	r := f.recipes[f.randomIDs[f.randomIdx]]
	f.randomIdx++
	return &r, nil
}

func (f *fakeSource) Search(ctx context.Context, query string) ([]Recipe, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var out []Recipe
	for _, id := range f.search[query] {
		out = append(out, f.recipes[id])
	}
	return out, nil
}

func (f *fakeSource) Lookup(ctx context.Context, id string) (*Recipe, error) {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		peak := atomic.LoadInt32(&f.maxInFlight)
		if n <= peak || atomic.CompareAndSwapInt32(&f.maxInFlight, peak, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	if f.failing[id] {
		return nil, errors.New("upstream timeout")
	}
	r, ok := f.recipes[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeSource) FilterByCategory(ctx context.Context, category string) ([]string, error) {
	ids, ok := f.categories[category]
	if !ok {
		return nil, errors.New("unknown category")
	}
	return ids, nil
}

func (f *fakeSource) FilterByIngredient(ctx context.Context, ingredient string) ([]string, error) {
	return f.categories["ingredient:"+ingredient], nil
}

func (f *fakeSource) Categories(ctx context.Context) ([]string, error) {
	return nil, errors.New("network down")
}

func TestRecipesByCategorySkipsFailuresAndKeepsOrder(t *testing.T) {
	src := newFakeSource()
	for _, id := range []string{"1", "2", "3", "4", "5", "6"} {
		src.add(Recipe{ID: id, Name: "Recipe " + id})
	}
	src.failing["3"] = true
	src.categories["Seafood"] = []string{"6", "5", "4", "3", "2", "1", "missing"}

	svc := NewService(src, ServiceConfig{MaxConcurrency: 2})
	got := svc.RecipesByCategory(context.Background(), "Seafood")

	assert.Equal(t, []string{"6", "5", "4", "2", "1"}, ids(got))
	assert.LessOrEqual(t, atomic.LoadInt32(&src.maxInFlight), int32(2))
}

func TestUpstreamFailuresDegradeToEmpty(t *testing.T) {
	src := newFakeSource()
	src.searchErr = errors.New("boom")
	svc := NewService(src, ServiceConfig{MaxConcurrency: 1})
	ctx := context.Background()

	assert.NotNil(t, svc.Search(ctx, "soup"))
	assert.Empty(t, svc.Search(ctx, "soup"))
	assert.Empty(t, svc.RecipesByCategory(ctx, "Unknown"))
	assert.NotNil(t, svc.Categories(ctx))
	assert.Empty(t, svc.Categories(ctx))
	assert.Empty(t, svc.RandomRecipes(ctx, 3))
}

func TestRecipeByIDSegmentsSteps(t *testing.T) {
	src := newFakeSource()
	src.add(Recipe{ID: "42", Name: "Pasta", Instructions: "1. Boil water. 2. Add pasta. 3. Drain."})
	src.failing["err"] = true
	svc := NewService(src, ServiceConfig{})
	ctx := context.Background()

	detail := svc.RecipeByID(ctx, "42")
	require.NotNil(t, detail)
	assert.Len(t, detail.Steps, 3)

	assert.Nil(t, svc.RecipeByID(ctx, "nope"))
	assert.Nil(t, svc.RecipeByID(ctx, "err"))
}

func TestRecommendForPreferences(t *testing.T) {
	src := newFakeSource()
	src.add(Recipe{ID: "v1", Area: "Indian", Ingredients: []Ingredient{{Name: "Chickpeas"}}})
	src.add(Recipe{ID: "v2", Area: "Italian", Ingredients: []Ingredient{{Name: "Peanuts"}}})
	src.add(Recipe{ID: "v3", Area: "Italian"})
	src.add(Recipe{ID: "r1", Area: "British"})
	src.add(Recipe{ID: "r2", Area: "Italian"})
	src.search["vegan"] = []string{"v1", "v2", "v3"}
	src.categories["Vegetarian"] = []string{}
	src.randomIDs = []string{"r1", "r2"}

	svc := NewService(src, ServiceConfig{MaxConcurrency: 1, RandomCount: 2})
	ctx := context.Background()

	vegan := preferences.Default()
	vegan.DietaryRestrictions.Vegan = true
	vegan.Allergies = []string{"peanut"}
	vegan.CuisinePreferences = []string{"italian"}
	assert.Equal(t, []string{"v3", "v1"}, ids(svc.RecommendForPreferences(ctx, vegan)))

	// 素食分類沒有結果時改用隨機食譜
	vegetarian := preferences.Default()
	vegetarian.DietaryRestrictions.Vegetarian = true
	vegetarian.CuisinePreferences = []string{"italian"}
	assert.Equal(t, []string{"r2", "r1"}, ids(svc.RecommendForPreferences(ctx, vegetarian)))
}
