package preferences

import (
	"context"
	"testing"

	"cookmate/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestParseCalorieLimit(t *testing.T) {
	limit, err := ParseCalorieLimit("")
	require.NoError(t, err)
	assert.Nil(t, limit)

	limit, err = ParseCalorieLimit(" 550 ")
	require.NoError(t, err)
	require.NotNil(t, limit)
	assert.Equal(t, 550.0, *limit)

	for _, raw := range []string{"abc", "-1", "NaN", "12kcal"} {
		_, err = ParseCalorieLimit(raw)
		assert.True(t, common.IsValidationError(err), raw)
	}
}

func TestDecodeInputAcceptsStringAndNumber(t *testing.T) {
	prefs, err := DecodeInput([]byte(`{"calorieLimit":"600","skillLevel":"advanced","allergies":[" peanut ",""]}`))
	require.NoError(t, err)
	require.NotNil(t, prefs.CalorieLimit)
	assert.Equal(t, 600.0, *prefs.CalorieLimit)
	assert.Equal(t, SkillAdvanced, prefs.SkillLevel)
	assert.Equal(t, []string{"peanut"}, prefs.Allergies)

	prefs, err = DecodeInput([]byte(`{"calorieLimit":450}`))
	require.NoError(t, err)
	assert.Equal(t, 450.0, *prefs.CalorieLimit)
	assert.Equal(t, SkillBeginner, prefs.SkillLevel)

	_, err = DecodeInput([]byte(`{"skillLevel":"chef"}`))
	assert.True(t, common.IsValidationError(err))
}

func TestServiceRejectsInvalidCalorieWithoutTouchingStore(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	original := Default()
	original.CuisinePreferences = []string{"Italian"}
	require.NoError(t, svc.Save(ctx, "u1", original))

	_, err := svc.Update(ctx, "u1", []byte(`{"calorieLimit":"lots"}`))
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))
	assert.Equal(t, "Please enter a valid number for calorie limit", err.Error())

	stored, err := svc.Load(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Nil(t, stored.CalorieLimit)
	assert.Equal(t, []string{"Italian"}, stored.CuisinePreferences)
}

func TestServiceUpdateMergesTopLevelKeys(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	prefs := Default()
	prefs.Allergies = []string{"shellfish"}
	prefs.TastePreferences.Spicy = true
	require.NoError(t, svc.Save(ctx, "u1", prefs))

	updated, err := svc.Update(ctx, "u1", []byte(`{"cuisinePreferences":["Mexican"],"calorieLimit":"700"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"shellfish"}, updated.Allergies)
	assert.Equal(t, []string{"Mexican"}, updated.CuisinePreferences)
	assert.True(t, updated.TastePreferences.Spicy)
	assert.Equal(t, 700.0, *updated.CalorieLimit)
}

func TestServiceLoadMissingReturnsNil(t *testing.T) {
	svc := NewService(NewMemoryStore())
	prefs, err := svc.Load(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.Nil(t, prefs)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	prefs := Default()
	prefs.Allergies = []string{"egg"}
	require.NoError(t, store.Save(ctx, "u1", prefs))

	loaded, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	loaded.Allergies[0] = "milk"

	again, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"egg"}, again.Allergies)

	require.NoError(t, store.Delete(ctx, "u1"))
	_, err = store.Load(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStoreLastWriteWins(t *testing.T) {
	ctx := context.Background()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	store, err := NewGormStoreWithDB(db)
	require.NoError(t, err)

	_, err = store.Load(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	first := Default()
	first.HealthGoals = "more protein"
	require.NoError(t, store.Save(ctx, "u1", first))

	second := Default()
	second.SkillLevel = SkillIntermediate
	second.DietaryRestrictions.Vegan = true
	require.NoError(t, store.Save(ctx, "u1", second))

	loaded, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, SkillIntermediate, loaded.SkillLevel)
	assert.True(t, loaded.DietaryRestrictions.Vegan)
	assert.Empty(t, loaded.HealthGoals)

	require.NoError(t, store.Delete(ctx, "u1"))
	_, err = store.Load(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)
}
