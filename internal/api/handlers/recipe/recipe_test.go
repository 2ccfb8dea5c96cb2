package recipe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cookmate/internal/core/preferences"
	recipeService "cookmate/internal/core/recipe"
	"cookmate/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// brokenStore 每次讀取都失敗的偏好儲存
type brokenStore struct{}

func (brokenStore) Load(ctx context.Context, userID string) (*preferences.UserPreferences, error) {
	return nil, errors.New("connection refused")
}

func (brokenStore) Save(ctx context.Context, userID string, prefs preferences.UserPreferences) error {
	return errors.New("connection refused")
}

func (brokenStore) Delete(ctx context.Context, userID string) error {
	return errors.New("connection refused")
}

func (brokenStore) Close() error { return nil }

func TestHandleRankFallsBackToDefaultsWhenStoreFails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zapcore.WarnLevel)
	prev := common.Logger
	common.Logger = zap.New(core)
	t.Cleanup(func() { common.Logger = prev })

	h := NewHandler(nil, preferences.NewService(brokenStore{}))
	router := gin.New()
	router.POST("/rank", h.HandleRank)

	body, err := json.Marshal(map[string]interface{}{
		"recipes": []recipeService.Recipe{
			{ID: "a", Area: "Thai", Ingredients: []recipeService.Ingredient{{Name: "Peanuts"}}},
			{ID: "b", Area: "British"},
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/rank", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "tester")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var ranked struct {
		Recipes []recipeService.ScoredRecipe `json:"recipes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ranked))
	require.Len(t, ranked.Recipes, 2)
	assert.Equal(t, "a", ranked.Recipes[0].Recipe.ID)
	assert.Equal(t, "b", ranked.Recipes[1].Recipe.ID)

	warned := logs.FilterMessage("讀取偏好失敗，改用預設偏好").All()
	require.Len(t, warned, 1)
	assert.Equal(t, "tester", warned[0].ContextMap()["user_id"])
	assert.Equal(t, zapcore.WarnLevel, warned[0].Level)
}
