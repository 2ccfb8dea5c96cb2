package recipe

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"cookmate/internal/core/preferences"
	recipeService "cookmate/internal/core/recipe"
	"cookmate/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxRandomCount = 25

// RankRequest 對指定食譜依偏好排序
type RankRequest struct {
	Recipes     []recipeService.Recipe `json:"recipes" binding:"required"`
	Preferences json.RawMessage        `json:"preferences,omitempty"`
}

// StepsRequest 將做法文字拆成步驟
type StepsRequest struct {
	Instructions string `json:"instructions"`
}

// Handler 食譜處理程序
type Handler struct {
	recipes     *recipeService.Service
	preferences *preferences.Service
}

// NewHandler 創建新的食譜處理程序
func NewHandler(recipes *recipeService.Service, prefs *preferences.Service) *Handler {
	return &Handler{
		recipes:     recipes,
		preferences: prefs,
	}
}

// HandleRandom 隨機食譜
func (h *Handler) HandleRandom(c *gin.Context) {
	count := 0
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			common.WriteError(c, common.NewValidationError("count must be a positive integer"))
			return
		}
		count = min(n, maxRandomCount)
	}

	recipes := h.recipes.RandomRecipes(c.Request.Context(), count)
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// HandleSearch 依名稱搜尋
func (h *Handler) HandleSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		common.WriteError(c, common.NewValidationError("query parameter q is required"))
		return
	}

	recipes := h.recipes.Search(c.Request.Context(), query)
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// HandleCategories 分類列表
func (h *Handler) HandleCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.recipes.Categories(c.Request.Context())})
}

// HandleByCategory 依分類取得食譜
func (h *Handler) HandleByCategory(c *gin.Context) {
	recipes := h.recipes.RecipesByCategory(c.Request.Context(), c.Param("name"))
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// HandleByIngredient 依主要食材取得食譜
func (h *Handler) HandleByIngredient(c *gin.Context) {
	recipes := h.recipes.RecipesByIngredient(c.Request.Context(), c.Param("name"))
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// HandleDetail 食譜明細與步驟
func (h *Handler) HandleDetail(c *gin.Context) {
	detail := h.recipes.RecipeByID(c.Request.Context(), c.Param("id"))
	if detail == nil {
		common.WriteError(c, common.ErrRecipeNotFound)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// HandleRecommended 依使用者已儲存的偏好推薦食譜
func (h *Handler) HandleRecommended(c *gin.Context) {
	userID := common.UserID(c)

	prefs, err := h.preferences.Load(c.Request.Context(), userID)
	if err != nil {
		common.LogWarn("讀取偏好失敗，改用預設偏好", zap.String("user_id", userID), zap.Error(err))
	}
	if prefs == nil {
		def := preferences.Default()
		prefs = &def
	}

	recipes := h.recipes.RecommendForPreferences(c.Request.Context(), *prefs)
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// HandleRank 以請求內的偏好排序請求內的食譜，未帶偏好時使用已儲存的偏好
func (h *Handler) HandleRank(c *gin.Context) {
	var req RankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", common.RequestID(c)),
		)
		common.WriteError(c, common.ErrInvalidRequest)
		return
	}

	var prefs preferences.UserPreferences
	if len(req.Preferences) > 0 && string(req.Preferences) != "null" {
		decoded, err := preferences.DecodeInput(req.Preferences)
		if err != nil {
			common.WriteError(c, err)
			return
		}
		prefs = decoded
	} else {
		userID := common.UserID(c)
		stored, err := h.preferences.Load(c.Request.Context(), userID)
		if err != nil {
			common.LogWarn("讀取偏好失敗，改用預設偏好", zap.String("user_id", userID), zap.Error(err))
		}
		if stored != nil {
			prefs = *stored
		} else {
			prefs = preferences.Default()
		}
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipeService.RankScored(req.Recipes, prefs)})
}

// HandleSteps 拆解做法文字
func (h *Handler) HandleSteps(c *gin.Context) {
	var req StepsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteError(c, common.ErrInvalidRequest)
		return
	}
	c.JSON(http.StatusOK, gin.H{"steps": recipeService.Segment(req.Instructions)})
}
