package cook

import (
	"errors"
	"net/http"

	"cookmate/internal/core/cooking"
	"cookmate/internal/core/recipe"
	"cookmate/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateSessionRequest 以食譜 ID 或完整食譜開始烹飪
type CreateSessionRequest struct {
	RecipeID string         `json:"recipeId"`
	Recipe   *recipe.Recipe `json:"recipe,omitempty"`
}

// MessageRequest 使用者輸入
type MessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// Handler 烹飪會話處理程序
type Handler struct {
	sessions *cooking.Manager
	recipes  *recipe.Service
}

// NewHandler 創建烹飪會話處理程序
func NewHandler(sessions *cooking.Manager, recipes *recipe.Service) *Handler {
	return &Handler{
		sessions: sessions,
		recipes:  recipes,
	}
}

// HandleCreate 建立會話並回傳問候
func (h *Handler) HandleCreate(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	var detail *recipe.RecipeDetail
	switch {
	case req.Recipe != nil:
		detail = recipe.NewDetail(*req.Recipe)
	case req.RecipeID != "":
		detail = h.recipes.RecipeByID(c.Request.Context(), req.RecipeID)
		if detail == nil {
			common.WriteError(c, common.ErrRecipeNotFound)
			return
		}
	default:
		common.WriteError(c, common.NewValidationError("recipeId or recipe is required"))
		return
	}

	session, err := h.sessions.Create(c.Request.Context(), *detail)
	if err != nil {
		writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session.Snapshot())
}

// HandleGet 目前會話狀態
func (h *Handler) HandleGet(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// HandleMessage 處理使用者輸入的文字
func (h *Handler) HandleMessage(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	reply := session.Handle(c.Request.Context(), req.Text)
	common.LogInfo("烹飪訊息已處理",
		zap.String("session_id", session.ID),
		zap.String("command", reply.Command),
		zap.String("request_id", common.RequestID(c)),
	)
	c.JSON(http.StatusOK, reply)
}

// HandleAction 處理導覽按鈕
func (h *Handler) HandleAction(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	kind, ok := cooking.ParseAction(c.Param("action"))
	if !ok {
		common.WriteError(c, common.NewValidationError("unknown action: "+c.Param("action")))
		return
	}

	c.JSON(http.StatusOK, session.Act(c.Request.Context(), kind))
}

// HandleReset 回到準備階段並清空對話
func (h *Handler) HandleReset(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.Reset())
}

// HandleDelete 結束會話
func (h *Handler) HandleDelete(c *gin.Context) {
	if err := h.sessions.Delete(c.Param("id")); err != nil {
		writeSessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) session(c *gin.Context) (*cooking.Session, bool) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		writeSessionError(c, err)
		return nil, false
	}
	return session, true
}

func writeSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cooking.ErrSessionNotFound):
		common.WriteError(c, common.ErrSessionNotFound)
	case errors.Is(err, cooking.ErrTooManySessions):
		common.WriteError(c, common.ErrServiceUnavailable.Wrap(err))
	default:
		common.WriteError(c, err)
	}
}
