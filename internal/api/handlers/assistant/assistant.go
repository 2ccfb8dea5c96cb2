package assistant

import (
	"net/http"

	aiService "cookmate/internal/core/ai/service"
	"cookmate/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// ChatRequest 一般烹飪問答
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatResponse 助理回覆
type ChatResponse struct {
	Reply string `json:"reply"`
}

// Handler 助理處理程序
type Handler struct {
	service *aiService.Service
}

// NewHandler 創建助理處理程序
func NewHandler(service *aiService.Service) *Handler {
	return &Handler{service: service}
}

// HandleChat 回答不綁定食譜的烹飪問題，失敗時回傳固定訊息
func (h *Handler) HandleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, ChatResponse{Reply: h.service.Chat(c.Request.Context(), req.Message)})
}

// HandleStatus 回報助理是否可用
func (h *Handler) HandleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"configured": h.service.IsConfigured()})
}
