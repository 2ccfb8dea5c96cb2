package preferences

import (
	"net/http"

	prefService "cookmate/internal/core/preferences"
	"cookmate/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 偏好設定處理程序
type Handler struct {
	service *prefService.Service
}

// NewHandler 創建偏好設定處理程序
func NewHandler(service *prefService.Service) *Handler {
	return &Handler{service: service}
}

// HandleGet 讀取偏好
func (h *Handler) HandleGet(c *gin.Context) {
	prefs, err := h.service.Load(c.Request.Context(), common.UserID(c))
	if err != nil {
		common.WriteError(c, common.ErrStorageFailure.Wrap(err))
		return
	}
	if prefs == nil {
		common.WriteError(c, common.ErrPreferencesUnset)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// HandlePut 整份覆寫偏好
func (h *Handler) HandlePut(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		common.WriteError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	prefs, err := prefService.DecodeInput(body)
	if err != nil {
		h.reject(c, err)
		return
	}

	if err := h.service.Save(c.Request.Context(), common.UserID(c), prefs); err != nil {
		h.reject(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// HandlePatch 只更新帶入的欄位
func (h *Handler) HandlePatch(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		common.WriteError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	prefs, err := h.service.Update(c.Request.Context(), common.UserID(c), body)
	if err != nil {
		h.reject(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// HandleDelete 清除偏好
func (h *Handler) HandleDelete(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context(), common.UserID(c)); err != nil {
		common.WriteError(c, common.ErrStorageFailure.Wrap(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) reject(c *gin.Context, err error) {
	common.LogWarn("偏好更新被拒絕",
		zap.String("user_id", common.UserID(c)),
		zap.String("request_id", common.RequestID(c)),
		zap.Error(err),
	)
	common.WriteError(c, err)
}
