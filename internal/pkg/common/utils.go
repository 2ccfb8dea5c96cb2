package common

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// RequestID 取得請求 ID，若沒有則產生並寫回響應標頭
func RequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = c.Writer.Header().Get("X-Request-ID")
	}
	if requestID == "" {
		requestID = GenerateUUID()
		c.Header("X-Request-ID", requestID)
	}
	return requestID
}

// WriteError 將錯誤寫成統一的 JSON 響應
func WriteError(c *gin.Context, err error) {
	var ce *CustomError
	if errors.As(err, &ce) {
		c.AbortWithStatusJSON(ce.Status, ErrorResponse{Code: ce.Code, Message: ce.Message})
		return
	}
	if IsValidationError(err) {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Code: ErrCodeValidation, Message: err.Error()})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Code:    ErrInternalError.Code,
		Message: ErrInternalError.Message,
	})
}

// DefaultUserID 未帶 X-User-ID 時使用的使用者
const DefaultUserID = "default"

// UserID 取得請求所屬的使用者
func UserID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader("X-User-ID")); id != "" {
		return id
	}
	return DefaultUserID
}
