package shared

import (
	"github.com/shm-admin/backend/internal/http/response"
	"github.com/shm-admin/backend/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestIDKey gin 上下文中的请求 ID 键
const RequestIDKey = "request_id"

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get(RequestIDKey); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondFailure 返回 {success:false,error} 响应，并在有原始错误时记录日志。
func RespondFailure(c *gin.Context, status int, msg string, err error) {
	appErr := response.WrapError(status, msg, err)
	logError(c, appErr)
	response.Failure(c, appErr.Status, appErr.Message)
}

// RespondError 返回 {error} 响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, status int, msg string, err error) {
	appErr := response.WrapError(status, msg, err)
	logError(c, appErr)
	response.Error(c, appErr.Status, appErr.Message)
}

func logError(c *gin.Context, appErr *response.AppError) {
	if appErr.Err == nil {
		return
	}
	RequestLog(c).Errorw("handler_error",
		"status", appErr.Status,
		"message", appErr.Message,
		"path", requestPath(c),
		"error", appErr.Err,
	)
}

func requestPath(c *gin.Context) string {
	if c == nil || c.Request == nil || c.Request.URL == nil {
		return ""
	}
	return c.Request.URL.Path
}
