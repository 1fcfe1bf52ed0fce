package admin

import (
	handlershared "github.com/shm-admin/backend/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondFailure(c *gin.Context, status int, msg string, err error) {
	handlershared.RespondFailure(c, status, msg, err)
}

func respondError(c *gin.Context, status int, msg string, err error) {
	handlershared.RespondError(c, status, msg, err)
}

func respondBodyError(c *gin.Context, err error) {
	status, msg := handlershared.BodyErrorStatus(err)
	handlershared.RespondFailure(c, status, msg, nil)
}
