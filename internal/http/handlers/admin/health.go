package admin

import (
	"github.com/shm-admin/backend/internal/http/response"

	"github.com/gin-gonic/gin"
)

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	response.JSON(c, h.HealthService.Check())
}
