package admin

import (
	"errors"
	"net/http"

	handlershared "github.com/shm-admin/backend/internal/http/handlers/shared"
	"github.com/shm-admin/backend/internal/http/response"
	"github.com/shm-admin/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// GetBranding 获取品牌配置，任何后端故障时返回默认值
func (h *Handler) GetBranding(c *gin.Context) {
	response.JSON(c, h.BrandingService.Get(c.Request.Context()))
}

// SaveBranding 保存品牌配置（以默认值为底合并）
func (h *Handler) SaveBranding(c *gin.Context) {
	partial, err := handlershared.ReadDocument(c)
	if err != nil {
		respondBodyError(c, err)
		return
	}
	branding, err := h.BrandingService.Set(c.Request.Context(), partial)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidBranding):
			respondFailure(c, http.StatusBadRequest, response.MsgInvalidBranding, nil)
		case errors.Is(err, service.ErrStoreUnavailable):
			respondFailure(c, http.StatusInternalServerError, response.MsgDatabaseNotConnected, nil)
		default:
			respondFailure(c, http.StatusInternalServerError, response.MsgSaveBrandingFailed, err)
		}
		return
	}
	requestLog(c).Infow("branding_saved")
	response.Success(c, branding)
}

// ResetBranding 恢复默认品牌配置
func (h *Handler) ResetBranding(c *gin.Context) {
	branding, err := h.BrandingService.Reset(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrStoreUnavailable) {
			respondFailure(c, http.StatusInternalServerError, response.MsgDatabaseNotConnected, nil)
			return
		}
		respondFailure(c, http.StatusInternalServerError, response.MsgResetBrandingFailed, err)
		return
	}
	requestLog(c).Infow("branding_reset")
	response.Success(c, branding)
}
