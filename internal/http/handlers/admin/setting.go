package admin

import (
	"errors"
	"net/http"

	handlershared "github.com/shm-admin/backend/internal/http/handlers/shared"
	"github.com/shm-admin/backend/internal/http/response"
	"github.com/shm-admin/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// GetSetting 获取设置
func (h *Handler) GetSetting(c *gin.Context) {
	value, found, err := h.SettingService.GetByKey(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, response.MsgGetSettingFailed, err)
		return
	}
	response.JSON(c, response.SettingResult{Data: value, Found: found})
}

// UpdateSetting 写入设置，请求体为 {"value": ...}
func (h *Handler) UpdateSetting(c *gin.Context) {
	fields, err := handlershared.ReadObjectFields(c)
	if err != nil {
		respondBodyError(c, err)
		return
	}
	if err := h.SettingService.Update(c.Request.Context(), c.Param("key"), fields["value"]); err != nil {
		if errors.Is(err, service.ErrStoreUnavailable) {
			respondFailure(c, http.StatusInternalServerError, response.MsgDatabaseNotConnected, nil)
			return
		}
		respondFailure(c, http.StatusInternalServerError, response.MsgSaveSettingFailed, err)
		return
	}
	response.OK(c)
}
