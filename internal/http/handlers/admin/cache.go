package admin

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	handlershared "github.com/shm-admin/backend/internal/http/handlers/shared"
	"github.com/shm-admin/backend/internal/http/response"
	"github.com/shm-admin/backend/internal/models"
	"github.com/shm-admin/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// GetCache 读取缓存
func (h *Handler) GetCache(c *gin.Context) {
	value, cached := h.CacheService.Get(c.Request.Context(), c.Param("key"))
	response.JSON(c, response.CacheResult{Data: value, Cached: cached})
}

// SetCache 写入缓存，请求体为 {"data": ..., "ttl": 秒}
func (h *Handler) SetCache(c *gin.Context) {
	fields, err := handlershared.ReadObjectFields(c)
	if err != nil {
		respondBodyError(c, err)
		return
	}
	ttl, err := parseTTL(fields["ttl"])
	if err != nil {
		respondFailure(c, http.StatusBadRequest, response.MsgInvalidTTL, nil)
		return
	}

	input := service.CacheSetInput{
		Key:        c.Param("key"),
		Data:       fields["data"],
		TTLSeconds: ttl,
	}
	if err := h.CacheService.Set(c.Request.Context(), input); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTTL):
			respondFailure(c, http.StatusBadRequest, response.MsgInvalidTTL, nil)
		case errors.Is(err, service.ErrCacheUnavailable):
			// 前端依赖 200 + success:false 判断 Redis 未连接
			respondFailure(c, http.StatusOK, response.MsgRedisNotConnected, nil)
		default:
			respondFailure(c, http.StatusInternalServerError, response.MsgSetCacheFailed, err)
		}
		return
	}
	response.OK(c)
}

// DeleteCache 删除缓存
func (h *Handler) DeleteCache(c *gin.Context) {
	if err := h.CacheService.Delete(c.Request.Context(), c.Param("key")); err != nil {
		respondFailure(c, http.StatusInternalServerError, response.MsgDeleteCacheFailed, err)
		return
	}
	response.OK(c)
}

// ClearCache 清空缓存命名空间
func (h *Handler) ClearCache(c *gin.Context) {
	deleted, err := h.CacheService.Clear(c.Request.Context())
	if err != nil {
		respondFailure(c, http.StatusInternalServerError, response.MsgClearCacheFailed, err)
		return
	}
	requestLog(c).Infow("cache_clear_requested", "deleted", deleted)
	response.Cleared(c, deleted)
}

// parseTTL 缺省或 null 返回 nil，其余必须是可换算为 time.Duration 的正整数
// 300.0、3e2 这类整数值的写法同样接受
func parseTTL(raw models.Document) (*int, error) {
	if raw.IsNull() {
		return nil, nil
	}
	if raw.Kind() != models.DocumentNumber {
		return nil, service.ErrInvalidTTL
	}
	value, err := strconv.ParseFloat(raw.String(), 64)
	if err != nil || value != math.Trunc(value) || value <= 0 || value > float64(service.MaxTTLSeconds) {
		return nil, service.ErrInvalidTTL
	}
	seconds := int(value)
	return &seconds, nil
}
