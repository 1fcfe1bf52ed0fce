package admin

import "github.com/shm-admin/backend/internal/provider"

// Handler 管理端接口处理器入口
// 说明：接口与原管理端前端约定保持一致，不做鉴权。
type Handler struct {
	*provider.Container
}

// New 创建管理端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
