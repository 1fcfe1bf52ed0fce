package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Result 写操作响应结构
type Result struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ClearResult 清空缓存响应结构
type ClearResult struct {
	Success bool  `json:"success"`
	Deleted int64 `json:"deleted"`
}

// SettingResult 读取设置响应结构
type SettingResult struct {
	Data  interface{} `json:"data"`
	Found bool        `json:"found"`
}

// CacheResult 读取缓存响应结构
type CacheResult struct {
	Data   interface{} `json:"data"`
	Cached bool        `json:"cached"`
}

// ErrorBody 仅包含错误消息的响应结构
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON 原样输出
func JSON(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Success 成功响应（带数据）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Result{Success: true, Data: data})
}

// OK 成功响应（无数据）
func OK(c *gin.Context) {
	c.JSON(http.StatusOK, Result{Success: true})
}

// Cleared 清空缓存成功响应
func Cleared(c *gin.Context, deleted int64) {
	c.JSON(http.StatusOK, ClearResult{Success: true, Deleted: deleted})
}

// Failure 失败响应 {success:false,error}
func Failure(c *gin.Context, status int, msg string) {
	c.JSON(status, Result{Success: false, Error: msg})
}

// Error 仅错误消息响应 {error}
func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, ErrorBody{Error: msg})
}

// AbortFailure 中断后续处理并返回失败响应
func AbortFailure(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Result{Success: false, Error: msg})
}
