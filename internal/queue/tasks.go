package queue

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/shm-admin/backend/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCacheInvalidate 缓存失效任务
	TaskCacheInvalidate = constants.TaskCacheInvalidate
)

// ErrEmptyCacheKey 失效任务缺少 key
var ErrEmptyCacheKey = errors.New("cache invalidate payload has empty key")

// CacheInvalidatePayload 缓存失效任务载荷，Key 为带前缀的完整 key
type CacheInvalidatePayload struct {
	Key string `json:"key"`
}

// NewCacheInvalidateTask 创建缓存失效任务
func NewCacheInvalidateTask(payload CacheInvalidatePayload) (*asynq.Task, error) {
	payload.Key = strings.TrimSpace(payload.Key)
	if payload.Key == "" {
		return nil, ErrEmptyCacheKey
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCacheInvalidate, body), nil
}

// ParseCacheInvalidatePayload 解析缓存失效任务载荷
func ParseCacheInvalidatePayload(task *asynq.Task) (CacheInvalidatePayload, error) {
	var payload CacheInvalidatePayload
	if task == nil {
		return payload, ErrEmptyCacheKey
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, err
	}
	payload.Key = strings.TrimSpace(payload.Key)
	if payload.Key == "" {
		return payload, ErrEmptyCacheKey
	}
	return payload, nil
}
