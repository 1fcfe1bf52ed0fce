package service

import "errors"

var (
	// ErrStoreUnavailable 关系库未连接
	ErrStoreUnavailable = errors.New("database not connected")
	// ErrCacheUnavailable Redis 未连接
	ErrCacheUnavailable = errors.New("redis not connected")
	// ErrInvalidBranding 品牌配置必须是 JSON 对象
	ErrInvalidBranding = errors.New("branding must be a json object")
	// ErrInvalidTTL TTL 必须为正整数秒
	ErrInvalidTTL = errors.New("ttl must be a positive number of seconds")
)
