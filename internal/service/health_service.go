package service

import "time"

const healthTimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// HealthStatus 健康检查结果
type HealthStatus struct {
	Status    string `json:"status"`
	MySQL     bool   `json:"mysql"`
	Redis     bool   `json:"redis"`
	Timestamp string `json:"timestamp"`
}

// HealthService 汇报后端连通性
type HealthService struct {
	db    ConnectivityProbe
	cache ConnectivityProbe
	now   func() time.Time
}

// NewHealthService 创建健康检查服务
func NewHealthService(db, cache ConnectivityProbe) *HealthService {
	return &HealthService{db: db, cache: cache, now: time.Now}
}

// Check 读取当前连通性标记，不主动探测
func (s *HealthService) Check() HealthStatus {
	return HealthStatus{
		Status:    "ok",
		MySQL:     s.db != nil && s.db.Connected(),
		Redis:     s.cache != nil && s.cache.Connected(),
		Timestamp: s.now().UTC().Format(healthTimestampLayout),
	}
}
