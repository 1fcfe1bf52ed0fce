package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap/zapcore"
)

const namespace = "shm_admin"

// Metrics 进程内指标集合，使用独立 registry 便于测试
type Metrics struct {
	registry      *prometheus.Registry
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	cacheLookups  *prometheus.CounterVec
	invalidations *prometheus.CounterVec
	logStatements *prometheus.CounterVec
}

// New 创建并注册全部指标
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests, by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups, by area and result.",
		}, []string{"area", "result"}),
		invalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_invalidations_total",
			Help:      "Branding cache invalidations, by outcome.",
		}, []string{"outcome"}),
		logStatements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "log_statements_total",
			Help:      "Number of log statements, differentiated by log level.",
		}, []string{"level"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.cacheLookups,
		m.invalidations,
		m.logStatements,
	)
	return m
}

// Registry 返回底层 registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler 导出 Prometheus 文本格式
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTPRequest 记录一次 HTTP 请求
func (m *Metrics) ObserveHTTPRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObserveCacheLookup 记录一次缓存读取结果
func (m *Metrics) ObserveCacheLookup(area, result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(area, result).Inc()
}

// ObserveInvalidation 记录品牌缓存失效结果（deleted / enqueued / skipped / failed）
func (m *Metrics) ObserveInvalidation(outcome string) {
	if m == nil {
		return
	}
	m.invalidations.WithLabelValues(outcome).Inc()
}

// RegisterBackendProbe 以 gauge 导出后端连通性，采集时读取 probe
func (m *Metrics) RegisterBackendProbe(backend string, probe func() bool) error {
	if m == nil || probe == nil {
		return nil
	}
	gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "backend_up",
		Help:        "Whether a backing store is reachable (1) or not (0).",
		ConstLabels: prometheus.Labels{"backend": backend},
	}, func() float64 {
		if probe() {
			return 1
		}
		return 0
	})
	return m.registry.Register(gauge)
}

// LogHook 返回按日志级别计数的 zap 钩子
func (m *Metrics) LogHook() func(zapcore.Entry) error {
	return func(entry zapcore.Entry) error {
		if m != nil {
			m.logStatements.WithLabelValues(entry.Level.String()).Inc()
		}
		return nil
	}
}
