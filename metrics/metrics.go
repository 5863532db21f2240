package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry 应用自己的指标注册表
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nnact",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nnact",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nnact",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms 到约 5s
		},
		[]string{"method", "path"},
	)

	serviceNumbersIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nnact",
			Name:      "service_numbers_issued_total",
			Help:      "Total number of service numbers assigned to new service records.",
		},
	)

	serviceNumberConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nnact",
			Name:      "service_number_conflicts_total",
			Help:      "Total number of service number collisions that forced a retry.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		serviceNumbersIssued,
		serviceNumberConflicts,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler 暴露 /metrics
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware 记录请求数、耗时和并发数，跳过 /metrics 本身
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		// 使用路由模板避免 :id 造成标签基数爆炸
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := strings.ToUpper(c.Request.Method)
		httpRequests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordServiceNumberIssued 服务单号写入成功
func RecordServiceNumberIssued() {
	serviceNumbersIssued.Inc()
}

// RecordServiceNumberConflict 服务单号冲突，需要重试
func RecordServiceNumberConflict() {
	serviceNumberConflicts.Inc()
}
