package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// GenerationCounter 结构化生成调用次数，result 为 success 或 error
	GenerationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "structured_generation_total",
			Help: "Total number of structured generation calls",
		},
		[]string{"schema", "result"},
	)

	GenerationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "structured_generation_duration_seconds",
			Help:    "Duration of structured generation calls",
			Buckets: []float64{1, 5, 10, 20, 40, 80, 120},
		},
		[]string{"schema"},
	)

	PersistenceSkips = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadmap_persistence_skips_total",
			Help: "Nested roadmap persistence steps that failed and were skipped",
		},
		[]string{"step"},
	)

	initOnce sync.Once
)

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(GenerationCounter)
		prometheus.MustRegister(GenerationDuration)
		prometheus.MustRegister(PersistenceSkips)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

// ObserveGeneration 记录一次生成调用
func ObserveGeneration(schema string, start time.Time, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	GenerationCounter.WithLabelValues(schema, result).Inc()
	GenerationDuration.WithLabelValues(schema).Observe(time.Since(start).Seconds())
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
