package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector 应用指标
type Collector struct {
	// API
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec

	// 导入
	ImportsTotal        *prometheus.CounterVec
	ImportDuration      *prometheus.HistogramVec
	ImportedDivesTotal  *prometheus.CounterVec
	SkippedRecordsTotal *prometheus.CounterVec
	DiscardedDivesTotal prometheus.Counter
	ImportFileSizeBytes prometheus.Histogram

	// 数据库
	DBQueryDuration *prometheus.HistogramVec
	DBErrorsTotal   *prometheus.CounterVec

	// WebSocket
	ActiveConnections prometheus.Gauge
}

// NewCollector 创建指标收集器，reg 为 nil 时使用默认注册表
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		APIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of API requests by endpoint, method, and status",
			},
			[]string{"endpoint", "method", "status"},
		),

		APIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0},
			},
			[]string{"endpoint"},
		),

		ImportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "imports_total",
				Help:      "Total number of dive log imports by format and result",
			},
			[]string{"format", "result"},
		),

		ImportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "import_duration_seconds",
				Help:      "Duration of dive log imports in seconds",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"format"},
		),

		ImportedDivesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "imported_dives_total",
				Help:      "Total number of dives saved by imports",
			},
			[]string{"format"},
		),

		SkippedRecordsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "import_skipped_records_total",
				Help:      "Total number of records skipped because they could not be parsed",
			},
			[]string{"format"},
		),

		DiscardedDivesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "import_discarded_dives_total",
				Help:      "Total number of empty UDDF dives dropped during import",
			},
		),

		ImportFileSizeBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "import_file_size_bytes",
				Help:      "Size of uploaded dive log files",
				Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
			},
		),

		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_query_duration_seconds",
				Help:      "Database query duration in seconds by query type",
				Buckets:   []float64{0.001, 0.002, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5},
			},
			[]string{"query_type"},
		),

		DBErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_errors_total",
				Help:      "Total number of database errors by query type",
			},
			[]string{"query_type"},
		),

		ActiveConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "websocket_connections",
				Help:      "Number of connected websocket clients",
			},
		),
	}
}

// Timer 计时器
type Timer struct {
	start    time.Time
	observer prometheus.Observer
}

// NewTimer 开始计时
func (c *Collector) NewTimer(observer prometheus.Observer) *Timer {
	return &Timer{
		start:    time.Now(),
		observer: observer,
	}
}

// ObserveDuration 记录耗时
func (t *Timer) ObserveDuration() time.Duration {
	duration := time.Since(t.start)
	if t.observer != nil {
		t.observer.Observe(duration.Seconds())
	}
	return duration
}

// RecordAPIRequest 记录一次 API 请求
func (c *Collector) RecordAPIRequest(endpoint, method string, status int, duration time.Duration) {
	c.APIRequestsTotal.WithLabelValues(endpoint, method, strconv.Itoa(status)).Inc()
	c.APIRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordImport 记录一次导入结果
func (c *Collector) RecordImport(format, result string, saved, skipped, discarded int) {
	c.ImportsTotal.WithLabelValues(format, result).Inc()
	c.ImportedDivesTotal.WithLabelValues(format).Add(float64(saved))
	c.SkippedRecordsTotal.WithLabelValues(format).Add(float64(skipped))
	c.DiscardedDivesTotal.Add(float64(discarded))
}

// ObserveQuery 记录数据库查询耗时，失败时计数
func (c *Collector) ObserveQuery(queryType string, start time.Time, err error) {
	c.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(start).Seconds())
	if err != nil {
		c.DBErrorsTotal.WithLabelValues(queryType).Inc()
	}
}
