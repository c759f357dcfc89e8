// Package metrics Prometheus 指标
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "radiodex_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "radiodex_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "radiodex_http_active_requests",
			Help: "Number of in-flight HTTP requests",
		},
	)

	// 相似电台缓存
	SimilarCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "radiodex_similar_cache_hits_total",
			Help: "Total number of similar-stations cache hits",
		},
	)

	SimilarCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "radiodex_similar_cache_misses_total",
			Help: "Total number of similar-stations cache misses",
		},
	)

	// 限流
	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "radiodex_rate_limit_rejections_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"route"},
	)

	// 后台任务
	HistoryPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "radiodex_history_pruned_total",
			Help: "Total number of play history rows removed by retention",
		},
	)
)

// RecordAPIRequest 记录一次请求，route 为路由模板（/api/stations/:id），避免高基数
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest 进出请求时调用
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordSimilarCache 记录相似电台缓存命中情况
func RecordSimilarCache(hit bool) {
	if hit {
		SimilarCacheHits.Inc()
	} else {
		SimilarCacheMisses.Inc()
	}
}
