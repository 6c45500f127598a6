package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000},
		},
		[]string{"method", "endpoint"},
	)

	// Business metrics
	inquiriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inquiries_total",
			Help: "Total number of inquiry submissions",
		},
		[]string{"kind"}, // contact, service
	)

	inquiriesSpamFlaggedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inquiries_spam_flagged_total",
			Help: "Total number of inquiries flagged as spam by scoring",
		},
		[]string{"kind"},
	)

	inquiryNotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inquiry_notifications_total",
			Help: "Total number of inquiry notification email attempts",
		},
		[]string{"recipient", "status"}, // admin/client, sent/failed
	)

	commentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blog_comments_total",
			Help: "Total number of blog comment submissions",
		},
	)

	authAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"status"}, // success, failure
	)

	navCacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nav_cache_lookups_total",
			Help: "Total number of navigation cache lookups",
		},
		[]string{"result"}, // hit, miss
	)
)

// PrometheusMiddleware creates a middleware that records Prometheus metrics
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip metrics endpoint itself
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, statusCode).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path, statusCode).Observe(duration)
		httpResponseSize.WithLabelValues(r.Method, r.URL.Path).Observe(float64(wrapped.size))
	})
}

// responseWriter wraps http.ResponseWriter to capture status code and response size
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

// RecordInquiry records a persisted inquiry submission
func RecordInquiry(kind string) {
	inquiriesTotal.WithLabelValues(kind).Inc()
}

// RecordSpamFlagged records an inquiry flagged as spam by scoring
func RecordSpamFlagged(kind string) {
	inquiriesSpamFlaggedTotal.WithLabelValues(kind).Inc()
}

// RecordNotification records a notification email attempt
func RecordNotification(recipient string, success bool) {
	status := "failed"
	if success {
		status = "sent"
	}
	inquiryNotificationsTotal.WithLabelValues(recipient, status).Inc()
}

// RecordCommentSubmission records a new blog comment
func RecordCommentSubmission() {
	commentsTotal.Inc()
}

// RecordAuthAttempt records an authentication attempt
func RecordAuthAttempt(success bool) {
	status := "failure"
	if success {
		status = "success"
	}
	authAttemptsTotal.WithLabelValues(status).Inc()
}

// RecordNavCacheLookup records a navigation cache hit or miss
func RecordNavCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	navCacheLookupsTotal.WithLabelValues(result).Inc()
}
