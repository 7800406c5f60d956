package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 请求指标
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// 业务指标
	FriendRequestOps *prometheus.CounterVec // operation: send/respond, result: ok/业务错误码
	AccountEvents    *prometheus.CounterVec // event: signup/activate/login/token
	MailSent         *prometheus.CounterVec // kind: activation/welcome, result: ok/error

	DBOperationDuration *prometheus.HistogramVec

	initOnce sync.Once
)

// Init 注册全部指标，只在进程内执行一次；未调用时各 Record 函数为空操作
func Init(prefix string) {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		)

		FriendRequestOps = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_friend_request_operations_total",
				Help: "Total number of friend request operations by result",
			},
			[]string{"operation", "result"},
		)

		AccountEvents = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_account_events_total",
				Help: "Total number of account lifecycle events by result",
			},
			[]string{"event", "result"},
		)

		MailSent = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_mail_sent_total",
				Help: "Total number of outbound mails by kind and result",
			},
			[]string{"kind", "result"},
		)

		DBOperationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_db_operation_duration_seconds",
				Help:    "Duration of database operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		)
	})
}

// ObserveHTTP 记录一次 HTTP 请求
func ObserveHTTP(method, path, status string, cost time.Duration) {
	if HTTPRequestsTotal == nil {
		return
	}
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(cost.Seconds())
}

// RecordFriendRequest 记录好友申请操作结果
func RecordFriendRequest(operation, result string) {
	if FriendRequestOps == nil {
		return
	}
	FriendRequestOps.WithLabelValues(operation, result).Inc()
}

// RecordAccountEvent 记录账号事件
func RecordAccountEvent(event, result string) {
	if AccountEvents == nil {
		return
	}
	AccountEvents.WithLabelValues(event, result).Inc()
}

// RecordMail 记录发信结果
func RecordMail(kind string, err error) {
	if MailSent == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	MailSent.WithLabelValues(kind, result).Inc()
}

// TrackDB 返回记录数据库操作耗时的函数，用法：defer metrics.TrackDB("user.search")()
func TrackDB(operation string) func() {
	start := time.Now()
	return func() {
		if DBOperationDuration == nil {
			return
		}
		DBOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
