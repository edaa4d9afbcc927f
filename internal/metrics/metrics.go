package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "structiv",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		},
		[]string{"route", "method", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "structiv",
			Name:      "http_request_duration_seconds",
			Help:      "Time spent serving HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	bookingEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "structiv",
			Name:      "booking_events_total",
			Help:      "Booking lifecycle events by type.",
		},
		[]string{"event"},
	)

	notificationsDelivered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "structiv",
			Name:      "notifications_total",
			Help:      "Notifications stored in inboxes by type.",
		},
		[]string{"type"},
	)

	wsClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "structiv",
			Name:      "ws_clients",
			Help:      "Connected notification websocket clients.",
		},
	)

	alerts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "structiv",
			Name:      "telegram_alerts_total",
			Help:      "Telegram admin alerts by result.",
		},
		[]string{"result"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, bookingEvents, notificationsDelivered, wsClients, alerts)
	})
}

// ObserveHTTP records one served request. route is the matched pattern, not the raw path.
func ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func IncBookingEvent(eventType string) {
	bookingEvents.WithLabelValues(eventType).Inc()
}

func IncNotification(notificationType string) {
	notificationsDelivered.WithLabelValues(notificationType).Inc()
}

func SetWSClients(n int) {
	wsClients.Set(float64(n))
}

// IncAlert counts a telegram alert outcome: sent, failed or dropped.
func IncAlert(result string) {
	alerts.WithLabelValues(result).Inc()
}
