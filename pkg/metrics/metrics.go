// Package metrics содержит Prometheus-коллекторы сервиса
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор коллекторов сервиса записи
type Metrics struct {
	service string

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueriesTotal  *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec
	dbPoolOpen      prometheus.Gauge
	dbPoolInUse     prometheus.Gauge
	dbPoolIdle      prometheus.Gauge

	appointmentsCreatedTotal prometheus.Counter
	transitionsTotal         *prometheus.CounterVec
	reservationsTotal        *prometheus.CounterVec
	remindersFiredTotal      *prometheus.CounterVec
}

// New создает и регистрирует коллекторы в default registry
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		service: serviceName,

		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		dbQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"operation"}),

		dbPoolOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_open_connections",
			Help:        "Number of open database connections",
			ConstLabels: constLabels,
		}),

		dbPoolInUse: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_in_use_connections",
			Help:        "Number of database connections currently in use",
			ConstLabels: constLabels,
		}),

		dbPoolIdle: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_idle_connections",
			Help:        "Number of idle database connections",
			ConstLabels: constLabels,
		}),

		appointmentsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "appointments_created_total",
			Help:        "Total number of appointments created",
			ConstLabels: constLabels,
		}),

		transitionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointment_transitions_total",
			Help:        "Total number of appointment status transitions",
			ConstLabels: constLabels,
		}, []string{"to_status"}),

		reservationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_reservations_total",
			Help:        "Total number of slot reservation attempts",
			ConstLabels: constLabels,
		}, []string{"outcome"}),

		remindersFiredTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "reminders_fired_total",
			Help:        "Total number of reminders fired",
			ConstLabels: constLabels,
		}, []string{"lead"}),
	}
}

// ObserveHTTPRequest фиксирует завершенный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation, status string, duration time.Duration) {
	m.dbQueriesTotal.WithLabelValues(operation, status).Inc()
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetDBPoolStats обновляет gauge-метрики connection pool
func (m *Metrics) SetDBPoolStats(open, inUse, idle int) {
	m.dbPoolOpen.Set(float64(open))
	m.dbPoolInUse.Set(float64(inUse))
	m.dbPoolIdle.Set(float64(idle))
}

// IncAppointmentCreated фиксирует созданную запись
func (m *Metrics) IncAppointmentCreated() {
	m.appointmentsCreatedTotal.Inc()
}

// IncTransition фиксирует переход статуса записи
func (m *Metrics) IncTransition(toStatus string) {
	m.transitionsTotal.WithLabelValues(toStatus).Inc()
}

// IncReservation фиксирует попытку резервирования слота (outcome: won/lost)
func (m *Metrics) IncReservation(outcome string) {
	m.reservationsTotal.WithLabelValues(outcome).Inc()
}

// IncReminderFired фиксирует отправленное напоминание (lead: 24h/1h)
func (m *Metrics) IncReminderFired(lead string) {
	m.remindersFiredTotal.WithLabelValues(lead).Inc()
}
