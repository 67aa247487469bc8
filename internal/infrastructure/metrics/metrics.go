// Package metrics colectores Prometheus de la API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "dulceria"

// Metrics agrupa los colectores; cada instancia usa su propio registro.
type Metrics struct {
	Registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	logins       *prometheus.CounterVec
	lockouts     prometheus.Counter
	exports      *prometheus.CounterVec
	movements    *prometheus.CounterVec
	cleanedToken *prometheus.CounterVec
}

// New crea y registra los colectores (incluye los de proceso y runtime de Go).
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "http", Name: "inflight_requests",
			Help: "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms a ~5s
		}, []string{"method", "route"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "auth", Name: "logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		lockouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "auth", Name: "lockouts_total",
			Help: "Accounts locked after too many failed logins.",
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "export", Name: "files_total",
			Help: "Generated export files by entity and format.",
		}, []string{"entity", "format"}),
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "inventory", Name: "movements_total",
			Help: "Registered inventory movements by type.",
		}, []string{"type"}),
		cleanedToken: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "jobs", Name: "reset_tokens_deleted_total",
			Help: "Password reset tokens deleted by the cleanup job.",
		}, []string{"reason"}),
	}
	m.Registry.MustRegister(
		m.httpInFlight, m.httpRequests, m.httpDuration,
		m.logins, m.lockouts, m.exports, m.movements, m.cleanedToken,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

// RequestStarted suma una petición en curso; llamar a la función devuelta al terminar.
func (m *Metrics) RequestStarted() func() {
	if m == nil {
		return func() {}
	}
	m.httpInFlight.Inc()
	return m.httpInFlight.Dec
}

// ObserveRequest registra una petición terminada. route es el patrón de la ruta, no la URL.
func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(seconds)
}

// Login resultados: ok, invalid, locked, inactive.
func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}

func (m *Metrics) Lockout() {
	if m == nil {
		return
	}
	m.lockouts.Inc()
}

func (m *Metrics) Export(entity, format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(entity, format).Inc()
}

func (m *Metrics) Movement(movementType string) {
	if m == nil {
		return
	}
	m.movements.WithLabelValues(movementType).Inc()
}

// TokensCleaned acumula lo borrado por la limpieza programada.
func (m *Metrics) TokensCleaned(expired, used int64) {
	if m == nil {
		return
	}
	m.cleanedToken.WithLabelValues("expired").Add(float64(expired))
	m.cleanedToken.WithLabelValues("used").Add(float64(used))
}
