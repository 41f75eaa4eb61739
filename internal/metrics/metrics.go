// Package metrics agrupa las métricas Prometheus del servicio: HTTP, DBs de
// tenants (bus) y migraciones. Cada Metrics usa su propio registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dropDatabas3/adminhub/internal/store"
)

const namespace = "adminhub"

// Metrics implementa store.Observer además de instrumentar HTTP.
type Metrics struct {
	reg *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInflight        prometheus.Gauge

	tenantDBOpenedTotal   prometheus.Counter
	tenantDBReleasedTotal *prometheus.CounterVec

	tenantMigrationsTotal   *prometheus.CounterVec
	tenantMigrationDuration prometheus.Histogram
}

// New crea las métricas sobre un registry nuevo que incluye los collectors
// de proceso y runtime de Go.
func New() (*Metrics, error) {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Número total de requests procesadas",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de los requests HTTP",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_inflight_requests",
			Help:      "Requests en vuelo",
		}),
		tenantDBOpenedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tenant_db_opened_total",
			Help:      "DBs de tenants abiertas por el bus",
		}),
		tenantDBReleasedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tenant_db_released_total",
			Help:      "DBs de tenants cerradas por el bus, por motivo",
		}, []string{"reason"}), // idle|removed|closed
		tenantMigrationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tenant_migrations_total",
			Help:      "Total de migraciones de tenant por resultado",
		}, []string{"result"}), // applied|failed
		tenantMigrationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tenant_migration_duration_seconds",
			Help:      "Duración de migraciones de tenant",
			Buckets:   []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
		}),
	}

	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.httpInflight,
		m.tenantDBOpenedTotal,
		m.tenantDBReleasedTotal,
		m.tenantMigrationsTotal,
		m.tenantMigrationDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Registry expone el registry (tests, collectors adicionales).
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler sirve /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// InflightInc / InflightDec ajustan el gauge de requests en vuelo.
func (m *Metrics) InflightInc() { m.httpInflight.Inc() }
func (m *Metrics) InflightDec() { m.httpInflight.Dec() }

// ObserveRequest registra un request terminado. route es el patrón del router
// (ej: /api/admin/staff/{id}), nunca el path crudo.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) TenantDBOpened(string) { m.tenantDBOpenedTotal.Inc() }

func (m *Metrics) TenantDBReleased(_ string, reason string) {
	m.tenantDBReleasedTotal.WithLabelValues(reason).Inc()
}

// RecordTenantMigration registra el resultado de una migración de tenant.
func (m *Metrics) RecordTenantMigration(err error, d time.Duration) {
	result := "applied"
	if err != nil {
		result = "failed"
	}
	m.tenantMigrationsTotal.WithLabelValues(result).Inc()
	m.tenantMigrationDuration.Observe(d.Seconds())
}

// StatsFunc devuelve el estado actual del acceso a datos.
type StatsFunc func() store.Stats

// RegisterStoreCollector expone gauges de la DB principal y del bus de tenants.
func (m *Metrics) RegisterStoreCollector(stats StatsFunc) error {
	return m.reg.Register(newStoreCollector(stats))
}

// storeCollector lee store.Stats en cada scrape.
type storeCollector struct {
	stats StatsFunc

	mainOpenDesc     *prometheus.Desc
	mainInUseDesc    *prometheus.Desc
	mainIdleDesc     *prometheus.Desc
	tenantRegistered *prometheus.Desc
	tenantLive       *prometheus.Desc
}

func newStoreCollector(stats StatsFunc) *storeCollector {
	return &storeCollector{
		stats:            stats,
		mainOpenDesc:     prometheus.NewDesc(namespace+"_main_db_open_connections", "Conexiones abiertas de la DB principal", nil, nil),
		mainInUseDesc:    prometheus.NewDesc(namespace+"_main_db_in_use", "Conexiones en uso de la DB principal", nil, nil),
		mainIdleDesc:     prometheus.NewDesc(namespace+"_main_db_idle", "Conexiones inactivas de la DB principal", nil, nil),
		tenantRegistered: prometheus.NewDesc(namespace+"_tenant_db_registered", "DBs de tenants registradas en el bus", nil, nil),
		tenantLive:       prometheus.NewDesc(namespace+"_tenant_db_live", "DBs de tenants abiertas en el bus", nil, nil),
	}
}

func (c *storeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.mainOpenDesc
	ch <- c.mainInUseDesc
	ch <- c.mainIdleDesc
	ch <- c.tenantRegistered
	ch <- c.tenantLive
}

func (c *storeCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	ch <- prometheus.MustNewConstMetric(c.mainOpenDesc, prometheus.GaugeValue, float64(s.MainOpenConnections))
	ch <- prometheus.MustNewConstMetric(c.mainInUseDesc, prometheus.GaugeValue, float64(s.MainInUse))
	ch <- prometheus.MustNewConstMetric(c.mainIdleDesc, prometheus.GaugeValue, float64(s.MainIdle))
	ch <- prometheus.MustNewConstMetric(c.tenantRegistered, prometheus.GaugeValue, float64(s.TenantDBs.Registered))
	ch <- prometheus.MustNewConstMetric(c.tenantLive, prometheus.GaugeValue, float64(s.TenantDBs.Live))
}

var _ store.Observer = (*Metrics)(nil)
