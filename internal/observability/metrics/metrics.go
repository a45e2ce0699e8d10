// Package metrics expone los contadores Prometheus de la internación.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los instrumentos de la aplicación. Cada instancia
// lleva su propio registry para que los tests puedan crear varias sin
// chocar con el registro global.
type Metrics struct {
	registry *prometheus.Registry

	AdmissionsCreated    prometheus.Counter
	PrescriptionsCreated prometheus.Counter
	ExecutionsCompleted  prometheus.Counter
	ExecutionsPurged     prometheus.Counter
	BoxesOccupied        prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		AdmissionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "internacao_admissions_created_total",
			Help: "Registros de internação criados",
		}),
		PrescriptionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "internacao_prescriptions_created_total",
			Help: "Prescrições registradas",
		}),
		ExecutionsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "internacao_executions_completed_total",
			Help: "Execuções concluídas",
		}),
		ExecutionsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "internacao_executions_purged_total",
			Help: "Execuções pendentes removidas por alta ou interrupção",
		}),
		BoxesOccupied: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "internacao_boxes_occupied",
			Help: "Boxes em uso no momento",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.AdmissionsCreated,
		m.PrescriptionsCreated,
		m.ExecutionsCompleted,
		m.ExecutionsPurged,
		m.BoxesOccupied,
	)

	return m
}

// Handler sirve el registry de esta instancia.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Los incrementos vía método toleran instancia nula: la capa de dominio
// no necesita saber si la observabilidad está armada.

func (m *Metrics) AdmissionCreated() {
	if m != nil {
		m.AdmissionsCreated.Inc()
	}
}

func (m *Metrics) PrescriptionCreated() {
	if m != nil {
		m.PrescriptionsCreated.Inc()
	}
}

func (m *Metrics) ExecutionCompleted() {
	if m != nil {
		m.ExecutionsCompleted.Inc()
	}
}

func (m *Metrics) ExecutionsRemoved(count int) {
	if m != nil && count > 0 {
		m.ExecutionsPurged.Add(float64(count))
	}
}

func (m *Metrics) BoxOccupancy(delta float64) {
	if m != nil {
		m.BoxesOccupied.Add(delta)
	}
}
