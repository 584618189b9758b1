package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Escalation-workflow Prometheus metrics. Standalone package to avoid import
// cycles between the scheduler and HTTP packages.

var (
	SweepDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "haven_sweep_duration_seconds",
		Help:    "Duración de un barrido completo de escalación",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})

	SweepUsersProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "haven_sweep_users_processed_total",
		Help: "Usuarios procesados por el scheduler",
	})

	SweepUserFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "haven_sweep_user_failures_total",
		Help: "Usuarios cuyo procesamiento falló (aislado, no aborta el barrido)",
	})

	EmailsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "haven_emails_sent_total",
		Help: "Emails despachados por tipo",
	}, []string{"kind"})

	EmailSendFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "haven_email_send_failures_total",
		Help: "Fallas de envío de email",
	})

	DisclosuresTriggered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "haven_disclosures_triggered_total",
		Help: "Ejecuciones del dead man's switch",
	})
)

// Register registers the escalation metrics on the given registry (or default if nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	collectors := []prometheus.Collector{
		SweepDuration,
		SweepUsersProcessed,
		SweepUserFailures,
		EmailsSent,
		EmailSendFailures,
		DisclosuresTriggered,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
