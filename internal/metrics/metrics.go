package metrics

import "github.com/prometheus/client_golang/prometheus"

var DueNotificationsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "due_notifications_total",
		Help: "Total number of due notifications picked up by the delivery scan",
	},
)

var DeliveryAttemptsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "delivery_attempts_total",
		Help: "Total number of per-recipient delivery attempts by outcome",
	},
	[]string{"outcome"},
)

var DeliverySendDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "delivery_send_duration_seconds",
		Help:    "Time taken to send a message via the WhatsApp provider",
		Buckets: prometheus.DefBuckets,
	},
)

var RecipientsExhaustedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "recipients_exhausted_total",
		Help: "Total number of recipients moved to maxtry after exhausting retries",
	},
)

var SchedulerTicksSkippedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "scheduler_ticks_skipped_total",
		Help: "Total number of scheduler ticks skipped because a scan was still running",
	},
)

func Init() {
	prometheus.MustRegister(DueNotificationsTotal)
	prometheus.MustRegister(DeliveryAttemptsTotal)
	prometheus.MustRegister(DeliverySendDuration)
	prometheus.MustRegister(RecipientsExhaustedTotal)
	prometheus.MustRegister(SchedulerTicksSkippedTotal)
}
