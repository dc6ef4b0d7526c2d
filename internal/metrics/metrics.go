package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SectionsGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sections_generated_total",
			Help: "Total newsletter sections generated",
		},
	)

	SectionFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "section_failures_total",
			Help: "Total generation jobs that failed permanently",
		},
	)

	JobRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "job_retries_total",
			Help: "Total generation jobs returned to the queue for retry",
		},
	)

	ImagesGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "images_generated_total",
			Help: "Total section images generated",
		},
	)

	ImageFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "image_failures_total",
			Help: "Total section image generations that failed (non-blocking)",
		},
	)

	EmailsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Total newsletter emails sent",
		},
	)

	EmailFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "email_failures_total",
			Help: "Total failed newsletter emails",
		},
	)
)

func Init() {
	prometheus.MustRegister(
		SectionsGenerated,
		SectionFailures,
		JobRetries,
		ImagesGenerated,
		ImageFailures,
		EmailsSent,
		EmailFailures,
	)
}
