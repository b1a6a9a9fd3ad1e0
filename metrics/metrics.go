package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// datasetLoads counts dataset loads by outcome
	datasetLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "familymap_dataset_loads_total",
		Help: "Total dataset loads by result",
	}, []string{"result"})

	// orphanEvents counts events dropped because their person is missing
	orphanEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "familymap_orphan_events_total",
		Help: "Events excluded at load time because their person does not resolve",
	})

	datasetSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "familymap_dataset_entities",
		Help:    "Entities per loaded dataset",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	}, []string{"kind"})

	searches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "familymap_searches_total",
		Help: "Total searches by result",
	}, []string{"result"})

	// jobDuration tracks compute pool job latency
	jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "familymap_compute_job_duration_seconds",
		Help:    "Compute job duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
	}, []string{"job"})

	queueRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "familymap_compute_queue_rejections_total",
		Help: "Jobs rejected because the compute queue was full or stopped",
	}, []string{"job"})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "familymap_active_sessions",
		Help: "Sessions currently held in memory",
	})
)

// RecordLoad records a finished dataset load
func RecordLoad(err error, persons, events, orphans int) {
	if err != nil {
		datasetLoads.WithLabelValues("error").Inc()
		return
	}
	datasetLoads.WithLabelValues("ok").Inc()
	orphanEvents.Add(float64(orphans))
	datasetSize.WithLabelValues("person").Observe(float64(persons))
	datasetSize.WithLabelValues("event").Observe(float64(events))
}

func SearchCompleted() { searches.WithLabelValues("completed").Inc() }

func SearchCancelled() { searches.WithLabelValues("cancelled").Inc() }

func ObserveJob(job string, started time.Time) {
	jobDuration.WithLabelValues(job).Observe(time.Since(started).Seconds())
}

func QueueRejected(job string) { queueRejections.WithLabelValues(job).Inc() }

func SetActiveSessions(n int) { activeSessions.Set(float64(n)) }
