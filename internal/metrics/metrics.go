package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"teamup/internal/models"
	"teamup/internal/wordfilter"
)

const collectTimeout = 5 * time.Second

var (
	eventsDesc = prometheus.NewDesc(
		"teamup_events",
		"Number of events by status",
		[]string{"status"},
		nil,
	)

	contentChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teamup_content_checks_total",
			Help: "Content filter classifications of event names and descriptions",
		},
		[]string{"outcome"},
	)
)

// StatusCounter reports how many events are in each status.
type StatusCounter interface {
	CountEventsByStatus(ctx context.Context) ([]models.StatusCount, error)
}

// EventCollector is a custom Prometheus collector that reads event counts
// from the database on each scrape.
type EventCollector struct {
	db  StatusCounter
	log *zap.Logger
}

// NewEventCollector creates a collector over db.
func NewEventCollector(db StatusCounter, logger *zap.Logger) *EventCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventCollector{db: db, log: logger}
}

// Describe sends the metric descriptor to the channel.
func (c *EventCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- eventsDesc
}

// Collect queries the database for event counts and emits them as gauges.
func (c *EventCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	counts, err := c.db.CountEventsByStatus(ctx)
	if err != nil {
		c.log.Error("failed to collect event metrics", zap.Error(err))
		return
	}
	for _, sc := range counts {
		ch <- prometheus.MustNewConstMetric(
			eventsDesc,
			prometheus.GaugeValue,
			float64(sc.Count),
			sc.Status,
		)
	}
}

var initOnce sync.Once

// Init registers the event collector and the content check counter with
// the default registry. Must be called once at startup.
func Init(db StatusCounter, logger *zap.Logger) {
	initOnce.Do(func() {
		prometheus.MustRegister(NewEventCollector(db, logger), contentChecks)
	})
}

// RecordContentCheck counts one content filter classification.
func RecordContentCheck(c wordfilter.Classification) {
	contentChecks.WithLabelValues(c.String()).Inc()
}
