// Package tracecollector exposes the hot frames of analyzed traces as
// prometheus metrics.
package tracecollector

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

var _ prometheus.Collector = (*Collector)(nil)

// Report is one analyzed trace's contribution to the scrape output.
type Report struct {
	// Trace labels every metric from this report, usually the trace
	// file's base name.
	Trace string
	// TotalTime is the whole trace's accumulated time.
	TotalTime float64
	// Frames holds the top methods only. Label cardinality is bounded
	// by the watcher's top_frames setting, not by the trace.
	Frames []Frame
}

type Frame struct {
	Method  string
	Time    float64
	Samples int64
}

type Collector struct {
	logger      zerolog.Logger
	namespace   string
	constLabels prometheus.Labels

	lastScrape prometheus.Gauge
	reports    atomic.Pointer[[]Report]
}

// New
// labels are the label constants on all metrics.
func New(logger zerolog.Logger, namespace string, labels prometheus.Labels) *Collector {
	return &Collector{
		logger:      logger,
		namespace:   namespace,
		constLabels: labels,
		lastScrape: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "watcher",
			Name:        "last_scrape_unix_s",
			Help:        "Timestamp in unix seconds of the last trace scrape.",
			ConstLabels: labels,
		}),
	}
}

func (c *Collector) Describe(descs chan<- *prometheus.Desc) {
	prometheus.DescribeByCollect(c, descs)
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	reports := c.reports.Load()
	if reports == nil {
		return
	}

	for _, report := range *reports {
		c.constMetric(ch,
			"trace_total_time",
			"Accumulated open-to-close time over every frame in the trace.",
			report.TotalTime,
			[]string{"trace"}, report.Trace,
		)
		for _, frame := range report.Frames {
			c.constMetric(ch,
				"frame_time_total",
				"Accumulated open-to-close time of a hot method.",
				frame.Time,
				[]string{"trace", "method"}, report.Trace, frame.Method,
			)
			c.constMetric(ch,
				"frame_samples_total",
				"How often a hot method appeared on the call stack.",
				float64(frame.Samples),
				[]string{"trace", "method"}, report.Trace, frame.Method,
			)
		}
	}

	ch <- c.lastScrape
}

func (c *Collector) constMetric(ch chan<- prometheus.Metric, name, help string, value float64, labels []string, labelValues ...string) {
	pm, err := prometheus.NewConstMetric(
		prometheus.NewDesc(
			fmt.Sprintf("%s_%s", c.namespace, name),
			help,
			labels,
			c.constLabels,
		),
		prometheus.GaugeValue,
		value,
		labelValues...,
	)
	if err != nil {
		c.logger.Warn().
			Str("metric_name", name).
			Strs("labels", labelValues).
			Err(err).
			Msg("failed to create metric")
		return
	}
	ch <- pm
}

// SetReports replaces the published snapshot and returns how many
// metrics the next scrape will expose.
func (c *Collector) SetReports(reports []Report) int {
	c.lastScrape.Set(float64(time.Now().Unix()))
	c.reports.Store(&reports)

	count := 0
	for _, r := range reports {
		count += 1 + 2*len(r.Frames)
	}
	return count
}
