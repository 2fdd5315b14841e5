// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package scan

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "blockscan"
	metricsSubsystem = "scan"
)

// Observable is implemented by both engine flavors, [BlockScan] and
// [BlockPortScan].
type Observable interface {
	Generated() uint64
	Accepted() uint64
	QueueLen() int
	MaxQueueSize() int
	Running() bool
	Telemetry() *Telemetry
}

// Collector is a Prometheus collector exposing an engine's counters and
// telemetry, sampled anew on every scrape.
type Collector struct {
	scan Observable

	generated *prometheus.Desc
	accepted  *prometheus.Desc
	queueLen  *prometheus.Desc
	queueCap  *prometheus.Desc
	quickest  *prometheus.Desc
	longest   *prometheus.Desc
	average   *prometheus.Desc
	workers   *prometheus.Desc
	running   *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a new Collector for the specified engine, with the
// optional constant labels attached to all metrics.
func NewCollector(scan Observable, constLabels prometheus.Labels) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, metricsSubsystem, name),
			help, nil, constLabels)
	}
	return &Collector{
		scan:      scan,
		generated: desc("generated_total", "Number of items enqueued by the producer."),
		accepted:  desc("accepted_total", "Number of items passed to the consumer callback."),
		queueLen:  desc("queue_length", "Number of items currently queued."),
		queueCap:  desc("queue_capacity", "Maximum number of queued items."),
		quickest:  desc("quickest_iteration_seconds", "Quickest worker iteration seen so far."),
		longest:   desc("longest_iteration_seconds", "Longest worker iteration seen so far."),
		average:   desc("average_idle_seconds", "Mean time since the workers were last seen."),
		workers:   desc("tracked_workers", "Number of workers seen so far."),
		running:   desc("running", "1 while the scan is running, otherwise 0."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.generated
	ch <- c.accepted
	ch <- c.queueLen
	ch <- c.queueCap
	ch <- c.quickest
	ch <- c.longest
	ch <- c.average
	ch <- c.workers
	ch <- c.running
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.generated, prometheus.CounterValue, float64(c.scan.Generated()))
	ch <- prometheus.MustNewConstMetric(c.accepted, prometheus.CounterValue, float64(c.scan.Accepted()))
	ch <- prometheus.MustNewConstMetric(c.queueLen, prometheus.GaugeValue, float64(c.scan.QueueLen()))
	ch <- prometheus.MustNewConstMetric(c.queueCap, prometheus.GaugeValue, float64(c.scan.MaxQueueSize()))
	tele := c.scan.Telemetry()
	quickest, _ := tele.Quickest()
	longest, _ := tele.Longest()
	ch <- prometheus.MustNewConstMetric(c.quickest, prometheus.GaugeValue, quickest.Seconds())
	ch <- prometheus.MustNewConstMetric(c.longest, prometheus.GaugeValue, longest.Seconds())
	ch <- prometheus.MustNewConstMetric(c.average, prometheus.GaugeValue, tele.Average().Seconds())
	ch <- prometheus.MustNewConstMetric(c.workers, prometheus.GaugeValue, float64(len(tele.Workers())))
	running := 0.0
	if c.scan.Running() {
		running = 1
	}
	ch <- prometheus.MustNewConstMetric(c.running, prometheus.GaugeValue, running)
}
