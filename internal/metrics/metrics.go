// Package metrics exposes recall's Prometheus collectors. A nil *Collector is
// valid and records nothing, which keeps tests and the CLI paths free of
// registry setup.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "recall"

type Collector struct {
	registry *prometheus.Registry

	messages       *prometheus.CounterVec
	nodesIndexed   prometheus.Counter
	storeErrors    *prometheus.CounterVec
	answers        *prometheus.CounterVec
	answerDuration prometheus.Histogram
}

func New() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Inbound messages by classification.",
		}, []string{"kind"}),
		nodesIndexed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_indexed_total",
			Help:      "Nodes written to the vector index.",
		}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Vector index failures by operation.",
		}, []string{"operation"}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Answer attempts by outcome.",
		}, []string{"result"}),
		answerDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "answer_duration_seconds",
			Help:      "Time from question to synthesized answer.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		}),
	}

	registry.MustRegister(
		c.messages,
		c.nodesIndexed,
		c.storeErrors,
		c.answers,
		c.answerDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) Message(kind string) {
	if c == nil {
		return
	}
	c.messages.WithLabelValues(kind).Inc()
}

func (c *Collector) NodeIndexed() {
	if c == nil {
		return
	}
	c.nodesIndexed.Inc()
}

func (c *Collector) StoreError(op string) {
	if c == nil {
		return
	}
	c.storeErrors.WithLabelValues(op).Inc()
}

func (c *Collector) Answer(result string, took time.Duration) {
	if c == nil {
		return
	}
	c.answers.WithLabelValues(result).Inc()
	c.answerDuration.Observe(took.Seconds())
}

func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
