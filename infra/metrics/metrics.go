package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the dictionary collectors on a registry of its own, so that
// several instances can live in one process (tests do this).
type Metrics struct {
	reg *prometheus.Registry

	wordsAdded prometheus.Counter
	checks     *prometheus.CounterVec
	compares   prometheus.Histogram
	published  *prometheus.CounterVec
	height     prometheus.Gauge
	size       prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		wordsAdded: f.NewCounter(prometheus.CounterOpts{
			Name: "lexicon_words_added_total",
			Help: "The total number of words added to the dictionary",
		}),
		checks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lexicon_word_checks_total",
			Help: "The total number of spell checks by result",
		}, []string{"result"}),
		compares: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "lexicon_check_compares",
			Help:    "Key comparisons made by one spell check",
			Buckets: prometheus.LinearBuckets(1, 2, 20),
		}),
		published: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lexicon_events_published_total",
			Help: "Outbox delivery attempts by result",
		}, []string{"result"}),
		height: f.NewGauge(prometheus.GaugeOpts{
			Name: "lexicon_tree_height",
			Help: "Height of the dictionary tree",
		}),
		size: f.NewGauge(prometheus.GaugeOpts{
			Name: "lexicon_tree_size",
			Help: "Number of words in the dictionary",
		}),
	}
}

func (m *Metrics) WordAdded() {
	m.wordsAdded.Inc()
}

func (m *Metrics) WordChecked(found bool, compares int) {
	result := "missing"
	if found {
		result = "found"
	}
	m.checks.WithLabelValues(result).Inc()
	m.compares.Observe(float64(compares))
}

func (m *Metrics) TreeSize(n int) {
	m.size.Set(float64(n))
}

// TreeHeight is only set where the height was computed already, since that
// walks the whole tree.
func (m *Metrics) TreeHeight(h int) {
	m.height.Set(float64(h))
}

// Published implements broadcaster.Observer.
func (m *Metrics) Published(ok bool) {
	result := "error"
	if ok {
		result = "ok"
	}
	m.published.WithLabelValues(result).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
