package prometrics

import (
	"fmt"
	"sort"
	"sync"

	"github.com/atpyprog/supermarket-checkout-simulation/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// Registry exposes the subset of Prometheus registry functionality
// needed by the application, plus a snapshot for the in-process stats
// surface (there is no network endpoint to scrape).
type Registry interface {
	Counter(name observability.MetricKey, help string, labelKeys ...string) observability.Counter
	Histogram(name observability.MetricKey, help string, buckets []float64, labelKeys ...string) observability.Histogram
	Snapshot() ([]observability.MetricFamily, error)
}

type registry struct {
	reg        *prometheus.Registry
	counters   sync.Map // MetricKey -> *prometheus.CounterVec
	histograms sync.Map // MetricKey -> *prometheus.HistogramVec
	namespace  string
	subsystem  string
}

func New(namespace, subsystem string) Registry {
	return &registry{
		reg:       prometheus.NewRegistry(),
		namespace: namespace,
		subsystem: subsystem,
	}
}

type counter struct{ v *prometheus.CounterVec }

func (c *counter) Add(d float64, labels ...observability.Label) {
	c.v.With(labelMap(labels)).Add(d)
}

type histogram struct{ v *prometheus.HistogramVec }

func (h *histogram) Observe(v float64, labels ...observability.Label) {
	h.v.With(labelMap(labels)).Observe(v)
}

func labelMap(ls []observability.Label) prometheus.Labels {
	m := make(prometheus.Labels, len(ls))
	for _, l := range ls {
		m[l.Key] = l.Value
	}
	return m
}

func (r *registry) Counter(name observability.MetricKey, help string, labelKeys ...string) observability.Counter {
	// ensure only registered once
	if v, ok := r.counters.Load(name); ok {
		return &counter{v: v.(*prometheus.CounterVec)}
	}
	cv := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace, Subsystem: r.subsystem, Name: string(name), Help: help,
	}, labelKeys)
	r.reg.MustRegister(cv)
	r.counters.Store(name, cv)
	return &counter{v: cv}
}

func (r *registry) Histogram(name observability.MetricKey, help string, buckets []float64, labelKeys ...string) observability.Histogram {
	if v, ok := r.histograms.Load(name); ok {
		return &histogram{v: v.(*prometheus.HistogramVec)}
	}
	hv := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace, Subsystem: r.subsystem, Name: string(name), Help: help, Buckets: buckets,
	}, labelKeys)
	r.reg.MustRegister(hv)
	r.histograms.Store(name, hv)
	return &histogram{v: hv}
}

// Snapshot gathers the registry into vendor-neutral families. Histogram
// series are summarised by their sample count.
func (r *registry) Snapshot() ([]observability.MetricFamily, error) {
	gathered, err := r.reg.Gather()
	if err != nil {
		return nil, fmt.Errorf("prometrics: gather: %w", err)
	}

	families := make([]observability.MetricFamily, 0, len(gathered))
	for _, mf := range gathered {
		fam := observability.MetricFamily{
			Name: mf.GetName(),
			Help: mf.GetHelp(),
		}
		for _, m := range mf.GetMetric() {
			sample := observability.MetricSample{}
			for _, lp := range m.GetLabel() {
				sample.Labels = append(sample.Labels, observability.L(lp.GetName(), lp.GetValue()))
			}
			switch {
			case m.GetCounter() != nil:
				sample.Value = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				sample.Value = float64(m.GetHistogram().GetSampleCount())
			case m.GetGauge() != nil:
				sample.Value = m.GetGauge().GetValue()
			}
			fam.Samples = append(fam.Samples, sample)
		}
		sort.Slice(fam.Samples, func(i, j int) bool {
			return labelKey(fam.Samples[i].Labels) < labelKey(fam.Samples[j].Labels)
		})
		families = append(families, fam)
	}

	sort.Slice(families, func(i, j int) bool { return families[i].Name < families[j].Name })
	return families, nil
}

func labelKey(ls []observability.Label) string {
	parts := make([]string, 0, len(ls))
	for _, l := range ls {
		parts = append(parts, l.Key+"="+l.Value)
	}
	sort.Strings(parts)
	key := ""
	for _, p := range parts {
		key += p + ","
	}
	return key
}
