package metrics

import (
	"sort"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Cart counts cart mutations and snapshot writes on its own registry.
type Cart struct {
	Registry  *prometheus.Registry
	Mutations *prometheus.CounterVec
	Writes    *prometheus.CounterVec
}

func NewCart(namespace string) *Cart {
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cart",
		Name:      "mutations_total",
		Help:      "Cart operations by kind and whether they changed the cart.",
	}, []string{"op", "changed"})
	writes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cart",
		Name:      "snapshot_writes_total",
		Help:      "Snapshot writes by outcome.",
	}, []string{"status"})

	registry := prometheus.NewRegistry()
	registry.MustRegister(mutations, writes)
	return &Cart{Registry: registry, Mutations: mutations, Writes: writes}
}

func (m *Cart) Mutation(op string, changed bool) {
	m.Mutations.WithLabelValues(op, strconv.FormatBool(changed)).Inc()
}

func (m *Cart) Persisted(ok bool) {
	status := "ok"
	if !ok {
		status = "failed"
	}

	m.Writes.WithLabelValues(status).Inc()
}

// Sample is one counter value.
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// Samples gathers every counter, sorted by metric name.
func (m *Cart) Samples() ([]Sample, error) {
	families, err := m.Registry.Gather()
	if err != nil {
		return nil, err
	}

	var samples []Sample
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			labels := map[string]string{}
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}

			samples = append(samples, Sample{
				Name:   family.GetName(),
				Labels: labels,
				Value:  metric.GetCounter().GetValue(),
			})
		}
	}

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Name < samples[j].Name
	})

	return samples, nil
}
