package prometheus

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNew_DefaultRegistry(t *testing.T) {
	c := New(nil)
	if c == nil {
		t.Fatal("New(nil) returned nil")
	}
	if c.registry == nil {
		t.Error("registry should not be nil")
	}
}

func TestCollector_IncCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.IncCounter("test_counter", 5)
	c.IncCounter("test_counter", 3)

	val, ok := counterValue(t, reg, "test_counter")
	if !ok {
		t.Fatal("counter test_counter not found in registry")
	}
	if val != 8 {
		t.Errorf("counter value = %v, want 8", val)
	}
}

func TestCollector_SetGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.SetGauge("test_gauge", 42)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	found := false
	for _, m := range metrics {
		if m.GetName() == "test_gauge" {
			found = true
			val := m.GetMetric()[0].GetGauge().GetValue()
			if val != 42 {
				t.Errorf("gauge value = %v, want 42", val)
			}
		}
	}
	if !found {
		t.Error("gauge test_gauge not found in registry")
	}
}

func TestCollector_ObserveHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.ObserveHistogram("test_histogram", 0.5)
	c.ObserveHistogram("test_histogram", 1.5)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	found := false
	for _, m := range metrics {
		if m.GetName() == "test_histogram" {
			found = true
			count := m.GetMetric()[0].GetHistogram().GetSampleCount()
			if count != 2 {
				t.Errorf("histogram count = %v, want 2", count)
			}
		}
	}
	if !found {
		t.Error("histogram test_histogram not found in registry")
	}
}

func TestCollector_AlreadyRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()

	// Pre-register a counter with the same name.
	existing := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "preexisting_counter",
		Help: "preexisting_counter",
	})
	reg.MustRegister(existing)
	existing.Add(100)

	c := New(reg)
	c.IncCounter("preexisting_counter", 5)

	val, ok := counterValue(t, reg, "preexisting_counter")
	if !ok {
		t.Fatal("counter preexisting_counter not found in registry")
	}
	if val != 105 {
		t.Errorf("counter value = %v, want 105", val)
	}
}

func TestCollector_ConcurrentAccess(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.IncCounter("concurrent_counter", 1)
			}
		}()
	}
	wg.Wait()

	val, ok := counterValue(t, reg, "concurrent_counter")
	if !ok {
		t.Fatal("counter concurrent_counter not found in registry")
	}
	if val != 1000 {
		t.Errorf("counter value = %v, want 1000", val)
	}
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) (float64, bool) {
	t.Helper()
	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, m := range metrics {
		if m.GetName() == name && len(m.GetMetric()) > 0 {
			return m.GetMetric()[0].GetCounter().GetValue(), true
		}
	}
	return 0, false
}
