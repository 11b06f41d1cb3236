package vec

import (
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
)

// InstrumentedAllocator wraps an Allocator with Prometheus metrics and
// debug logging. Vectors only reach the allocator when they grow or are
// released, so every event is logged.
type InstrumentedAllocator struct {
	next   Allocator
	logger log.Logger

	allocations   prometheus.Counter
	reallocations prometheus.Counter
	frees         prometheus.Counter
	bytesInUse    prometheus.Gauge

	allocs   atomic.Int64
	reallocs atomic.Int64
	freed    atomic.Int64
	inUse    atomic.Int64
	peak     atomic.Int64
}

var _ Allocator = (*InstrumentedAllocator)(nil)

// AllocatorStats is a snapshot of an InstrumentedAllocator's totals.
type AllocatorStats struct {
	Allocations   int   // Calls to Allocate
	Reallocations int   // Calls to Reallocate
	Frees         int   // Calls to Free
	BytesInUse    int64 // Bytes currently handed out
	PeakBytes     int64 // High-water mark of BytesInUse
}

// NewInstrumentedAllocator wraps next. A nil logger discards logs; a nil
// registerer leaves the metrics unregistered.
func NewInstrumentedAllocator(next Allocator, logger log.Logger, reg prometheus.Registerer) (*InstrumentedAllocator, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	a := &InstrumentedAllocator{
		next:   next,
		logger: logger,
		allocations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vec_allocator_allocations_total",
			Help: "Total number of blocks allocated for vector storage.",
		}),
		reallocations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vec_allocator_reallocations_total",
			Help: "Total number of vector storage blocks resized.",
		}),
		frees: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vec_allocator_frees_total",
			Help: "Total number of vector storage blocks freed.",
		}),
		bytesInUse: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vec_allocator_bytes_in_use",
			Help: "Bytes currently allocated for vector storage.",
		}),
	}
	if reg != nil {
		if err := a.register(reg); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *InstrumentedAllocator) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		a.allocations,
		a.reallocations,
		a.frees,
		a.bytesInUse,
	}
}

func (a *InstrumentedAllocator) register(reg prometheus.Registerer) error {
	for _, collector := range a.collectors() {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

// Unregister removes the allocator's metrics from reg.
func (a *InstrumentedAllocator) Unregister(reg prometheus.Registerer) {
	for _, collector := range a.collectors() {
		reg.Unregister(collector)
	}
}

// Allocate implements Allocator.
func (a *InstrumentedAllocator) Allocate(size int) []byte {
	b := a.next.Allocate(size)
	a.allocations.Inc()
	a.allocs.Inc()
	a.track(int64(len(b)))
	level.Debug(a.logger).Log("msg", "allocated buffer", "bytes", len(b))
	return b
}

// Reallocate implements Allocator.
func (a *InstrumentedAllocator) Reallocate(size int, b []byte) []byte {
	from := len(b)
	nb := a.next.Reallocate(size, b)
	a.reallocations.Inc()
	a.reallocs.Inc()
	a.track(int64(len(nb) - from))
	level.Debug(a.logger).Log("msg", "grew buffer", "from", from, "to", len(nb))
	return nb
}

// Free implements Allocator.
func (a *InstrumentedAllocator) Free(b []byte) {
	a.next.Free(b)
	a.frees.Inc()
	a.freed.Inc()
	a.track(-int64(len(b)))
	level.Debug(a.logger).Log("msg", "freed buffer", "bytes", len(b))
}

// Stats returns a snapshot of the totals.
func (a *InstrumentedAllocator) Stats() AllocatorStats {
	return AllocatorStats{
		Allocations:   int(a.allocs.Load()),
		Reallocations: int(a.reallocs.Load()),
		Frees:         int(a.freed.Load()),
		BytesInUse:    a.inUse.Load(),
		PeakBytes:     a.peak.Load(),
	}
}

// Unwrap returns the wrapped allocator.
func (a *InstrumentedAllocator) Unwrap() Allocator {
	return a.next
}

func (a *InstrumentedAllocator) track(delta int64) {
	n := a.inUse.Add(delta)
	a.bytesInUse.Set(float64(n))
	for {
		peak := a.peak.Load()
		if n <= peak || a.peak.CompareAndSwap(peak, n) {
			return
		}
	}
}
