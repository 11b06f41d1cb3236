package vec

import (
	"bytes"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestInstrumentedAllocator_CountsGrowth(t *testing.T) {
	reg := prometheus.NewRegistry()
	var buf bytes.Buffer
	logger := level.NewFilter(log.NewLogfmtLogger(&buf), level.AllowDebug())

	ia, err := NewInstrumentedAllocator(memory.NewGoAllocator(), logger, reg)
	require.NoError(t, err)
	withAllocator(t, ia)

	v := New[int64]()
	for i := range 10 {
		v.Push(int64(i))
	}

	stats := ia.Stats()
	require.Equal(t, 1, stats.Allocations)
	require.Equal(t, 4, stats.Reallocations, "1->2->4->8->16")
	require.Equal(t, int64(16*8), stats.BytesInUse)
	require.Equal(t, int64(16*8), stats.PeakBytes)
	require.Equal(t, float64(128), testutil.ToFloat64(ia.bytesInUse))

	v.Release()
	stats = ia.Stats()
	require.Equal(t, 1, stats.Frees)
	require.Zero(t, stats.BytesInUse)
	require.Equal(t, int64(128), stats.PeakBytes)

	require.Equal(t, float64(1), testutil.ToFloat64(ia.allocations))
	require.Equal(t, float64(4), testutil.ToFloat64(ia.reallocations))
	require.Equal(t, float64(1), testutil.ToFloat64(ia.frees))
	require.Zero(t, testutil.ToFloat64(ia.bytesInUse))

	logs := buf.String()
	require.Contains(t, logs, `msg="allocated buffer"`)
	require.Contains(t, logs, `msg="grew buffer"`)
	require.Contains(t, logs, `msg="freed buffer"`)
}

func TestInstrumentedAllocator_Registration(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := NewInstrumentedAllocator(memory.NewGoAllocator(), nil, reg)
	require.NoError(t, err)

	// Registering the same metric names again is tolerated.
	_, err = NewInstrumentedAllocator(memory.NewGoAllocator(), nil, reg)
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	require.ElementsMatch(t, []string{
		"vec_allocator_allocations_total",
		"vec_allocator_reallocations_total",
		"vec_allocator_frees_total",
		"vec_allocator_bytes_in_use",
	}, names)

	first.Unregister(reg)
	families, err = reg.Gather()
	require.NoError(t, err)
	require.Empty(t, families)
}

func TestInstrumentedAllocator_Unregistered(t *testing.T) {
	ia, err := NewInstrumentedAllocator(newCountingAllocator(), nil, nil)
	require.NoError(t, err)
	require.IsType(t, &countingAllocator{}, ia.Unwrap())

	b := ia.Allocate(32)
	ia.Free(b)
	require.Equal(t, AllocatorStats{Allocations: 1, Frees: 1, PeakBytes: 32}, ia.Stats())
}
