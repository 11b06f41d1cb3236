package vec

// VecMetrics contains statistical information about a vector.
type VecMetrics struct {
	Len           int         // Live elements
	Cap           int         // Elements the storage can hold
	ElemSize      int         // sizeof(T) in bytes
	ReservedBytes int         // Bytes held for storage
	Utilization   float64     // Ratio of Len to Cap (0.0-1.0)
	Storage       StorageKind // Where the elements live
}

// Utilization returns the ratio of live elements to capacity (0.0 to 1.0).
// Returns 0.0 if the vector has no capacity.
func (v *Vec[T]) Utilization() float64 {
	capacity := v.Cap()
	if capacity == 0 {
		return 0
	}
	return float64(v.len) / float64(capacity)
}

// Metrics returns a snapshot of vector statistics.
func (v *Vec[T]) Metrics() VecMetrics {
	return VecMetrics{
		Len:           v.len,
		Cap:           v.Cap(),
		ElemSize:      v.buf.ElemSize(),
		ReservedBytes: v.buf.ReservedBytes(),
		Utilization:   v.Utilization(),
		Storage:       v.buf.Storage(),
	}
}

// ArenaMetrics describes how an ArenaAllocator's chunks are used.
type ArenaMetrics struct {
	Chunks        int     // Chunks held
	ChunkSize     int     // Size of a regular chunk
	ReservedBytes int     // Sum of chunk sizes
	UsedBytes     int     // Bytes carved out, padding and abandoned blocks included
	TailFree      int     // Bytes still free in the current chunk
	Utilization   float64 // UsedBytes / ReservedBytes, 0 when nothing is reserved
}

// Metrics walks the arena's chunks once and returns a snapshot.
// A released arena reports zeros.
func (a *ArenaAllocator) Metrics() ArenaMetrics {
	m := ArenaMetrics{
		Chunks:    len(a.chunks),
		ChunkSize: a.chunkSize,
	}
	for i := range a.chunks {
		c := &a.chunks[i]
		m.ReservedBytes += len(c.buf)
		m.UsedBytes += int(c.offset)
	}
	if c := a.currentChunk; c != nil {
		m.TailFree = len(c.buf) - int(c.offset)
	}
	if m.ReservedBytes > 0 {
		m.Utilization = float64(m.UsedBytes) / float64(m.ReservedBytes)
	}
	return m
}
