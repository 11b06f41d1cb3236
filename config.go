package vec

import (
	"flag"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/go-kit/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Allocator backends selectable through Config.
const (
	BackendGo    = "go"
	BackendMmap  = "mmap"
	BackendArena = "arena"
)

// Config selects and decorates the process-wide allocator.
type Config struct {
	// Backend is one of "go", "mmap" or "arena".
	Backend string `yaml:"allocator"`
	// ArenaChunkSize is the chunk size of the arena backend in bytes.
	ArenaChunkSize int `yaml:"arena_chunk_size"`
	// CheckLeaks wraps the backend in a checked allocator that tracks
	// outstanding bytes.
	CheckLeaks bool `yaml:"check_leaks"`
	// Instrument exposes Prometheus metrics and debug logs for allocator
	// traffic.
	Instrument bool `yaml:"instrument"`
}

// RegisterFlags registers flags with the "vec." prefix.
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	cfg.RegisterFlagsWithPrefix("vec.", f)
}

// RegisterFlagsWithPrefix registers flags and sets the defaults.
func (cfg *Config) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.StringVar(&cfg.Backend, prefix+"allocator", BackendGo, "Allocator backing vector storage: go, mmap or arena.")
	f.IntVar(&cfg.ArenaChunkSize, prefix+"arena-chunk-size", DefaultChunkSize, "Chunk size in bytes for the arena allocator.")
	f.BoolVar(&cfg.CheckLeaks, prefix+"check-leaks", false, "Track outstanding allocator bytes to detect leaked vectors.")
	f.BoolVar(&cfg.Instrument, prefix+"instrument", false, "Expose allocator metrics and log allocator traffic at debug level.")
}

// Validate checks the configuration.
func (cfg *Config) Validate() error {
	switch cfg.Backend {
	case BackendGo, BackendMmap, BackendArena:
	default:
		return errors.Errorf("invalid allocator %q: expected one of %s, %s, %s", cfg.Backend, BackendGo, BackendMmap, BackendArena)
	}
	if cfg.Backend == BackendArena && cfg.ArenaChunkSize <= 0 {
		return errors.New("arena chunk size must be positive")
	}
	return nil
}

// Allocators is the allocator stack built from a Config.
type Allocators struct {
	// Allocator is the outermost allocator, ready for SetAllocator.
	Allocator Allocator
	// Checked is set when CheckLeaks is enabled.
	Checked *memory.CheckedAllocator
	// Instrumented is set when Instrument is enabled.
	Instrumented *InstrumentedAllocator
	// Arena is set for the arena backend.
	Arena *ArenaAllocator

	closers []func() error
}

// Close releases backend resources. Vectors built on the allocators must
// not be used afterwards.
func (a *Allocators) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

// NewAllocators builds the allocator stack described by cfg. Backends that
// are not goroutine-safe are wrapped in a SafeAllocator.
func (cfg *Config) NewAllocators(logger log.Logger, reg prometheus.Registerer) (*Allocators, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	out := &Allocators{}
	var backend Allocator
	switch cfg.Backend {
	case BackendGo:
		backend = memory.NewGoAllocator()
	case BackendMmap:
		m := NewMmapAllocator()
		out.closers = append(out.closers, m.Close)
		backend = NewSafeAllocator(m)
	case BackendArena:
		out.Arena = NewArenaAllocator(cfg.ArenaChunkSize)
		arena := out.Arena
		out.closers = append(out.closers, func() error {
			arena.Release()
			return nil
		})
		backend = NewSafeAllocator(arena)
	}

	if cfg.CheckLeaks {
		out.Checked = memory.NewCheckedAllocator(backend)
		backend = out.Checked
	}

	if cfg.Instrument {
		ia, err := NewInstrumentedAllocator(backend, logger, reg)
		if err != nil {
			_ = out.Close()
			return nil, errors.Wrap(err, "registering allocator metrics")
		}
		out.Instrumented = ia
		backend = ia
	}

	out.Allocator = backend
	return out, nil
}
