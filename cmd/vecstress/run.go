package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"

	"github.com/pavanmanishd/vec"
)

// runCommand runs workloads on the configured allocator stack.
type runCommand struct {
	logger     func() log.Logger
	configFile string
	allocator  string
	workload   string
	elements   int
}

func addRunCommand(app *kingpin.Application, logger func() log.Logger) {
	cmd := &runCommand{logger: logger}
	run := app.Command("run", "Run vector workloads and report allocator usage.").Action(cmd.run)
	run.Flag("config.file", "YAML file with allocator settings.").StringVar(&cmd.configFile)
	run.Flag("allocator", "Override the configured allocator backend (go, mmap or arena).").StringVar(&cmd.allocator)
	run.Flag("workload", "Workload to run.").Default(workloadAll).
		EnumVar(&cmd.workload, append(workloadNames, workloadAll)...)
	run.Flag("elements", "Number of elements per workload.").Default("10000").IntVar(&cmd.elements)
}

func (cmd *runCommand) run(_ *kingpin.ParseContext) error {
	logger := cmd.logger()

	cfg, err := loadConfig(cmd.configFile)
	if err != nil {
		exitWithErr(err)
	}
	if cmd.allocator != "" {
		cfg.Backend = cmd.allocator
	}
	// Leak checks and totals are the point of the report.
	cfg.CheckLeaks = true
	cfg.Instrument = true

	reg := prometheus.NewRegistry()
	allocs, err := cfg.NewAllocators(logger, reg)
	if err != nil {
		exitWithErr(err)
	}
	prev := vec.SetAllocator(allocs.Allocator)
	level.Info(logger).Log("msg", "allocator ready", "backend", cfg.Backend, "elements", cmd.elements)

	names := workloadNames
	if cmd.workload != workloadAll {
		names = []string{cmd.workload}
	}

	bold := color.New(color.Bold)
	bold.Println("Workloads:")
	for _, name := range names {
		start := time.Now()
		sum, err := workloads[name](cmd.elements)
		if err != nil {
			exitWithErr(errors.Wrapf(err, "workload %s", name))
		}
		elapsed := time.Since(start)
		fmt.Printf("\t%-8s %12v  checksum %d\n", name, elapsed.Round(time.Microsecond), sum)
		level.Debug(logger).Log("msg", "workload done", "workload", name, "duration", elapsed)
	}

	bold.Println("Capacity growth:")
	v := vec.New[int64]()
	steps := capacitySteps(v, cmd.elements)
	v.Release()
	last := steps[len(steps)-1]
	fmt.Printf("\t%d resizes, final cap %d (%v reserved)\n",
		len(steps)-1, last.Cap, humanize.IBytes(uint64(last.ReservedBytes)))

	vec.SetAllocator(prev)
	cmd.report(bold, allocs)

	leaked := allocs.Checked.CurrentAlloc()
	if arena := allocs.Arena; arena != nil {
		m := arena.Metrics()
		fmt.Printf("\tarena: %d chunks, %v reserved, %v used (%.0f%%)\n",
			m.Chunks, humanize.IBytes(uint64(m.ReservedBytes)), humanize.IBytes(uint64(m.UsedBytes)), m.Utilization*100)
	}
	if err := allocs.Close(); err != nil {
		level.Warn(logger).Log("msg", "closing allocators", "err", err)
	}
	if leaked != 0 {
		exitWithErr(errors.Errorf("%s still allocated after all vectors were released", humanize.IBytes(uint64(leaked))))
	}
	return nil
}

func (cmd *runCommand) report(bold *color.Color, allocs *vec.Allocators) {
	stats := allocs.Instrumented.Stats()
	bold.Println("Allocator:")
	fmt.Printf("\tallocations: %d, reallocations: %d, frees: %d\n",
		stats.Allocations, stats.Reallocations, stats.Frees)
	fmt.Printf("\tpeak: %v, in use: %v\n",
		humanize.IBytes(uint64(stats.PeakBytes)), humanize.IBytes(uint64(stats.BytesInUse)))
}

// loadConfig returns the flag defaults overlaid with the YAML file, if any.
func loadConfig(path string) (vec.Config, error) {
	var cfg vec.Config
	cfg.RegisterFlags(flag.NewFlagSet("vec", flag.ContinueOnError))
	if path == "" {
		return cfg, nil
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config file")
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config file %s", path)
	}
	return cfg, nil
}
