// Command vecstress runs vector workloads against a configurable allocator
// stack and reports growth, timings and allocator totals.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

func main() {
	app := kingpin.New("vecstress", "Exercise growable vectors on different allocators.")
	logLevel := app.Flag("log.level", "Only log messages with the given severity or above. One of: [debug, info, warn, error]").
		Default("info").Enum("debug", "info", "warn", "error")

	logger := log.NewNopLogger()
	app.PreAction(func(*kingpin.ParseContext) error {
		logger = newLogger(*logLevel)
		return nil
	})
	getLogger := func() log.Logger { return logger }

	addRunCommand(app, getLogger)
	addGrowthCommand(app)

	kingpin.MustParse(app.Parse(os.Args[1:]))
}

func newLogger(lvl string) log.Logger {
	var opt level.Option
	switch lvl {
	case "debug":
		opt = level.AllowDebug()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		opt = level.AllowInfo()
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = level.NewFilter(logger, opt)
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
}

func exitWithErr(err error) {
	fmt.Fprintf(os.Stderr, "vecstress: %v\n", err)
	os.Exit(1)
}
