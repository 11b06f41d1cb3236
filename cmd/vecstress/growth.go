package main

import (
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/pavanmanishd/vec"
)

// growthCommand prints the capacity sequence a vector goes through.
type growthCommand struct {
	elements *int
}

func (cmd *growthCommand) run(_ *kingpin.ParseContext) error {
	bold := color.New(color.Bold)
	bold.Println("Capacity growth:")

	v := vec.New[int64]()
	defer v.Release()

	for _, step := range capacitySteps(v, *cmd.elements) {
		fmt.Printf("\tlen %8d -> cap %8d (%v reserved)\n",
			step.Len, step.Cap, humanize.IBytes(uint64(step.ReservedBytes)))
	}
	return nil
}

// capacitySteps pushes n elements into v and records the metrics each time
// its capacity changes.
func capacitySteps(v *vec.Vec[int64], n int) []vec.VecMetrics {
	steps := []vec.VecMetrics{v.Metrics()}
	for i := range n {
		before := v.Cap()
		v.Push(int64(i))
		if v.Cap() != before {
			steps = append(steps, v.Metrics())
		}
	}
	return steps
}

func addGrowthCommand(app *kingpin.Application) {
	cmd := &growthCommand{}
	growth := app.Command("growth", "Print the capacity sequence for a number of pushes.").Action(cmd.run)
	cmd.elements = growth.Flag("elements", "Number of elements to push.").Default("1000").Int()
}
