package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/pkg/profile"
	"golang.org/x/sync/errgroup"

	"github.com/oliverbestmann/scoped"
)

type options struct {
	Iterations int
	Depth      int
	Goroutines int
	Profile    string
}

type result struct {
	Name       string
	Iterations int
	Elapsed    time.Duration
}

func (r result) NanosPerOp() float64 {
	if r.Iterations == 0 {
		return 0
	}

	return float64(r.Elapsed.Nanoseconds()) / float64(r.Iterations)
}

type workload struct {
	Name string
	Run  func(opts options, iterations int)
}

type Counter interface {
	Increment()
}

type counter struct {
	value int
}

func (c *counter) Increment() {
	c.value += 1
}

var (
	number   = scoped.Declare[int]("number")
	counters = scoped.Declare[Counter]("counter")
)

var workloads = []workload{
	{
		Name: "with-empty",
		Run: func(_ options, iterations int) {
			for range iterations {
				number.With(func(scoped.Option[int]) {})
			}
		},
	},
	{
		Name: "set",
		Run: func(_ options, iterations int) {
			value := 1
			for range iterations {
				number.Set(&value, func() {})
			}
		},
	},
	{
		Name: "set-with",
		Run: func(_ options, iterations int) {
			value := 1
			for range iterations {
				number.Set(&value, func() {
					number.With(func(scoped.Option[int]) {})
				})
			}
		},
	},
	{
		Name: "nested",
		Run: func(opts options, iterations int) {
			for range iterations {
				nested(opts.Depth)
			}
		},
	},
	{
		Name: "interface",
		Run: func(_ options, iterations int) {
			var c Counter = &counter{}
			for range iterations {
				counters.Set(&c, func() {
					counters.With(func(value scoped.Option[Counter]) {
						if c, ok := value.Get(); ok {
							(*c).Increment()
						}
					})
				})
			}
		},
	},
}

func nested(depth int) int {
	if depth <= 0 {
		return scoped.With(number, scoped.Option[int].OrDefault)
	}

	return scoped.Set(number, &depth, func() int {
		return nested(depth - 1)
	})
}

var errLeakedScope = errors.New("scope still active after workload")

func run(opts options, out io.Writer, pretty bool) error {
	if opts.Iterations <= 0 || opts.Goroutines <= 0 {
		return fmt.Errorf("iterations and goroutines must be positive, got %d and %d",
			opts.Iterations, opts.Goroutines)
	}

	profileMode, err := profileModeOf(opts.Profile)
	if err != nil {
		return err
	}

	if profileMode != nil {
		defer profile.Start(profileMode, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	var results []result

	for _, wl := range workloads {
		res, err := measure(wl, opts)
		if err != nil {
			return fmt.Errorf("workload %q: %w", wl.Name, err)
		}

		slog.Debug("Workload finished",
			slog.String("name", res.Name),
			slog.Duration("elapsed", res.Elapsed))

		results = append(results, res)
	}

	return writeResults(out, results, pretty)
}

func measure(wl workload, opts options) (result, error) {
	perGoroutine := max(1, opts.Iterations/opts.Goroutines)

	var g errgroup.Group

	start := time.Now()

	for range opts.Goroutines {
		g.Go(func() error {
			wl.Run(opts, perGoroutine)

			if active := scoped.Active(); len(active) > 0 {
				return fmt.Errorf("%w: %v", errLeakedScope, active)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result{}, err
	}

	return result{
		Name:       wl.Name,
		Iterations: perGoroutine * opts.Goroutines,
		Elapsed:    time.Since(start),
	}, nil
}

func profileModeOf(name string) (func(*profile.Profile), error) {
	switch name {
	case "", "none":
		return nil, nil
	case "cpu":
		return profile.CPUProfile, nil
	case "mem":
		return profile.MemProfile, nil
	case "block":
		return profile.BlockProfile, nil
	case "mutex":
		return profile.MutexProfile, nil
	}

	return nil, fmt.Errorf("unknown profile %q", name)
}

func writeResults(out io.Writer, results []result, pretty bool) error {
	if !pretty {
		for _, res := range results {
			_, err := fmt.Fprintf(out, "%s\t%d\t%.2f\n", res.Name, res.Iterations, res.NanosPerOp())
			if err != nil {
				return fmt.Errorf("write result: %w", err)
			}
		}

		return nil
	}

	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', tabwriter.AlignRight)
	_, _ = fmt.Fprintln(w, "workload\titerations\tns/op\t")

	for _, res := range results {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%.2f\t\n", res.Name, res.Iterations, res.NanosPerOp())
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush results: %w", err)
	}

	return nil
}
