package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/glimte/interpose"
	"github.com/glimte/interpose/contracts"
	"github.com/glimte/interpose/interceptors"
)

var (
	// Version information
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

const (
	markerTracked contracts.Marker = "tracked"
	markerCounted contracts.Marker = "counted"
	markerTimed   contracts.Marker = "timed"
	markerGuarded contracts.Marker = "guarded"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "interpose",
		Short: "Exercise method interception and per-method metrics",
		Long: `interpose drives a sample service through marker based bindings and
prints the call counts and mean durations recorded for each method.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildTime),
	}

	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	var opts runOptions
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a workload against the sample service",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(verbose)
			results, err := run(cmd.Context(), logger, opts)
			if err != nil {
				return err
			}
			printMetrics(results)
			return nil
		},
	}
	runCmd.Flags().IntVarP(&opts.workers, "workers", "w", 2, "Number of concurrent callers")
	runCmd.Flags().IntVarP(&opts.calls, "calls", "n", 500, "Calls per worker and method")
	runCmd.Flags().IntVar(&opts.failEvery, "fail-every", 0, "Make every Nth reservation fail (0 disables)")
	runCmd.Flags().IntVar(&opts.timerCapacity, "timer-capacity", interpose.DefaultConfig().TimerCapacity, "Samples kept per timer")
	runCmd.Flags().IntVar(&opts.breakerThreshold, "breaker-threshold", 0, "Open a circuit breaker on reservations after N consecutive failures (0 disables)")
	runCmd.Flags().BoolVar(&opts.everyMethod, "every-method", false, "Bind to every method of tracked types, marked or not")

	rootCmd.AddCommand(runCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

type runOptions struct {
	workers       int
	calls         int
	failEvery     int
	timerCapacity int
	everyMethod   bool

	breakerThreshold int
}

// methodResult is one row of the report
type methodResult struct {
	Method   string
	Calls    int64
	Counted  bool
	Mean     time.Duration
	Samples  int
	Timed    bool
	Failures int64
}

func run(ctx context.Context, logger *slog.Logger, opts runOptions) ([]methodResult, error) {
	if opts.workers <= 0 || opts.calls <= 0 {
		return nil, errors.New("workers and calls must be positive")
	}

	client, err := interpose.NewClient(
		interpose.WithLogger(logger),
		interpose.WithTimerCapacity(opts.timerCapacity),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	methodMatcher := interceptors.Matcher(interceptors.AnnotatedWith(markerCounted))
	if opts.everyMethod {
		methodMatcher = interceptors.Any()
	}
	if err := client.Register(interceptors.AnnotatedWith(markerTracked), methodMatcher, client.Counting()); err != nil {
		return nil, err
	}
	if err := client.Register(interceptors.AnnotatedWith(markerTracked), interceptors.AnnotatedWith(markerTimed), client.Timing(), client.Logging()); err != nil {
		return nil, err
	}

	if opts.breakerThreshold > 0 {
		breaker := interceptors.NewBreakerInterceptor(
			interceptors.WithFailureThreshold(opts.breakerThreshold),
			interceptors.WithBreakerLogger(logger),
		)
		if err := client.Register(interceptors.AnnotatedWith(markerTracked), interceptors.AnnotatedWith(markerGuarded), breaker); err != nil {
			return nil, err
		}
	}

	svc := newWarehouse(opts.failEvery)
	typeMarkers := contracts.NewMarkers(markerTracked)
	workload := []struct {
		name    string
		markers contracts.Markers
		args    func(i int) []interface{}
	}{
		{"Reserve", contracts.NewMarkers(markerCounted, markerTimed, markerGuarded), func(i int) []interface{} { return []interface{}{fmt.Sprintf("sku-%d", i%8), 1} }},
		{"Restock", contracts.NewMarkers(markerCounted), func(i int) []interface{} { return []interface{}{fmt.Sprintf("sku-%d", i%8), 2} }},
		{"Audit", contracts.NewMarkers(), func(int) []interface{} { return nil }},
	}

	methods := make([]contracts.Method, len(workload))
	targets := make([]interceptors.Target, len(workload))
	for i, w := range workload {
		methods[i], targets[i], err = client.WrapMethod(svc, w.name, typeMarkers, w.markers)
		if err != nil {
			return nil, err
		}
	}

	var mu sync.Mutex
	failures := make([]int64, len(workload))
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < opts.workers; w++ {
		g.Go(func() error {
			var failed [3]int64
			for i := 0; i < opts.calls; i++ {
				for m, target := range targets {
					if _, err := target(ctx, workload[m].args(i)); err != nil {
						if !errors.Is(err, errReservationRejected) && !errors.Is(err, interceptors.ErrCircuitOpen) {
							return err
						}
						failed[m]++
					}
				}
			}
			mu.Lock()
			for m := range failed {
				failures[m] += failed[m]
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]methodResult, len(methods))
	for i, method := range methods {
		results[i] = methodResult{Method: method.ID.Type + "." + method.ID.Method, Failures: failures[i]}
		if counter, ok := client.Registry().GetCounter(method.ID); ok {
			results[i].Calls = counter.Value()
			results[i].Counted = true
		}
		if timer, ok := client.Registry().GetTimer(method.ID); ok {
			results[i].Mean, results[i].Timed = timer.Value()
			results[i].Samples = timer.Len()
		}
	}
	return results, nil
}

// Output formatting functions

func printMetrics(results []methodResult) {
	if len(results) == 0 {
		fmt.Println("No methods instrumented")
		return
	}

	fmt.Printf("%-50s %-10s %-10s %-15s %-10s\n", "Method", "Calls", "Failures", "Mean", "Samples")
	fmt.Println(strings.Repeat("-", 99))

	for _, r := range results {
		calls := "-"
		if r.Counted {
			calls = fmt.Sprintf("%d", r.Calls)
		}
		mean := "-"
		if r.Timed {
			mean = r.Mean.String()
		}
		fmt.Printf("%-50s %-10s %-10d %-15s %-10d\n",
			truncate(r.Method, 50),
			calls,
			r.Failures,
			mean,
			r.Samples,
		)
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
