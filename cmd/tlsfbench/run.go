package main

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/joshuapare/tlsfkit/tlsf"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	runCapacity int
	runMinSize  int
	runMaxSize  int
	runSeed     int64
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().IntVar(&runCapacity, "capacity", 1<<20, "pool size in bytes")
	cmd.Flags().IntVar(&runMinSize, "min", 96, "minimum request size")
	cmd.Flags().IntVar(&runMaxSize, "max", 1024, "maximum request size (exclusive)")
	cmd.Flags().Int64Var(&runSeed, "seed", 1, "random seed")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Allocate random sizes until exhaustion, then free in random order",
		Long: `run fills a single pool with uniformly random sizes in [min, max) until
allocation fails, then frees every block back in random order, reporting
per-operation timing percentiles and final utilization -- the Go rewrite of
the original TLSF benchmark's main().`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd)
		},
	}
}

func runBench(cmd *cobra.Command) error {
	if runMinSize <= 0 || runMaxSize <= runMinSize {
		return fmt.Errorf("tlsfbench: require 0 < min < max, got min=%d max=%d", runMinSize, runMaxSize)
	}

	a := tlsf.New()
	if err := a.AddPool(make([]byte, runCapacity)); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(runSeed))
	span := runMaxSize - runMinSize

	var refs []tlsf.Ref
	var allocLatencies []time.Duration
	var allocatedTotal int64

	for {
		size := runMinSize + rng.Intn(span)
		size = (size + 15) &^ 15

		start := time.Now()
		ref, payload, err := a.Alloc(int32(size))
		elapsed := time.Since(start)
		if err != nil {
			break
		}
		allocLatencies = append(allocLatencies, elapsed)
		allocatedTotal += int64(len(payload))
		refs = append(refs, ref)
	}

	var freeLatencies []time.Duration
	for len(refs) > 0 {
		i := rng.Intn(len(refs))
		ref := refs[i]
		refs[i] = refs[len(refs)-1]
		refs = refs[:len(refs)-1]

		start := time.Now()
		if err := a.Free(ref); err != nil {
			return err
		}
		freeLatencies = append(freeLatencies, time.Since(start))
	}

	return report(cmd, len(allocLatencies), allocatedTotal, runCapacity, allocLatencies, freeLatencies)
}

func report(cmd *cobra.Command, count int, allocatedTotal int64, capacity int, allocLatencies, freeLatencies []time.Duration) error {
	p := message.NewPrinter(language.English)
	out := cmd.OutOrStdout()

	if _, err := p.Fprintf(out, "allocations: %d\n", count); err != nil {
		return err
	}
	if _, err := p.Fprintf(out, "utilization: %.2f%% (%d / %d bytes)\n",
		100*float64(allocatedTotal)/float64(capacity), allocatedTotal, capacity); err != nil {
		return err
	}

	for _, row := range []struct {
		label     string
		latencies []time.Duration
	}{
		{"alloc", allocLatencies},
		{"free", freeLatencies},
	} {
		p50, p95, p99 := percentiles(row.latencies)
		if _, err := p.Fprintf(out, "%-6s p50=%-12s p95=%-12s p99=%-12s\n", row.label, p50, p95, p99); err != nil {
			return err
		}
	}
	return nil
}

func percentiles(latencies []time.Duration) (p50, p95, p99 time.Duration) {
	if len(latencies) == 0 {
		return 0, 0, 0
	}
	sorted := append([]time.Duration(nil), latencies...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	at := func(q float64) time.Duration {
		idx := int(q * float64(len(sorted)-1))
		return sorted[idx]
	}
	return at(0.50), at(0.95), at(0.99)
}
