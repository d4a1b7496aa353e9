package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/sessionauth"
	"github.com/spf13/cobra"
)

type loadtestOptions struct {
	authType    string
	sessions    int
	concurrency int
	ops         int
	ttl         time.Duration
}

func loadtestCmd() *cobra.Command {
	var opts loadtestOptions

	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Seed sessions and measure resolve and destroy latency",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.sessions <= 0 || opts.concurrency <= 0 || opts.ops <= 0 {
				return errors.New("sessions, concurrency and ops must be > 0")
			}
			return runLoadtest(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.authType, "auth-type", string(sessionauth.AuthTypePersistentSession), "strategy to exercise")
	cmd.Flags().IntVar(&opts.sessions, "sessions", 100000, "number of sessions to seed")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 256, "number of concurrent workers")
	cmd.Flags().IntVar(&opts.ops, "ops", 200000, "resolve operations to run")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", time.Hour, "session duration for expiring strategies")

	return cmd
}

func runLoadtest(ctx context.Context, out io.Writer, opts loadtestOptions) error {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg, err := sessionauth.ConfigFromEnv()
	if err != nil {
		return err
	}
	cfg.AuthType = sessionauth.AuthType(opts.authType)
	cfg.Session.Duration = opts.ttl
	cfg.Audit.Enabled = false
	cfg.Security.LoginThrottle = false
	if cfg.AuthType == sessionauth.AuthTypeBearer && len(cfg.JWT.PrivateKey) == 0 {
		cfg.JWT.PrivateKey = []byte("loadtest-only-signing-key-0123456789")
	}

	in, err := setupInfra(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer in.Close()

	engine, err := buildEngine(cfg, in, nil, logger)
	if err != nil {
		return err
	}
	defer engine.Close()

	tokens := make([]string, opts.sessions)
	fmt.Fprintf(out, "seeding %d %s sessions...\n", opts.sessions, engine.Kind())
	startSeed := time.Now()
	for i := range tokens {
		tok, err := engine.CreateSession(ctx, "u"+strconv.Itoa(i))
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		tokens[i] = tok
	}
	fmt.Fprintf(out, "seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	resolveStats := runPhase(opts.ops, opts.concurrency, func(r *rand.Rand, _ int) error {
		_, err := engine.ResolveSession(ctx, tokens[r.Intn(len(tokens))])
		return err
	})

	var destroyed atomic.Int64
	destroyOps := min(opts.ops, len(tokens))
	destroyStats := runPhase(destroyOps, opts.concurrency, func(_ *rand.Rand, i int) error {
		err := engine.EndSession(ctx, tokens[i])
		if err == nil {
			destroyed.Add(1)
		}
		return err
	})

	fmt.Fprintln(out, "---- results ----")
	printStats(out, "resolve", resolveStats)
	printStats(out, "destroy", destroyStats)
	fmt.Fprintf(out, "destroyed=%d\n", destroyed.Load())
	return nil
}

// runPhase runs ops calls of fn over concurrency workers. Each call gets a
// per-worker rand and its operation index.
func runPhase(ops, concurrency int, fn func(r *rand.Rand, i int) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				err := fn(r, i)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(out io.Writer, name string, s phaseStats) {
	fmt.Fprintf(out, "%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
