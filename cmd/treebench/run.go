package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bobboyms/latchtree/pkg/config"
	"github.com/bobboyms/latchtree/pkg/logging"
	"github.com/bobboyms/latchtree/pkg/metrics"
	"github.com/bobboyms/latchtree/pkg/report"
	"github.com/bobboyms/latchtree/pkg/workload"
)

// newRunCmd builds the "run" subcommand: spec.md §8's concrete scenarios
// (S1-S6) are all reachable as flag combinations of a single worker-pool
// run rather than one subcommand per scenario, e.g.:
//
//	treebench run --variant avl --workers 16 --ops 2000000 \
//	  --insert-ratio 34 --delete-ratio 33 --lookup-ratio 33 --seed 7
func newRunCmd() *cobra.Command {
	v := config.NewViper()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Drive a concurrent workload against one tree variant",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := config.LoadRun(v)
			if err != nil {
				return err
			}
			return runBenchmark(r)
		},
	}
	config.BindRunFlags(cmd, v)
	return cmd
}

func runBenchmark(r config.Run) error {
	logger := logging.Must(r.Debug)
	defer logger.Sync()

	tree, err := newTree(r.Variant, r.PoolSize)
	if err != nil {
		return err
	}

	reg := metrics.New(r.Variant)
	if r.MetricsAddr != "" {
		go func() {
			if err := reg.Serve(r.MetricsAddr); err != nil {
				logger.Warn("metrics server stopped", zap.Error(err))
			}
		}()
		logger.Info("serving metrics", zap.String("addr", r.MetricsAddr))
	}

	oplog := workload.NewOpLog()
	mix := workload.Mix{Insert: r.InsertRatio, Delete: r.DeleteRatio, Lookup: r.LookupRatio}

	opsPerWorker := r.Ops / r.Workers
	var counts report.OpCounts
	var countsMu sync.Mutex

	logger.Info("starting run",
		zap.String("variant", r.Variant),
		zap.Int("workers", r.Workers),
		zap.Int("ops", r.Ops),
		zap.Uint64("seed", r.Seed),
	)

	started := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < r.Workers; w++ {
		wg.Add(1)
		go func(workerSeed uint64) {
			defer wg.Done()
			sampler := workload.NewSampler(workerSeed, r.KeySpace, mix)
			var local report.OpCounts
			for i := 0; i < opsPerWorker; i++ {
				kind, key := sampler.Next()
				opStart := time.Now()
				switch kind {
				case workload.SampledInsert:
					ok := tree.Insert(key, struct{}{})
					reg.ObserveInsert(ok, time.Since(opStart).Seconds())
					oplog.Record(workload.OpInsert, key, ok)
					local.Inserts++
					if ok {
						local.InsertHits++
					}
				case workload.SampledDelete:
					ok := tree.Delete(key)
					reg.ObserveDelete(ok, time.Since(opStart).Seconds())
					oplog.Record(workload.OpDelete, key, ok)
					local.Deletes++
					if ok {
						local.DeleteHits++
					}
				case workload.SampledLookup:
					ok := tree.Lookup(key)
					reg.ObserveLookup(ok, time.Since(opStart).Seconds())
					local.Lookups++
					if ok {
						local.LookupHits++
					}
				}
			}
			countsMu.Lock()
			counts.Inserts += local.Inserts
			counts.InsertHits += local.InsertHits
			counts.Deletes += local.Deletes
			counts.DeleteHits += local.DeleteHits
			counts.Lookups += local.Lookups
			counts.LookupHits += local.LookupHits
			countsMu.Unlock()
		}(r.Seed + uint64(w))
	}
	wg.Wait()
	elapsed := time.Since(started)

	logger.Info("run complete",
		zap.Duration("elapsed", elapsed),
		zap.Int64("inserts", counts.Inserts),
		zap.Int64("deletes", counts.Deletes),
		zap.Int64("lookups", counts.Lookups),
	)

	if mismatches := workload.CheckLinearizable(oplog.Entries()); len(mismatches) != 0 {
		logger.Error("linearizability check failed", zap.Int("mismatches", len(mismatches)))
		for _, m := range mismatches[:min(5, len(mismatches))] {
			logger.Error("mismatch", zap.String("detail", m.String()))
		}
	} else {
		logger.Info("linearizability check passed", zap.Int("entries", len(oplog.Entries())))
	}

	validErr := tree.Validate()
	if validErr != nil {
		logger.Error("structural validation failed", zap.Error(validErr))
	} else {
		logger.Info("structural validation passed")
	}

	live, height := tree.Shape()
	summary := report.Summary{
		RunID:     oplog.RunID.String(),
		Variant:   r.Variant,
		Scenario:  fmt.Sprintf("workers=%d ops=%d keyspace=%d", r.Workers, r.Ops, r.KeySpace),
		Seed:      r.Seed,
		Workers:   r.Workers,
		StartedAt: started.UnixNano(),
		ElapsedNS: elapsed.Nanoseconds(),
		Ops:       counts,
		Shape:     report.TreeShape{LiveKeys: live, Height: height},
		Valid:     validErr == nil,
	}
	if validErr != nil {
		summary.ValidErr = validErr.Error()
	}

	if r.ReportPath != "" {
		if err := report.WriteFile(r.ReportPath, summary); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logger.Info("wrote report", zap.String("path", r.ReportPath))
	}

	if validErr != nil {
		return fmt.Errorf("structural validation failed: %w", validErr)
	}
	return nil
}
