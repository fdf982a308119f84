package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bobboyms/latchtree/pkg/logging"
)

// newValidateCmd builds a tree of the requested variant by warming it up
// with random keys, then runs the single-threaded structural validator
// against it once quiescent.
func newValidateCmd() *cobra.Command {
	var variant string
	var warmupCount int
	var keySpace int32
	var seed uint64
	var debug bool
	var poolSize int

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Warm up a tree and run its structural validator",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.Must(debug)
			defer logger.Sync()

			tree, err := newTree(variant, poolSize)
			if err != nil {
				return err
			}

			inserted := tree.Warmup(warmupCount, keySpace, seed, true)
			logger.Info("warmup complete", zap.Int("inserted", inserted))

			live, height := tree.Shape()
			logger.Info("tree shape", zap.Int("live_keys", live), zap.Int32("height", height))

			if err := tree.Validate(); err != nil {
				logger.Error("validation failed", zap.Error(err))
				return fmt.Errorf("validation failed: %w", err)
			}
			logger.Info("validation passed")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&variant, "variant", "bst", "tree variant to validate: bst or avl")
	flags.IntVar(&warmupCount, "count", 100_000, "number of distinct keys to insert before validating")
	flags.Int32Var(&keySpace, "keyspace", 1_000_000, "exclusive upper bound on generated keys")
	flags.Uint64Var(&seed, "seed", 1, "PRNG seed")
	flags.BoolVar(&debug, "debug", false, "use development (console) logging instead of JSON")
	flags.IntVar(&poolSize, "pool-size", 0, "if > 0, allocate tree nodes from a pkg/arena pool "+
		"with this many queued retirements before the reclamation backstop kicks in")

	return cmd
}
