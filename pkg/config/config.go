// Package config defines cmd/treebench's run configuration and binds it to
// cobra flags through viper, so every setting can come from a flag or an
// environment variable (LATCHTREE_*), in that precedence order. No config
// file is read.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Run holds one benchmark invocation's settings (spec.md §8's scenario
// knobs: variant, worker count, key space, operation mix, seed).
type Run struct {
	Variant     string `mapstructure:"variant"`
	Workers     int    `mapstructure:"workers"`
	KeySpace    int32  `mapstructure:"keyspace"`
	Ops         int    `mapstructure:"ops"`
	InsertRatio int    `mapstructure:"insert-ratio"`
	DeleteRatio int    `mapstructure:"delete-ratio"`
	LookupRatio int    `mapstructure:"lookup-ratio"`
	Seed        uint64 `mapstructure:"seed"`
	MetricsAddr string `mapstructure:"metrics-addr"`
	ReportPath  string `mapstructure:"report-path"`
	Debug       bool   `mapstructure:"debug"`
	PoolSize    int    `mapstructure:"pool-size"`
}

// BindRunFlags registers Run's flags on cmd and binds each to a viper key
// of the same name, so LATCHTREE_WORKERS etc. work as well as the flags.
func BindRunFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.Flags()
	flags.String("variant", "bst", "tree variant to benchmark: bst or avl")
	flags.Int("workers", 8, "number of concurrent worker goroutines")
	flags.Int32("keyspace", 1_000_000, "exclusive upper bound on generated keys")
	flags.Int("ops", 1_000_000, "total operations across all workers")
	flags.Int("insert-ratio", 40, "relative weight of insert operations")
	flags.Int("delete-ratio", 20, "relative weight of delete operations")
	flags.Int("lookup-ratio", 40, "relative weight of lookup operations")
	flags.Uint64("seed", 1, "PRNG seed for key generation")
	flags.String("metrics-addr", "", "if set, serve prometheus metrics on this address")
	flags.String("report-path", "", "if set, write a BSON run summary to this path")
	flags.Bool("debug", false, "use development (console) logging instead of JSON")
	flags.Int("pool-size", 0, "if > 0, allocate tree nodes from a pkg/arena pool with this many "+
		"queued retirements before the reclamation backstop kicks in, instead of plain new()")

	for _, name := range []string{
		"variant", "workers", "keyspace", "ops", "insert-ratio",
		"delete-ratio", "lookup-ratio", "seed", "metrics-addr",
		"report-path", "debug", "pool-size",
	} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}
}

// LoadRun decodes a Run out of v, after BindRunFlags and viper's
// environment setup have populated it.
func LoadRun(v *viper.Viper) (Run, error) {
	var r Run
	if err := v.Unmarshal(&r); err != nil {
		return Run{}, fmt.Errorf("config: decode run settings: %w", err)
	}
	return r, nil
}

// NewViper returns a viper instance reading LATCHTREE_-prefixed environment
// variables, with "-" in flag names mapped to "_" for the env lookup.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("latchtree")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}
