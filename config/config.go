// Package config holds the settings shared by the btree commands.
package config

import (
	"errors"
	"fmt"

	"btree/btree"
	"btree/logging"
)

// Upper bounds for the sizes that are allocated up front.
const (
	MaxRecords  = 100_000
	MaxKeySpace = 100_000
)

type Config struct {
	Degree   int    // minimum degree of the tree
	LogLevel string // trace, debug, info, warn or error
	NoColor  bool   // disable highlighting in tree renderings

	Seed    bool // pre-populate the REPL tree with random keys
	Records int  // number of keys to seed with

	Ops         int     // operations per simulation run
	KeySpace    int     // distinct keys the simulation draws from
	InsertRatio float64 // share of simulated operations that are inserts
	RandSeed    uint64  // seed for generated keys and the simulation's operation mix
}

// Default returns the configuration used when no flags are given.
func Default() Config {
	return Config{
		Degree:      3,
		LogLevel:    "info",
		Records:     20,
		Ops:         10000,
		KeySpace:    1000,
		InsertRatio: 0.6,
		RandSeed:    1,
	}
}

// Validate reports every problem with c joined into one error.
func (c Config) Validate() error {
	var errs []error
	if c.Degree < btree.MinDegree {
		errs = append(errs, fmt.Errorf("%w: %d (must be at least %d)", btree.ErrInvalidDegree, c.Degree, btree.MinDegree))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}
	if c.Records < 0 || c.Records > MaxRecords {
		errs = append(errs, fmt.Errorf("records must be within [0, %d], got %d", MaxRecords, c.Records))
	}
	if c.Ops < 0 {
		errs = append(errs, fmt.Errorf("ops must not be negative, got %d", c.Ops))
	}
	if c.KeySpace < 1 || c.KeySpace > MaxKeySpace {
		errs = append(errs, fmt.Errorf("key space must be within [1, %d], got %d", MaxKeySpace, c.KeySpace))
	}
	if c.InsertRatio < 0 || c.InsertRatio > 1 {
		errs = append(errs, fmt.Errorf("insert ratio must be within [0, 1], got %v", c.InsertRatio))
	}
	return errors.Join(errs...)
}
