// Package sim drives a B-tree through a random insert/delete workload and
// checks it against a skip list after every operation.
package sim

import (
	"fmt"
	"log/slog"
	mathrand "math/rand"

	"github.com/cockroachdb/errors"
	"github.com/go-faker/faker/v4"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"

	"btree/btree"
	"btree/config"
	"btree/logging"
	"btree/skiplist"
)

var (
	ErrDivergence = errors.New("tree diverged from reference set")
	ErrNoKeys     = errors.New("key source returned no keys")
)

// KeySource returns the pool of n keys a run draws its operations from.
// The same seed must give the same pool.
type KeySource func(n int, seed uint64) ([]int, error)

// FakerKeys returns n distinct random keys in [1, 10n]. It reseeds faker's
// package-level source, so it must not race with other faker users.
func FakerKeys(n int, seed uint64) ([]int, error) {
	faker.SetRandomSource(faker.NewSafeSource(mathrand.NewSource(int64(seed))))
	return faker.RandomInt(1, 10*n, n)
}

type Options struct {
	Degree      int
	Ops         int
	KeySpace    int
	InsertRatio float64
	Seed        uint64
	Keys        KeySource
	Logger      *slog.Logger
}

func OptionsFrom(cfg config.Config, logger *slog.Logger) Options {
	return Options{
		Degree:      cfg.Degree,
		Ops:         cfg.Ops,
		KeySpace:    cfg.KeySpace,
		InsertRatio: cfg.InsertRatio,
		Seed:        cfg.RandSeed,
		Keys:        FakerKeys,
		Logger:      logger,
	}
}

type Report struct {
	Ops        int
	Inserts    int // inserts of a new key
	Duplicates int // inserts rejected as duplicates
	Deletes    int // deletes of a present key
	Misses     int // deletes of an absent key
	MaxHeight  int
	FinalLen   int
	Events     map[btree.Op]int
}

// Run executes opts.Ops random operations. It stops at the first operation
// after which the tree breaks an invariant or disagrees with the reference set.
func Run(opts Options) (Report, error) {
	if opts.Keys == nil {
		opts.Keys = FakerKeys
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	rep := Report{Events: make(map[btree.Op]int)}

	keys, err := opts.Keys(opts.KeySpace, opts.Seed)
	if err != nil {
		return rep, fmt.Errorf("generate keys: %w", err)
	}
	if len(keys) == 0 {
		return rep, ErrNoKeys
	}

	counter := btree.ObserverFunc[int](func(e btree.Event[int]) { rep.Events[e.Op]++ })
	tree, err := btree.New[int](opts.Degree, btree.WithObserver[int](counter))
	if err != nil {
		return rep, err
	}
	ref := skiplist.New[int](opts.Seed)
	r := rand.New(rand.NewSource(opts.Seed))

	opts.Logger.Info("simulation started", "degree", opts.Degree, "ops", opts.Ops, "keys", len(keys))

	for i := 0; i < opts.Ops; i++ {
		key := keys[r.Intn(len(keys))]

		if r.Float64() < opts.InsertRatio {
			err := tree.Insert(key)
			added := ref.Insert(key)
			switch {
			case added && err != nil:
				return rep, fmt.Errorf("op %d: insert %d: %w", i, key, err)
			case !added && !errors.Is(err, btree.ErrDuplicateKey):
				return rep, fmt.Errorf("%w: op %d: insert of present key %d returned %v", ErrDivergence, i, key, err)
			case added:
				rep.Inserts++
			default:
				rep.Duplicates++
			}
		} else {
			removed := tree.Delete(key)
			if want := ref.Delete(key); removed != want {
				return rep, fmt.Errorf("%w: op %d: delete %d returned %v, want %v", ErrDivergence, i, key, removed, want)
			}
			if removed {
				rep.Deletes++
			} else {
				rep.Misses++
			}
		}
		rep.Ops++

		if err := tree.Verify(); err != nil {
			return rep, fmt.Errorf("op %d: %w", i, err)
		}
		if got, want := tree.Contains(key), ref.Contains(key); got != want {
			return rep, fmt.Errorf("%w: op %d: search %d found=%v, want %v", ErrDivergence, i, key, got, want)
		}
		if !slices.Equal(tree.Traverse(), ref.Keys()) {
			return rep, fmt.Errorf("%w: op %d: traversal differs after key %d", ErrDivergence, i, key)
		}
		rep.MaxHeight = max(rep.MaxHeight, tree.Height())

		if (i+1)%1000 == 0 {
			opts.Logger.Debug("simulation progress", "ops", i+1, "len", tree.Len(), "height", tree.Height())
		}
	}

	rep.FinalLen = tree.Len()
	opts.Logger.Info("simulation finished",
		"inserts", rep.Inserts, "deletes", rep.Deletes,
		"splits", rep.Events[btree.OpSplit], "merges", rep.Events[btree.OpMerge],
		"max_height", rep.MaxHeight)
	return rep, nil
}
