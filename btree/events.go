package btree

import (
	"log/slog"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// Op identifies a structural step taken by the tree.
type Op uint8

const (
	OpInsert      Op = iota + 1 // a key was added to a leaf
	OpDelete                    // a key was removed from the tree
	OpSplit                     // a full child was split; Key is the lifted median
	OpRootGrow                  // a new root was created; Key is its only key
	OpRootShrink                // the keyless root was dropped; Key is unset
	OpBorrowLeft                // a child took a key from its left sibling; Key is the separator moved down
	OpBorrowRight               // a child took a key from its right sibling; Key is the separator moved down
	OpMerge                     // two siblings were fused; Key is the separator moved down
	OpPredecessor               // an internal key was replaced by Key, its predecessor
	OpSuccessor                 // an internal key was replaced by Key, its successor
)

var opNames = map[Op]string{
	OpInsert:      "insert",
	OpDelete:      "delete",
	OpSplit:       "split",
	OpRootGrow:    "root-grow",
	OpRootShrink:  "root-shrink",
	OpBorrowLeft:  "borrow-left",
	OpBorrowRight: "borrow-right",
	OpMerge:       "merge",
	OpPredecessor: "predecessor",
	OpSuccessor:   "successor",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "unknown"
}

// Event is emitted to observers as the tree changes shape.
type Event[K constraints.Ordered] struct {
	Op  Op
	Key K
}

// Observer receives tree events synchronously, in the order they happen.
type Observer[K constraints.Ordered] interface {
	Observe(e Event[K])
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc[K constraints.Ordered] func(e Event[K])

func (f ObserverFunc[K]) Observe(e Event[K]) {
	f(e)
}

// Recorder collects events in memory, e.g. to replay the steps of one
// operation in a visualization.
type Recorder[K constraints.Ordered] struct {
	events []Event[K]
}

func NewRecorder[K constraints.Ordered]() *Recorder[K] {
	return &Recorder[K]{}
}

func (r *Recorder[K]) Observe(e Event[K]) {
	r.events = append(r.events, e)
}

// Events returns the events recorded since the last Reset.
func (r *Recorder[K]) Events() []Event[K] {
	return slices.Clone(r.events)
}

// Count returns how many recorded events have the given op.
func (r *Recorder[K]) Count(op Op) int {
	c := 0
	for _, e := range r.events {
		if e.Op == op {
			c++
		}
	}
	return c
}

func (r *Recorder[K]) Reset() {
	r.events = r.events[:0]
}

// LogObserver logs every event at debug level.
func LogObserver[K constraints.Ordered](logger *slog.Logger) Observer[K] {
	return ObserverFunc[K](func(e Event[K]) {
		if e.Op == OpRootShrink {
			logger.Debug("btree event", "op", e.Op)
			return
		}
		logger.Debug("btree event", "op", e.Op, "key", e.Key)
	})
}
