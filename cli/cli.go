package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"btree/btree"
)

var (
	errColor  = color.New(color.FgRed)
	infoColor = color.New(color.FgCyan)
)

type Cli struct {
	scanner    *bufio.Scanner
	out        io.Writer
	tree       *btree.Tree[int]
	visualizer *btree.Visualizer[int]
	recorder   *btree.Recorder[int]
	logger     *slog.Logger
}

// NewCli wires a REPL around t. rec must be registered as an observer of t
// so the structural steps of every command can be shown.
func NewCli(s *bufio.Scanner, out io.Writer, t *btree.Tree[int], rec *btree.Recorder[int], logger *slog.Logger) *Cli {
	v := &btree.Visualizer[int]{
		Tree: t,
	}
	return &Cli{scanner: s, out: out, tree: t, visualizer: v, recorder: rec, logger: logger}
}

// Start reads commands until EXIT or end of input.
func (c *Cli) Start() {
	c.printHelp()
	c.printPrompt()
	for c.scanner.Scan() {
		if !c.processInput(c.scanner.Text()) {
			return
		}
		c.printPrompt()
	}
}

// Seed inserts keys, skipping the ones already present.
func (c *Cli) Seed(keys []int) int {
	added := 0
	for _, k := range keys {
		if err := c.tree.Insert(k); err == nil {
			added++
		}
	}
	c.recorder.Reset()
	c.logger.Info("seeded tree", "keys", added, "height", c.tree.Height())
	return added
}

func (c *Cli) printHelp() {
	fmt.Fprintf(c.out, `
B-Tree CLI (minimum degree %d)

Available Commands:
  INSERT <key>    Insert an integer key into the B-Tree (alias SET)
  DEL <key>       Remove a key from the B-Tree
  GET <key>       Look up a key and show the node holding it (alias SEARCH)
  TRAVERSE        Print all keys in order
  PRINT           Draw the B-Tree
  CHECK           Verify all B-Tree invariants
  STATS           Show size and height
  HELP            Show this message
  EXIT            Terminate this session
`, c.tree.Degree())
}

func (c *Cli) printPrompt() {
	fmt.Fprint(c.out, "> ")
}

// processInput runs one command line and reports whether to keep reading.
func (c *Cli) processInput(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 1 {
		return true
	}
	command := strings.ToLower(fields[0])
	switch command {
	default:
		errColor.Fprintf(c.out, "Unknown command \"%s\"\n", command)
	case "insert", "set":
		c.processInsertCommand(fields[1:])
	case "del", "delete":
		c.processDeleteCommand(fields[1:])
	case "get", "search":
		c.processGetCommand(fields[1:])
	case "traverse", "list":
		fmt.Fprintln(c.out, c.tree.Traverse())
	case "print":
		fmt.Fprintln(c.out, c.visualizer.Visualize())
	case "check":
		c.processCheckCommand()
	case "stats":
		fmt.Fprintf(c.out, "keys: %d, height: %d, degree: %d\n", c.tree.Len(), c.tree.Height(), c.tree.Degree())
	case "help":
		c.printHelp()
	case "exit", "quit":
		return false
	}
	return true
}

func parseKey(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("expected exactly one key")
	}
	return strconv.Atoi(args[0])
}

func (c *Cli) processInsertCommand(args []string) {
	key, err := parseKey(args)
	if err != nil {
		fmt.Fprintln(c.out, "Usage: INSERT <integer key>")
		return
	}
	c.recorder.Reset()
	if err := c.tree.Insert(key); err != nil {
		if errors.Is(err, btree.ErrDuplicateKey) {
			errColor.Fprintf(c.out, "Key %d already exists.\n", key)
		} else {
			errColor.Fprintf(c.out, "Insert failed: %v\n", err)
		}
		c.logger.Debug("insert rejected", "key", key, "err", err)
		return
	}
	c.showChange(key, btree.InsertColor)
}

func (c *Cli) processDeleteCommand(args []string) {
	key, err := parseKey(args)
	if err != nil {
		fmt.Fprintln(c.out, "Usage: DEL <integer key>")
		return
	}
	if !c.tree.Contains(key) {
		fmt.Fprintln(c.out, "Key not found.")
		return
	}

	// Show the key about to go, then the tree after removing it.
	c.visualizer.Highlight(key, btree.DeleteColor)
	fmt.Fprintln(c.out, c.visualizer.Visualize())
	c.visualizer.ClearHighlights()

	c.recorder.Reset()
	c.tree.Delete(key)
	c.showChange(key, nil)
}

func (c *Cli) showChange(key int, highlight *color.Color) {
	fmt.Fprintln(c.out, c.tree)
	if highlight != nil {
		c.visualizer.Highlight(key, highlight)
	}
	fmt.Fprintln(c.out, c.visualizer.Visualize())
	c.visualizer.ClearHighlights()

	for _, e := range c.recorder.Events() {
		switch e.Op {
		case btree.OpInsert, btree.OpDelete:
			continue
		case btree.OpRootShrink:
			infoColor.Fprintf(c.out, "  %s\n", e.Op)
		default:
			infoColor.Fprintf(c.out, "  %s %d\n", e.Op, e.Key)
		}
	}
}

func (c *Cli) processGetCommand(args []string) {
	key, err := parseKey(args)
	if err != nil {
		fmt.Fprintln(c.out, "Usage: GET <integer key>")
		return
	}
	node, found := c.tree.Search(key)
	if !found {
		fmt.Fprintln(c.out, "Key not found.")
		return
	}
	fmt.Fprintf(c.out, "Found %d in node %v\n", key, node.Keys())
}

func (c *Cli) processCheckCommand() {
	if err := c.tree.Verify(); err != nil {
		errColor.Fprintf(c.out, "%v\n", err)
		c.logger.Error("invariant check failed", "err", err)
		return
	}
	fmt.Fprintln(c.out, "OK")
}
