// Command webgraph exposes the compressed web-graph engine's batch
// operations — transpose and code-choice advisory — as subcommands: stdlib
// `flag`, one FlagSet per subcommand, no third-party CLI framework.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/webgraph-go/bvgraph/bitio"
	"github.com/webgraph-go/bvgraph/bvgraph"
	"github.com/webgraph-go/bvgraph/graphutil"
	"github.com/webgraph-go/bvgraph/internal/codeerr"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "transpose":
		err = runTranspose(os.Args[2:])
	case "optimize_codes":
		err = runOptimizeCodes(os.Args[2:])
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "webgraph: unknown subcommand %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "webgraph: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: webgraph <command> [flags]

commands:
  transpose       read basename.graph/.properties, write the transposed graph
  optimize_codes  report the per-field optimal code choice for a graph`)
}

func openProperties(basename string) (bvgraph.Properties, error) {
	f, err := os.Open(basename + ".properties")
	if err != nil {
		return bvgraph.Properties{}, err
	}
	defer f.Close()
	return bvgraph.Load(f)
}

func runTranspose(args []string) (err error) {
	defer codeerr.Recover(&err)
	fs := flag.NewFlagSet("transpose", flag.ExitOnError)
	basename := fs.String("basename", "", "input graph basename (reads basename.graph/.properties)")
	out := fs.String("out", "", "output graph basename (defaults to basename+\".transpose\")")
	batchSize := fs.Int("batch-size", 1_000_000, "SortPairs in-memory batch size")
	tempDir := fs.String("temp-dir", "", "scratch directory for SortPairs batches (must be empty or not exist; defaults to a fresh os.MkdirTemp directory)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *basename == "" {
		return fmt.Errorf("-basename is required")
	}
	outBase := *out
	if outBase == "" {
		outBase = *basename + ".transpose"
	}
	tmp := *tempDir
	if tmp == "" {
		dir, err := os.MkdirTemp("", "webgraph-transpose-*")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)
		tmp = dir
	}

	props, err := openProperties(*basename)
	if err != nil {
		return fmt.Errorf("load properties: %w", err)
	}

	gf, err := os.Open(*basename + ".graph")
	if err != nil {
		return fmt.Errorf("open graph file: %w", err)
	}
	defer gf.Close()
	backend := bitio.NewFileWordBackendReader(gf, 64, props.BigEndian)
	src := bvgraph.NewBVGraphSequential(backend, props)

	transposed, err := graphutil.Transpose(src, *batchSize, tmp)
	if err != nil {
		return fmt.Errorf("transpose: %w", err)
	}
	defer transposed.Close()

	of, err := os.Create(outBase + ".graph")
	if err != nil {
		return err
	}
	defer of.Close()
	outBackend := bitio.NewFileWordBackendWriter(of, 64, props.BigEndian)
	arcs, err := bvgraph.CompressSequential(transposed, outBackend, props)
	if err != nil {
		return fmt.Errorf("compress transposed graph: %w", err)
	}

	props.Arcs = arcs
	pf, err := os.Create(outBase + ".properties")
	if err != nil {
		return err
	}
	defer pf.Close()
	if err := bvgraph.Save(pf, props); err != nil {
		return err
	}

	fmt.Printf("transposed %d nodes, %d arcs -> %s.graph\n", props.Nodes, arcs, outBase)
	return nil
}

func runOptimizeCodes(args []string) error {
	fs := flag.NewFlagSet("optimize_codes", flag.ExitOnError)
	basename := fs.String("basename", "", "input graph basename (reads basename.graph/.properties)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *basename == "" {
		return fmt.Errorf("-basename is required")
	}

	props, err := openProperties(*basename)
	if err != nil {
		return fmt.Errorf("load properties: %w", err)
	}
	gf, err := os.Open(*basename + ".graph")
	if err != nil {
		return fmt.Errorf("open graph file: %w", err)
	}
	defer gf.Close()
	backend := bitio.NewFileWordBackendReader(gf, 64, props.BigEndian)

	stats, err := bvgraph.GatherStats(backend, props)
	if err != nil {
		return fmt.Errorf("gather stats: %w", err)
	}
	opt := stats.BestPerField()
	fmt.Printf("total bits under current codes: %d\n", stats.ActualBits(props.CompFlags, props.ZetaK))
	fmt.Printf("total bits under optimal per-field codes: %d\n", opt.Bits)
	fmt.Printf("outdegrees: current=%s optimal=%s\n", props.CompFlags.Outdegrees, opt.Outdegrees)
	fmt.Printf("references: current=%s optimal=%s\n", props.CompFlags.References, opt.References)
	fmt.Printf("blocks:     current=%s optimal=%s\n", props.CompFlags.Blocks, opt.Blocks)
	fmt.Printf("intervals:  current=%s optimal=%s\n", props.CompFlags.Intervals, opt.Intervals)
	fmt.Printf("residuals:  current=%s optimal=%s\n", props.CompFlags.Residuals, opt.Residuals)
	return nil
}
