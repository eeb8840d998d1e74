package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"maps"
	"os"
	"runtime/debug"
	"slices"
	"strings"

	"github.com/amterp/color"
	mapset "github.com/deckarep/golang-set/v2"
	nwg "github.com/rhansen/nowarngraph"
	"github.com/rhansen/nowarngraph/internal/logging"
	"github.com/rhansen/nowarngraph/internal/syncmap"
	"golang.org/x/sync/errgroup"
)

var (
	cyanf    = color.New(color.FgCyan).SprintfFunc()
	hicyanf  = color.New(color.FgHiCyan).SprintfFunc()
	hiblackf = color.New(color.FgHiBlack).SprintfFunc()
)

type resolveFn = func(graphs []nwg.TargetGraph, parent *nwg.ProjectSpec, nearest nwg.NearestFunc) *nwg.TransitiveNoWarn
type outputFn = func(ctx context.Context, doc *nwg.Document, res *nwg.TransitiveNoWarn) error

type config struct {
	inputs  []string
	exec    bool
	resolve *resolveFn
	output  *outputFn
}

func ver() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi.Main.Version == "(devel)" {
		return ""
	}
	return bi.Main.Version
}

var allResolveFuncs = [...]resolveFn{
	nwg.Resolve,
	nwg.ResolveSat,
}

var allResolve = map[string]*resolveFn{
	"walk": &allResolveFuncs[0],
	"sat":  &allResolveFuncs[1],
}

var allOutputFuncs = [...]outputFn{
	outputTree,
	outputRaw,
	outputDot,
}

var allOutput = map[string]*outputFn{
	"tree": &allOutputFuncs[0],
	"raw":  &allOutputFuncs[1],
	"dot":  &allOutputFuncs[2],
}

func codesString(cs mapset.Set[nwg.Code]) string {
	strs := []string{}
	for _, c := range nwg.SortedCodes(cs) {
		strs = append(strs, string(c))
	}
	return strings.Join(strs, ",")
}

func outputTree(ctx context.Context, doc *nwg.Document, res *nwg.TransitiveNoWarn) error {
	noneMsg := hiblackf("(no transitive suppressions)")
	for _, fw := range res.Frameworks {
		fmt.Printf("%s\n", hicyanf("%v", fw))
		pkgs := res.PackageSpecific[fw]
		if len(pkgs) == 0 {
			fmt.Printf("  %s\n", noneMsg)
			continue
		}
		for _, id := range slices.SortedFunc(maps.Keys(pkgs), func(a, b nwg.PackageId) int {
			return strings.Compare(string(a), string(b))
		}) {
			fmt.Printf("  %v\n", id)
			for _, c := range nwg.SortedCodes(pkgs[id]) {
				fmt.Printf("    %s\n", cyanf("%v", c))
			}
		}
	}
	return nil
}

func outputRaw(ctx context.Context, doc *nwg.Document, res *nwg.TransitiveNoWarn) error {
	for _, fw := range res.Frameworks {
		pkgs := res.PackageSpecific[fw]
		for _, id := range slices.SortedFunc(maps.Keys(pkgs), func(a, b nwg.PackageId) int {
			return strings.Compare(string(a), string(b))
		}) {
			for _, c := range nwg.SortedCodes(pkgs[id]) {
				fmt.Printf("%v %v %v\n", fw, id, c)
			}
		}
	}
	return nil
}

// outputDot prints each framework-only graph as a GraphViz digraph, labeling packages that
// retained transitive suppressions with their codes.
func outputDot(ctx context.Context, doc *nwg.Document, res *nwg.TransitiveNoWarn) error {
	for i := range doc.Graphs {
		g := &doc.Graphs[i]
		if g.RuntimeId != "" {
			continue
		}
		fmt.Printf("digraph %q {\n", g.Framework)
		fmt.Print("  outputorder = \"edgesfirst\";\n")
		fmt.Print("  node [style=filled,fillcolor=\"white\",shape=box];\n")
		nodes := g.Lookup()
		for _, id := range slices.Sorted(maps.Keys(nodes)) {
			n := nodes[id]
			label := n.String()
			attrs := []string{}
			if n.Id() == doc.Project.Id {
				attrs = append(attrs, "fillcolor=\"black\"", "fontcolor=\"white\"")
			}
			if cs := res.Codes(g.Framework, n.Id()); cs != nil && !cs.IsEmpty() {
				label += "\\n" + codesString(cs)
				attrs = append(attrs, "fillcolor=\"lightyellow\"")
			}
			attrs = append(attrs, fmt.Sprintf("label=%q", label))
			fmt.Printf("  %q [%s];\n", n.Id(), strings.Join(attrs, ","))
			for _, dep := range n.Outgoing {
				if _, ok := nodes[dep]; !ok {
					continue
				}
				fmt.Printf("  %q -> %q;\n", n.Id(), dep)
			}
		}
		fmt.Print("}\n")
	}
	return nil
}

func load(ctx context.Context, cfg *config, input string) (*nwg.Document, error) {
	if cfg.exec {
		return nwg.DocumentFromTool(ctx, ".", strings.Fields(input)...)
	}
	return nwg.LoadDocument(input)
}

func run(ctx context.Context, cfg *config) error {
	type result struct {
		doc *nwg.Document
		res *nwg.TransitiveNoWarn
	}
	var results syncmap.Map[string, result]
	gr, gctx := errgroup.WithContext(ctx)
	for _, input := range cfg.inputs {
		gr.Go(func() error {
			doc, err := load(gctx, cfg, input)
			if err != nil {
				return err
			}
			results.LoadOrStore(input, result{doc, (*cfg.resolve)(doc.Graphs, doc.Project, nil)})
			return nil
		})
	}
	if err := gr.Wait(); err != nil {
		return err
	}
	for _, input := range cfg.inputs {
		r, ok := results.Load(input)
		if !ok {
			continue
		}
		if len(cfg.inputs) > 1 {
			fmt.Printf("%s\n", cyanf("== %s", input))
		}
		if err := (*cfg.output)(ctx, r.doc, r.res); err != nil {
			return err
		}
	}
	return nil
}

var slogLevel = func() *slog.LevelVar {
	lvl := &slog.LevelVar{}
	lvl.Set(logging.LevelInfo)
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
	return lvl
}()

func choiceFlag[T any](p *T, name string, choices map[string]T, dflt string, post func(string) error, usage string) {
	cstr := strings.Join(slices.Sorted(maps.Keys(choices)), ", ")
	var ok bool
	if *p, ok = choices[dflt]; !ok {
		panic(fmt.Errorf("invalid default for %v option: %v", name, dflt))
	}
	usage += fmt.Sprintf(" (one of: %v; default: %v)", cstr, dflt)
	flag.Func(name, usage, func(arg string) error {
		if arg == "" {
			arg = dflt
		}
		v, ok := choices[arg]
		if !ok {
			return fmt.Errorf("expected one of: %v", cstr)
		}
		*p = v
		if post != nil {
			return post(arg)
		}
		return nil
	})
}

func parseFlags(ctx context.Context) *config {
	cfg := &config{}

	bumpLogLevel := func(lower bool) {
		slog.Debug("log level pre-change", "level", slogLevel.Level())
		slogLevel.Set(logging.BumpLevel(slogLevel.Level(), lower))
		slog.Debug("log level post-change", "level", slogLevel.Level())
	}
	setLogLevel := func(arg string) error {
		lvl, err := logging.StringToLevel(arg)
		if err != nil {
			return err
		}
		slogLevel.Set(lvl)
		return nil
	}
	flag.BoolFunc("v", "Increase log verbosity.", func(arg string) error {
		switch arg {
		case "", "true":
			bumpLogLevel(true)
		default:
			return setLogLevel(arg)
		}
		return nil
	})
	flag.BoolFunc("q", "Decrease log verbosity.", func(arg string) error {
		switch arg {
		case "", "true":
			bumpLogLevel(false)
		default:
			return setLogLevel(arg)
		}
		return nil
	})

	colorChoices := map[string]bool{
		"auto":   color.NoColor,
		"never":  true,
		"always": false,
	}
	choiceFlag(&color.NoColor, "color", colorChoices, "auto", nil,
		"Output colors according to `mode`.")
	choiceFlag(&cfg.resolve, "resolver", allResolve, "walk", nil,
		"Resolve transitive suppressions using the algorithm indicated by `mode`.")
	choiceFlag(&cfg.output, "format", allOutput, "tree", nil,
		"Print resolved suppressions according to `mode`.")
	flag.BoolVar(&cfg.exec, "exec", false,
		"Treat each argument as a command to run; parse its output as a resolution document.")
	help := func(string) error {
		// Pet peeve: Help output should be written to standard output, not standard error, when the
		// user explicitly requests the help.  This makes it easier for them to pipe the help output to
		// a pager.
		flag.CommandLine.SetOutput(os.Stdout)
		flag.Usage()
		os.Exit(0)
		return nil
	}
	helpUsage := "Print usage information and exit."
	flag.BoolFunc("h", helpUsage, help)
	flag.BoolFunc("help", helpUsage, help)
	flag.BoolFunc("version", "Print the version and exit.", func(string) error {
		v := ver()
		if v == "" {
			log.Fatal("the Go build information is unavalable; try passing the \"-buildvcs=true\" build option to go")
		}
		fmt.Printf("%s\n", v)
		os.Exit(0)
		return nil
	})
	flag.Parse()
	cfg.inputs = flag.Args()
	if len(cfg.inputs) == 0 {
		log.Fatal("at least one resolution document is required")
	}
	return cfg
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := parseFlags(ctx)
	if err := run(ctx, cfg); err != nil {
		slog.ErrorContext(ctx, "failed", "error", err)
		os.Exit(1)
	}
}
