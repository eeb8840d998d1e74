package nowarngraph

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/rhansen/nowarngraph/internal/itertools"
)

// The zero value for N must not be a valid node value because it is used to indicate the parent of
// the start node.
func walkGraph[N comparable, E any](ctx context.Context, start N,
	nodeVisit func(ctx context.Context, m N) (bool, error),
	edges func(m N) iter.Seq2[N, E],
	edgeVisit func(ctx context.Context, p, m N, color E) error) (retErr error) {

	zeroN := *new(N)
	zeroE := *new(E)
	slog.DebugContext(ctx, "walkGraph start")
	nNodes := 0
	nEdges := 0
	var nDescends atomic.Int32
	defer func() {
		slog.DebugContext(ctx, "walkGraph done",
			"nodes", nNodes, "edges", nEdges, "descends", nDescends.Load(), "err", retErr)
	}()
	seen := map[N]<-chan struct{}{}
	type qEnt struct {
		p     N // Parent node.
		m     N // Child node.
		color E // Edge color/flavor/type/weight/whatever.
	}
	q := make(chan qEnt)
	var inflight atomic.Int32
	inflightDone := func() {
		if n := inflight.Add(-1); n == 0 {
			close(q)
		}
	}
	gr, ctx := errgroup.WithContext(ctx)
	enqueue := func(qe qEnt) {
		inflight.Add(1)
		gr.Go(func() error {
			select {
			case <-ctx.Done():
				inflightDone()
				return context.Cause(ctx)
			case q <- qe:
				return nil
			}
		})
	}
	// process processes an edge in the graph.  It always runs synchronously in the main select loop
	// so no synchronization primitives are needed to protect `seen`.
	process := func(qe qEnt) error {
		defer inflightDone()
		nEdges++
		readyCh := seen[qe.m]
		if seen[qe.m] == nil {
			nNodes++
			bidiReadyCh := make(chan struct{})
			readyCh = bidiReadyCh
			seen[qe.m] = readyCh
			inflight.Add(1)
			gr.Go(func() error {
				defer inflightDone()
				descend := true
				if nodeVisit != nil {
					var err error
					slog.DebugContext(ctx, "walkGraph: visiting node", "node", qe.m)
					descend, err = nodeVisit(ctx, qe.m)
					slog.DebugContext(ctx, "walkGraph: done visiting node",
						"node", qe.m, "descend", descend, "err", err)
					if err != nil {
						return err
					}
				}
				close(bidiReadyCh)
				if descend {
					nDescends.Add(1)
					for child, color := range edges(qe.m) {
						enqueue(qEnt{p: qe.m, m: child, color: color})
					}
				}
				return nil
			})
		}
		if edgeVisit != nil && qe.p != zeroN {
			inflight.Add(1)
			parentReadyCh := seen[qe.p]
			gr.Go(func() error {
				defer inflightDone()
				select {
				case <-ctx.Done():
					return context.Cause(ctx)
				case <-readyCh:
					select {
					case <-parentReadyCh:
					default:
						panic(fmt.Errorf("parent %v not visited before visiting edge to %v", qe.p, qe.m))
					}
					slog.DebugContext(ctx, "walkGraph: visiting edge",
						"parent", qe.p, "child", qe.m, "color", qe.color)
					err := edgeVisit(ctx, qe.p, qe.m, qe.color)
					slog.DebugContext(ctx, "walkGraph: done visiting edge",
						"parent", qe.p, "child", qe.m, "color", qe.color, "err", err)
					return err
				}
			})
		}
		return nil
	}
	enqueue(qEnt{p: zeroN, m: start, color: zeroE})
	gr.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return context.Cause(ctx)
			case qe, ok := <-q:
				if !ok {
					return nil
				}
				if err := process(qe); err != nil {
					return err
				}
			}
		}
	})
	return gr.Wait()
}

// WalkTargetGraph visits each node and edge of the [TargetGraph] reachable from the start node in
// topological order and calls the optional visit callbacks.  The callbacks are called at most once
// per node or edge.  Either callback (or both) may be nil.
//
// The nodeVisit callback's return value should be true if the walk should visit outgoing edges
// from the node, false if the edges should not be visited, defaulting to true if nodeVisit is nil.
// Edges referencing an id with no corresponding node in the graph are silently skipped.
//
// The nodes and edges are visited in parallel, and the callbacks are called concurrently, except
// no edgeVisit callback will be called for a pair of nodes before the nodeVisit callbacks for the
// two nodes have both returned.  This results in a topological ordering of callback calls.
//
// If there is an error, including if any callback returns non-nil, the walk stops.  (It may take
// some time to conclude any in-progress node or edge processing.)  The first error encountered is
// returned.
func WalkTargetGraph(ctx context.Context, g *TargetGraph, start PackageId,
	nodeVisit func(ctx context.Context, m *GraphNode) (bool, error),
	edgeVisit func(ctx context.Context, p, m *GraphNode) error) error {

	nodes := g.Lookup()
	edges := func(id PackageId) iter.Seq2[PackageId, struct{}] {
		deps := itertools.Filter(slices.Values(nodes[id].Outgoing), func(dep PackageId) bool {
			_, ok := nodes[dep]
			return ok
		})
		return itertools.Attach(deps, struct{}{})
	}
	var nv func(ctx context.Context, id PackageId) (bool, error)
	if nodeVisit != nil {
		nv = func(ctx context.Context, id PackageId) (bool, error) { return nodeVisit(ctx, nodes[id]) }
	}
	var ev func(ctx context.Context, p, m PackageId, _ struct{}) error
	if edgeVisit != nil {
		ev = func(ctx context.Context, p, m PackageId, _ struct{}) error {
			return edgeVisit(ctx, nodes[p], nodes[m])
		}
	}
	if _, ok := nodes[start]; !ok {
		return fmt.Errorf("start node %v is not in the graph", start)
	}
	return walkGraph(ctx, start, nv, edges, ev)
}

// AllGraphNodes walks the given [TargetGraph] from the start node and yields every [GraphNode] it
// encounters, in topological order.  Panics if the start node is not in the graph.
func AllGraphNodes(g *TargetGraph, start PackageId) iter.Seq[*GraphNode] {
	stop := false
	var mu sync.Mutex
	return func(yield func(*GraphNode) bool) {
		err := WalkTargetGraph(context.Background(), g, start,
			func(ctx context.Context, m *GraphNode) (bool, error) {
				mu.Lock()
				defer mu.Unlock()
				if stop || !yield(m) {
					stop = true
					return false, walkStopErr
				}
				return true, nil
			},
			nil)
		if err != nil && !errors.Is(err, walkStopErr) {
			panic(fmt.Errorf("bug: TargetGraph walk should never fail: %w", err))
		}
	}
}

type walkStopError struct{}

func (_ walkStopError) Error() string { return "stop" }

var walkStopErr error = walkStopError{}
