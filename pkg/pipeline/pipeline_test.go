package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/ocasazza/graphlayouts/pkg/cache"
	"github.com/ocasazza/graphlayouts/pkg/errors"
	"github.com/ocasazza/graphlayouts/pkg/graph"
	"github.com/ocasazza/graphlayouts/pkg/layout"
	"github.com/ocasazza/graphlayouts/pkg/observability"
)

func silentLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// buildGraph returns a small path graph a-b-c-d without positions.
func buildGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, id := range []string{"a", "b", "c", "d"} {
		if err := g.AddNode(&graph.Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	edges := []*graph.Edge{
		{ID: "e1", Source: "a", Target: "b", Weight: 1},
		{ID: "e2", Source: "b", Target: "c", Weight: 1},
		{ID: "e3", Source: "c", Target: "d", Weight: 1},
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			t.Fatalf("AddEdge(%s): %v", e.ID, err)
		}
	}
	return g
}

func requirePositions(t *testing.T, g *graph.Graph) {
	t.Helper()
	for _, id := range g.NodeIDs() {
		if g.Nodes[id].Position == nil {
			t.Errorf("Node %s has no position after layout", id)
		}
	}
}

func TestOptionsValidateForLoad(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateForLoad(); err == nil {
		t.Error("Missing input should fail")
	}

	opts = Options{Input: "graph.json", Format: "xml"}
	if err := opts.ValidateForLoad(); err == nil {
		t.Error("Unknown format should fail")
	}

	opts = Options{Input: "graph.json", Format: "dot"}
	if err := opts.ValidateForLoad(); err != nil {
		t.Errorf("Valid load options should pass: %v", err)
	}
	if opts.Logger == nil {
		t.Error("Logger default was not set")
	}
}

func TestOptionsValidateForCompute(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateForCompute(); err != nil {
		t.Fatalf("Empty algorithm should default: %v", err)
	}
	if opts.Algorithm.Name != layout.AlgorithmFcose {
		t.Errorf("Default algorithm should be fcose, got %q", opts.Algorithm.Name)
	}
	if opts.Algorithm.Fcose == nil {
		t.Fatal("Default algorithm should carry fcose options")
	}

	opts = Options{Algorithm: layout.Algorithm{Name: "sugiyama"}}
	if err := opts.ValidateForCompute(); err == nil {
		t.Error("Unknown algorithm should fail")
	}
}

func TestOptionsSeedOverride(t *testing.T) {
	algo := layout.NewFcose(layout.DefaultFcoseOptions())
	opts := Options{Algorithm: algo, Seed: 7}

	if err := opts.ValidateForCompute(); err != nil {
		t.Fatalf("Validation failed: %v", err)
	}
	if opts.Algorithm.Fcose.Seed != 7 {
		t.Errorf("Seed override not applied, got %d", opts.Algorithm.Fcose.Seed)
	}
	// The caller's options must not be mutated through the shared pointer.
	if algo.Fcose.Seed != layout.DefaultSeed {
		t.Errorf("Seed override leaked into caller options, got %d", algo.Fcose.Seed)
	}

	// Non-fcose algorithms ignore the override.
	opts = Options{Algorithm: layout.NewCircle(layout.DefaultCircleOptions()), Seed: 7}
	if err := opts.ValidateForCompute(); err != nil {
		t.Fatalf("Validation failed: %v", err)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Input: "graph.json"}

	// First call
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	originalName := opts.Algorithm.Name
	originalSeed := opts.Algorithm.Fcose.Seed

	// Second call should be idempotent, even if fields changed in between
	opts.Seed = 99
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if opts.Algorithm.Name != originalName {
		t.Error("Algorithm changed on second call")
	}
	if opts.Algorithm.Fcose.Seed != originalSeed {
		t.Error("Seed override re-applied on second call")
	}
}

func TestApplyPositionsAllNodes(t *testing.T) {
	g := buildGraph(t)
	res, err := Apply(context.Background(), g, layout.Default())
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	requirePositions(t, g)
	if res.Components != 1 {
		t.Errorf("Components = %d, want 1", res.Components)
	}
	if res.Iterations == 0 {
		t.Error("Iterations should be non-zero for fcose")
	}
}

func TestApplyDispatchesEveryEngine(t *testing.T) {
	algos := []layout.Algorithm{
		layout.NewFcose(layout.DefaultFcoseOptions()),
		layout.NewConcentric(layout.DefaultConcentricOptions()),
		layout.NewCircle(layout.DefaultCircleOptions()),
		layout.NewLayered(layout.DefaultLayeredOptions()),
	}
	for _, algo := range algos {
		g := buildGraph(t)
		if _, err := Apply(context.Background(), g, algo); err != nil {
			t.Errorf("Apply(%s) failed: %v", algo.Name, err)
			continue
		}
		requirePositions(t, g)
	}
}

func TestApplyUnknownAlgorithm(t *testing.T) {
	g := buildGraph(t)
	_, err := Apply(context.Background(), g, layout.Algorithm{Name: "sugiyama"})
	if err == nil {
		t.Fatal("Unknown algorithm should fail")
	}
	if !errors.Is(err, errors.ErrCodeInvalidAlgorithm) {
		t.Errorf("Expected invalid algorithm code, got %v", err)
	}
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil {
		t.Error("Cache should default to a null cache")
	}
	if r.Keyer == nil {
		t.Error("Keyer should default")
	}
	if r.Logger == nil {
		t.Error("Logger should default")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestRunnerComputeCacheHit(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache failed: %v", err)
	}
	r := NewRunner(fc, nil, silentLogger())
	defer r.Close()
	ctx := context.Background()
	opts := Options{Algorithm: layout.Default(), Logger: silentLogger()}

	g1 := buildGraph(t)
	res1, hit, err := r.ComputeWithCacheInfo(ctx, g1, opts)
	if err != nil {
		t.Fatalf("First compute failed: %v", err)
	}
	if hit {
		t.Error("First compute should miss the cache")
	}

	// An identical graph must hit and reuse the stored positions.
	g2 := buildGraph(t)
	res2, hit, err := r.ComputeWithCacheInfo(ctx, g2, opts)
	if err != nil {
		t.Fatalf("Second compute failed: %v", err)
	}
	if !hit {
		t.Fatal("Second compute should hit the cache")
	}
	if res2.Converged != res1.Converged || res2.Iterations != res1.Iterations {
		t.Errorf("Cached result differs: got %+v, want %+v", res2, res1)
	}
	for _, id := range g1.NodeIDs() {
		p1, p2 := g1.Nodes[id].Position, g2.Nodes[id].Position
		if p2 == nil {
			t.Fatalf("Node %s has no cached position", id)
		}
		if p1.X != p2.X || p1.Y != p2.Y {
			t.Errorf("Node %s cached position (%v,%v) differs from computed (%v,%v)", id, p2.X, p2.Y, p1.X, p1.Y)
		}
	}
}

func TestRunnerComputeRefresh(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache failed: %v", err)
	}
	r := NewRunner(fc, nil, silentLogger())
	defer r.Close()
	ctx := context.Background()

	if _, _, err := r.ComputeWithCacheInfo(ctx, buildGraph(t), Options{Algorithm: layout.Default()}); err != nil {
		t.Fatalf("First compute failed: %v", err)
	}

	_, hit, err := r.ComputeWithCacheInfo(ctx, buildGraph(t), Options{Algorithm: layout.Default(), Refresh: true})
	if err != nil {
		t.Fatalf("Refresh compute failed: %v", err)
	}
	if hit {
		t.Error("Refresh should bypass the cache")
	}
}

func TestRunnerComputeStaleEntry(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache failed: %v", err)
	}
	r := NewRunner(fc, nil, silentLogger())
	defer r.Close()
	ctx := context.Background()
	opts := Options{Algorithm: layout.Default()}

	// Plant an entry under the real key that references a node the graph
	// does not have.
	g := buildGraph(t)
	data, err := graph.MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph failed: %v", err)
	}
	key := r.Keyer.LayoutKey(cache.Hash(data), cache.LayoutKeyOpts{Algorithm: opts.Algorithm})
	stale, err := json.Marshal(cachedLayout{
		Positions: map[string][2]float64{"ghost": {1, 2}},
		Result:    layout.Result{Converged: true},
	})
	if err != nil {
		t.Fatalf("Marshal stale payload failed: %v", err)
	}
	if err := fc.Set(ctx, key, stale, cache.TTLLayout); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	_, hit, err := r.ComputeWithCacheInfo(ctx, g, opts)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if hit {
		t.Error("Stale entry should not count as a hit")
	}
	requirePositions(t, g)
}

type recordingCacheHooks struct {
	observability.NoopCacheHooks
	events []string
}

func (h *recordingCacheHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.events = append(h.events, "hit:"+keyType)
}

func (h *recordingCacheHooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.events = append(h.events, "miss:"+keyType)
}

func (h *recordingCacheHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	h.events = append(h.events, "set:"+keyType)
}

func TestComputeReportsCacheEvents(t *testing.T) {
	hooks := &recordingCacheHooks{}
	observability.SetCacheHooks(hooks)
	t.Cleanup(observability.Reset)

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache failed: %v", err)
	}
	r := NewRunner(fc, nil, silentLogger())
	defer r.Close()
	ctx := context.Background()
	opts := Options{Algorithm: layout.Default()}

	if _, _, err := r.ComputeWithCacheInfo(ctx, buildGraph(t), opts); err != nil {
		t.Fatalf("First compute failed: %v", err)
	}
	if _, _, err := r.ComputeWithCacheInfo(ctx, buildGraph(t), opts); err != nil {
		t.Fatalf("Second compute failed: %v", err)
	}

	want := []string{"miss:layout", "set:layout", "hit:layout"}
	if len(hooks.events) != len(want) {
		t.Fatalf("Events = %v, want %v", hooks.events, want)
	}
	for i := range want {
		if hooks.events[i] != want[i] {
			t.Errorf("Event %d = %q, want %q", i, hooks.events[i], want[i])
		}
	}
}

func TestRunnerExecute(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.json")
	output := filepath.Join(dir, "out.json")
	if err := graph.WriteGraphFile(buildGraph(t), input); err != nil {
		t.Fatalf("WriteGraphFile failed: %v", err)
	}

	r := NewRunner(nil, nil, silentLogger())
	defer r.Close()

	result, err := r.Execute(context.Background(), Options{Input: input, Output: output})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Stats.NodeCount != 4 || result.Stats.EdgeCount != 3 {
		t.Errorf("Stats = %d nodes %d edges, want 4 and 3", result.Stats.NodeCount, result.Stats.EdgeCount)
	}
	if result.GraphHash == "" {
		t.Error("GraphHash should be set")
	}
	if result.CacheInfo.LayoutHit {
		t.Error("First run should not hit the layout cache")
	}
	requirePositions(t, result.Graph)

	out, err := graph.ReadGraphFile(output)
	if err != nil {
		t.Fatalf("ReadGraphFile failed: %v", err)
	}
	requirePositions(t, out)
}

func TestRunnerExecuteMissingInput(t *testing.T) {
	r := NewRunner(nil, nil, silentLogger())
	defer r.Close()

	if _, err := r.Execute(context.Background(), Options{}); err == nil {
		t.Error("Execute without input should fail")
	}

	_, err := r.Execute(context.Background(), Options{Input: filepath.Join(t.TempDir(), "absent.json")})
	if err == nil {
		t.Fatal("Execute with a missing file should fail")
	}
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Expected file not found code, got %v", err)
	}
}
