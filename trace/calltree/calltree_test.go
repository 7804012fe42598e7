package calltree_test

import (
	"strings"
	"testing"

	"github.com/Emyrk/hotpath/trace/analyze"
	"github.com/Emyrk/hotpath/trace/calltree"
	"github.com/Emyrk/hotpath/trace/speedscope"
	"github.com/stretchr/testify/require"
)

func reduction(times map[int]float64, edges [][3]float64) *analyze.Reduction {
	red := analyze.Reduce(nil)
	for id, t := range times {
		red.Times[id] = t
	}
	for _, e := range edges {
		red.Graph.AddEdge(int(e[0]), int(e[1]), e[2])
	}
	return red
}

func TestRenderNestedPair(t *testing.T) {
	t.Parallel()

	// Rendered straight from an event stream: A runs 0..10, B 1..4.
	red := analyze.Reduce([]speedscope.Event{
		{Type: speedscope.EventOpen, Frame: 0, At: 0},
		{Type: speedscope.EventOpen, Frame: 1, At: 1},
		{Type: speedscope.EventClose, Frame: 1, At: 4},
		{Type: speedscope.EventClose, Frame: 0, At: 10},
	})

	r := calltree.New(calltree.Options{
		Frames:    analyze.Frames{"app!Demo.Game.A()", "app!Demo.Game.B()"},
		Reduction: red,
		TotalTime: red.Times[0],
	})

	lines := r.Render(0)
	require.Equal(t, []string{
		"      10.000 (100.00%) Demo.Game.A()",
		"└─        3.000 ( 30.00%) Demo.Game.B()",
	}, lines)
}

func TestRenderThresholdPrunesSubtree(t *testing.T) {
	t.Parallel()

	// B's edge is below threshold, so neither B nor its hot child C
	// may surface.
	red := reduction(
		map[int]float64{0: 100, 1: 1, 2: 50},
		[][3]float64{{0, 1, 1}, {1, 2, 50}},
	)
	r := calltree.New(calltree.Options{
		Frames:     analyze.Frames{"app!A()", "app!B()", "app!C()"},
		Reduction:  red,
		TotalTime:  100,
		MinPercent: 5,
	})

	lines := r.Render(0)
	require.Equal(t, []string{"     100.000 (100.00%) A()"}, lines)
}

func TestRenderLastSurvivingSibling(t *testing.T) {
	t.Parallel()

	// C's edge passes the threshold but its own time does not, so B is
	// the last sibling that actually renders and takes the terminal
	// connector.
	red := reduction(
		map[int]float64{0: 100, 1: 60, 2: 1},
		[][3]float64{{0, 1, 60}, {0, 2, 30}},
	)
	r := calltree.New(calltree.Options{
		Frames:     analyze.Frames{"app!A()", "app!B()", "app!C()"},
		Reduction:  red,
		TotalTime:  100,
		MinPercent: 5,
	})

	lines := r.Render(0)
	require.Equal(t, []string{
		"     100.000 (100.00%) A()",
		"└─       60.000 ( 60.00%) B()",
	}, lines)
}

func TestRenderSiblingConnectors(t *testing.T) {
	t.Parallel()

	red := reduction(
		map[int]float64{0: 10, 1: 5, 2: 4, 3: 2},
		[][3]float64{{0, 1, 5}, {0, 2, 4}, {1, 3, 2}},
	)
	r := calltree.New(calltree.Options{
		Frames:    analyze.Frames{"app!A()", "app!B()", "app!C()", "app!D()"},
		Reduction: red,
		TotalTime: 10,
	})

	lines := r.Render(0)
	require.Equal(t, []string{
		"      10.000 (100.00%) A()",
		"├─        5.000 ( 50.00%) B()",
		"│  └─        2.000 ( 20.00%) D()",
		"└─        4.000 ( 40.00%) C()",
	}, lines)
}

func TestRenderCycleGuard(t *testing.T) {
	t.Parallel()

	red := reduction(
		map[int]float64{0: 10, 1: 5},
		[][3]float64{{0, 1, 5}, {1, 0, 3}},
	)
	r := calltree.New(calltree.Options{
		Frames:    analyze.Frames{"app!A()", "app!B()"},
		Reduction: red,
		TotalTime: 10,
	})

	lines := r.Render(0)
	require.Len(t, lines, 2)
	require.Contains(t, lines[1], "B()")
}

func TestRenderDistinctBranchesRevisit(t *testing.T) {
	t.Parallel()

	// D is reached through both B and C. Only the ancestor path is
	// guarded, so it renders twice.
	red := reduction(
		map[int]float64{0: 10, 1: 5, 2: 4, 3: 2},
		[][3]float64{{0, 1, 5}, {0, 2, 4}, {1, 3, 2}, {2, 3, 2}},
	)
	r := calltree.New(calltree.Options{
		Frames:    analyze.Frames{"app!A()", "app!B()", "app!C()", "app!D()"},
		Reduction: red,
		TotalTime: 10,
	})

	lines := strings.Join(r.Render(0), "\n")
	require.Equal(t, 2, strings.Count(lines, "D()"))
}

func TestRenderSkipFlatten(t *testing.T) {
	t.Parallel()

	// The harness frame emits no line, its children are hoisted to its
	// position as ordinary siblings.
	red := reduction(
		map[int]float64{0: 10, 1: 8, 2: 5, 3: 2},
		[][3]float64{{0, 1, 8}, {1, 2, 5}, {1, 3, 2}},
	)
	r := calltree.New(calltree.Options{
		Frames: analyze.Frames{
			"app!Demo.Game.A()",
			"app!BenchmarkDotNet.Engines.Engine.Run()",
			"app!Demo.Game.X()",
			"app!Demo.Game.Y()",
		},
		Reduction: red,
		TotalTime: 10,
	})

	lines := r.Render(0)
	require.Equal(t, []string{
		"      10.000 (100.00%) Demo.Game.A()",
		"├─        5.000 ( 50.00%) Demo.Game.X()",
		"└─        2.000 ( 20.00%) Demo.Game.Y()",
	}, lines)
}

func TestRenderSkippedRoot(t *testing.T) {
	t.Parallel()

	red := reduction(
		map[int]float64{0: 10, 1: 5},
		[][3]float64{{0, 1, 5}},
	)
	r := calltree.New(calltree.Options{
		Frames:    analyze.Frames{"app!GlobalSetup()", "app!Demo.Game.B()"},
		Reduction: red,
		TotalTime: 10,
	})

	lines := r.Render(0)
	require.Equal(t, []string{"       5.000 ( 50.00%) Demo.Game.B()"}, lines)
}

func TestRenderMaxDepth(t *testing.T) {
	t.Parallel()

	red := reduction(
		map[int]float64{0: 10, 1: 5, 2: 2},
		[][3]float64{{0, 1, 5}, {1, 2, 2}},
	)
	opts := calltree.Options{
		Frames:    analyze.Frames{"app!A()", "app!B()", "app!C()"},
		Reduction: red,
		TotalTime: 10,
		MaxDepth:  2,
	}

	lines := calltree.New(opts).Render(0)
	require.Len(t, lines, 2)

	opts.MaxDepth = 0
	lines = calltree.New(opts).Render(0)
	require.Len(t, lines, 3)
}

func TestRenderTruncatesLongNames(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 120) + "()"
	red := reduction(map[int]float64{0: 10}, nil)
	r := calltree.New(calltree.Options{
		Frames:    analyze.Frames{"app!" + long},
		Reduction: red,
		TotalTime: 10,
	})

	lines := r.Render(0)
	require.Len(t, lines, 1)
	method := strings.SplitN(lines[0], ") ", 2)[1]
	require.Len(t, method, 100)
	require.True(t, strings.HasSuffix(method, "..."))
}

func TestRenderZeroTotal(t *testing.T) {
	t.Parallel()

	red := reduction(map[int]float64{0: 0}, nil)
	r := calltree.New(calltree.Options{
		Frames:    analyze.Frames{"app!A()"},
		Reduction: red,
		TotalTime: 0,
	})

	lines := r.Render(0)
	require.Equal(t, []string{"       0.000 (  0.00%) A()"}, lines)
}

func TestRenderRepeatable(t *testing.T) {
	t.Parallel()

	red := reduction(
		map[int]float64{0: 10, 1: 5, 2: 5, 3: 2},
		[][3]float64{{0, 1, 5}, {0, 2, 5}, {2, 3, 2}},
	)
	r := calltree.New(calltree.Options{
		Frames:    analyze.Frames{"app!A()", "app!B()", "app!C()", "app!D()"},
		Reduction: red,
		TotalTime: 10,
	})

	first := strings.Join(r.Render(0), "\n")
	for i := 0; i < 5; i++ {
		require.Equal(t, first, strings.Join(r.Render(0), "\n"))
	}
}

func TestRenderChildren(t *testing.T) {
	t.Parallel()

	red := reduction(
		map[int]float64{0: 10, 1: 5, 2: 4},
		[][3]float64{{0, 1, 5}, {0, 2, 4}, {1, 0, 3}},
	)
	r := calltree.New(calltree.Options{
		Frames:    analyze.Frames{"app!A()", "app!B()", "app!C()"},
		Reduction: red,
		TotalTime: 10,
	})

	lines := r.RenderChildren(0)
	require.Equal(t, []string{
		"├─        5.000 ( 50.00%) B()",
		"└─        4.000 ( 40.00%) C()",
	}, lines)
}

func TestRenderUnresolvableFrame(t *testing.T) {
	t.Parallel()

	red := reduction(
		map[int]float64{0: 10, 9: 5},
		[][3]float64{{0, 9, 5}},
	)
	r := calltree.New(calltree.Options{
		Frames:    analyze.Frames{"app!A()"},
		Reduction: red,
		TotalTime: 10,
	})

	lines := r.Render(0)
	require.Equal(t, []string{"      10.000 (100.00%) A()"}, lines)
}
