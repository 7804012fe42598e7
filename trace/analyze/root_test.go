package analyze_test

import (
	"testing"

	"github.com/Emyrk/hotpath/trace/analyze"
	"github.com/stretchr/testify/require"
)

func demoFrames() analyze.Frames {
	return analyze.Frames{
		"Demo.Game!Demo.Game.World.Update()",
		"Demo.Game!Demo.Game.Physics.Step()",
		"harness!BenchmarkDotNet.Engines.Engine.Run()",
		"Process64 Id: 4242",
		"Demo.Game!Demo.Game.Audio.Mix()",
	}
}

func TestSelectRoot(t *testing.T) {
	t.Parallel()

	frames := demoFrames()
	red := analyze.Reduce(nil)
	red.Times[0] = 50
	red.Times[1] = 30
	red.Times[2] = 100 // harness, larger than everything
	red.Times[3] = 500 // unqualified process frame

	root, ok := analyze.SelectRoot(frames, red, "Demo.Game")
	require.True(t, ok)
	require.Equal(t, 0, root)
}

func TestSelectRootNamespaceMiss(t *testing.T) {
	t.Parallel()

	red := analyze.Reduce(nil)
	red.Times[0] = 50

	_, ok := analyze.SelectRoot(demoFrames(), red, "Other.Namespace")
	require.False(t, ok)
}

func TestSelectRootEmptyTrace(t *testing.T) {
	t.Parallel()

	// Matching frame names alone are not enough, a root needs
	// recorded time.
	red := analyze.Reduce(nil)
	_, ok := analyze.SelectRoot(demoFrames(), red, "Demo.Game")
	require.False(t, ok)
}

func TestSelectRootTieKeepsLowestID(t *testing.T) {
	t.Parallel()

	frames := analyze.Frames{
		"Demo.Game!Demo.Game.A()",
		"Demo.Game!Demo.Game.B()",
	}
	red := analyze.Reduce(nil)
	red.Times[0] = 50
	red.Times[1] = 50

	root, ok := analyze.SelectRoot(frames, red, "")
	require.True(t, ok)
	require.Equal(t, 0, root)
}

func TestSelectRootAllNamespaces(t *testing.T) {
	t.Parallel()

	// An empty namespace admits every qualified frame.
	red := analyze.Reduce(nil)
	red.Times[1] = 30
	red.Times[3] = 500

	root, ok := analyze.SelectRoot(demoFrames(), red, "")
	require.True(t, ok)
	require.Equal(t, 1, root)
}

func TestMethodName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		want string
	}{
		{"Demo.Game!Demo.Game.World.Update()", "Demo.Game.World.Update()"},
		{"mod!a!b", "a!b"},
		{"NoDelimiter", "NoDelimiter"},
		{"", ""},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, analyze.MethodName(tc.name))
		})
	}
}

func TestFramesName(t *testing.T) {
	t.Parallel()

	frames := analyze.Frames{"a", "b"}
	require.Equal(t, "a", frames.Name(0))
	require.Equal(t, "<frame 7>", frames.Name(7))
	require.Equal(t, "<frame -1>", frames.Name(-1))
	require.False(t, frames.Resolves(7))
}

func TestSkip(t *testing.T) {
	t.Parallel()

	cases := []struct {
		method string
		skip   bool
	}{
		{"BenchmarkDotNet.Engines.Engine.Run()", true},
		{"Demo.Game.Benchmarks.GlobalSetup()", true},
		{"System.Runtime.CompilerServices..cctor()", true},
		{"Demo.Game.World..ctor()", true},
		{"UNMANAGED_CODE_TIME", true},
		{"Demo.Game.World.Update()", false},
		{"Demo.Game.WorkloadActualizer.Run()", false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.method, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.skip, analyze.Skip(tc.method))
		})
	}
}
