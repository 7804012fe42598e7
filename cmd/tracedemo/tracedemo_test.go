package tracedemo_test

import (
	"testing"

	"github.com/Emyrk/hotpath/cmd/tracedemo"
	"github.com/Emyrk/hotpath/trace/analyze"
	"github.com/stretchr/testify/require"
)

func TestTraceBalanced(t *testing.T) {
	t.Parallel()

	f := tracedemo.Trace(10)
	prof := f.MainProfile()
	require.Len(t, prof.Events, 2+16*10)
	require.Equal(t, 5.0+10*20, prof.EndValue)

	frames := analyze.NewFrames(f)
	red := analyze.Reduce(prof.Events)

	// Every open closes, so each tick contributes its full spans.
	require.Equal(t, 10*20.0, red.Times[1], "World.Tick")
	require.Equal(t, 10*6.0, red.Times[2], "Physics.Step")
	require.Equal(t, 10*3.0, red.Times[3], "Physics.Integrate")
	require.Equal(t, 10*6.0, red.Times[4], "AI.Think outer plus inner")
	require.Equal(t, 10*3.0, red.Times[5], "AI.Plan")
	require.Equal(t, 5.0, red.Times[0], "GlobalSetup")

	// The recursive pair records edges both ways.
	require.Equal(t, []analyze.Edge{{Frame: 4, Time: 10.0}}, red.Graph.Children(5))

	root, ok := analyze.SelectRoot(frames, red, "Demo.Engine")
	require.True(t, ok)
	require.Equal(t, 1, root, "Tick is the hottest qualifying method")
}

func TestTraceDefaultTicks(t *testing.T) {
	t.Parallel()

	f := tracedemo.Trace(0)
	require.Len(t, f.MainProfile().Events, 2+16*100)
}
