// Package tracedemo builds a synthetic speedscope trace with a known
// call shape: harness setup, nested per-tick work, and a mutually
// recursive pair. It gives the analyzer something to chew on without
// running a real benchmark.
package tracedemo

import "github.com/Emyrk/hotpath/trace/speedscope"

const (
	frameSetup = iota
	frameTick
	framePhysics
	frameIntegrate
	frameThink
	framePlan
	frameRender
	frameListAdd
)

var frames = []speedscope.Frame{
	{Name: "Demo.Engine!Demo.Engine.Benchmarks.GlobalSetup()"},
	{Name: "Demo.Engine!Demo.Engine.World.Tick()"},
	{Name: "Demo.Engine!Demo.Engine.Physics.Step()"},
	{Name: "Demo.Engine!Demo.Engine.Physics.Integrate()"},
	{Name: "Demo.Engine!Demo.Engine.AI.Think()"},
	{Name: "Demo.Engine!Demo.Engine.AI.Plan()"},
	{Name: "Demo.Engine!Demo.Engine.Render.Draw()"},
	{Name: "System.Private.CoreLib!System.Collections.Generic.List`1.Add()"},
}

// setupSpan and tickSpan are in milliseconds, the profile's unit.
const (
	setupSpan = 5.0
	tickSpan  = 20.0
)

// Trace returns a balanced evented profile of ticks game-loop
// iterations behind one harness setup span. Think opens itself again
// through Plan, so the call graph carries a genuine cycle.
func Trace(ticks int) *speedscope.File {
	if ticks <= 0 {
		ticks = 100
	}

	open := func(events []speedscope.Event, frame int, at float64) []speedscope.Event {
		return append(events, speedscope.Event{Type: speedscope.EventOpen, Frame: frame, At: at})
	}
	closeAt := func(events []speedscope.Event, frame int, at float64) []speedscope.Event {
		return append(events, speedscope.Event{Type: speedscope.EventClose, Frame: frame, At: at})
	}

	events := make([]speedscope.Event, 0, 2+16*ticks)
	events = open(events, frameSetup, 0)
	events = closeAt(events, frameSetup, setupSpan)

	for i := 0; i < ticks; i++ {
		b := setupSpan + float64(i)*tickSpan
		events = open(events, frameTick, b)

		events = open(events, framePhysics, b+1)
		events = open(events, frameIntegrate, b+2)
		events = closeAt(events, frameIntegrate, b+5)
		events = closeAt(events, framePhysics, b+7)

		events = open(events, frameThink, b+8)
		events = open(events, framePlan, b+9)
		events = open(events, frameThink, b+10)
		events = closeAt(events, frameThink, b+11)
		events = closeAt(events, framePlan, b+12)
		events = closeAt(events, frameThink, b+13)

		events = open(events, frameRender, b+14)
		events = open(events, frameListAdd, b+15)
		events = closeAt(events, frameListAdd, b+16)
		events = closeAt(events, frameRender, b+18)

		events = closeAt(events, frameTick, b+tickSpan)
	}

	return &speedscope.File{
		Schema:   speedscope.Schema,
		Name:     "demo.speedscope.json",
		Exporter: "hotpath",
		Shared:   speedscope.Shared{Frames: frames},
		Profiles: []speedscope.Profile{
			{
				Type:       speedscope.ProfileEvented,
				Name:       "main",
				Unit:       "milliseconds",
				StartValue: 0,
				EndValue:   setupSpan + float64(ticks)*tickSpan,
				Events:     events,
			},
		},
	}
}
