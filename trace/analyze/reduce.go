package analyze

import (
	"sort"

	"github.com/Emyrk/hotpath/trace/speedscope"
)

// Reduction is the aggregate view of one evented profile.
type Reduction struct {
	// Times holds each frame's summed open-to-close span. Nested calls
	// are not subtracted, so a parent's time includes its children.
	Times map[int]float64
	// Samples counts how often each frame appeared on the stack.
	Samples map[int]int64
	// Graph records who called whom and for how long.
	Graph *Graph
}

type openFrame struct {
	frame int
	at    float64
}

// Reduce replays the event stream through a single call stack.
//
// Real traces truncate: a close with no matching open is dropped, a
// close naming a different frame than the top of the stack is dropped
// after the pop, and opens never closed contribute no time. None of
// these raise errors.
func Reduce(events []speedscope.Event) *Reduction {
	red := &Reduction{
		Times:   make(map[int]float64),
		Samples: make(map[int]int64),
		Graph:   NewGraph(),
	}

	var stack []openFrame
	for _, ev := range events {
		switch ev.Type {
		case speedscope.EventOpen:
			stack = append(stack, openFrame{frame: ev.Frame, at: ev.At})
			red.Samples[ev.Frame]++
		case speedscope.EventClose:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if top.frame != ev.Frame {
				continue
			}

			dur := ev.At - top.at
			red.Times[top.frame] += dur
			if len(stack) > 0 {
				red.Graph.AddEdge(stack[len(stack)-1].frame, top.frame, dur)
			}
		}
	}
	return red
}

func (r *Reduction) TotalTime() float64 {
	var total float64
	for _, t := range r.Times {
		total += t
	}
	return total
}

func (r *Reduction) TotalSamples() int64 {
	var total int64
	for _, s := range r.Samples {
		total += s
	}
	return total
}

// Graph is the directed call graph accumulated from matched open/close
// pairs. Edge weight is the total time the child ran under that parent.
type Graph struct {
	edges map[int]map[int]float64
	// order keeps each parent's children in first-seen order so equal
	// weights sort deterministically.
	order map[int][]int
}

func NewGraph() *Graph {
	return &Graph{
		edges: make(map[int]map[int]float64),
		order: make(map[int][]int),
	}
}

func (g *Graph) AddEdge(parent, child int, dur float64) {
	kids, ok := g.edges[parent]
	if !ok {
		kids = make(map[int]float64)
		g.edges[parent] = kids
	}
	if _, seen := kids[child]; !seen {
		g.order[parent] = append(g.order[parent], child)
	}
	kids[child] += dur
}

// Edge is one child call reached from a parent frame.
type Edge struct {
	Frame int
	Time  float64
}

// Children returns the parent's outgoing edges ordered by descending
// time. Equal times keep first-seen order.
func (g *Graph) Children(parent int) []Edge {
	ids := g.order[parent]
	if len(ids) == 0 {
		return nil
	}
	out := make([]Edge, 0, len(ids))
	for _, id := range ids {
		out = append(out, Edge{Frame: id, Time: g.edges[parent][id]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time > out[j].Time
	})
	return out
}

// ParentCount returns how many frames have at least one outgoing edge.
func (g *Graph) ParentCount() int {
	return len(g.edges)
}
