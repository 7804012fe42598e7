// Package calltree renders the reduced call graph as an indented text
// tree, the kind profiler frontends print under a hot method.
package calltree

import (
	"fmt"

	"github.com/Emyrk/hotpath/trace/analyze"
)

const maxNameLen = 100

type Options struct {
	Frames    analyze.Frames
	Reduction *analyze.Reduction
	// TotalTime is the percentage denominator. The full report passes
	// the whole-trace total, the tree view passes the root's own time.
	TotalTime  float64
	MinPercent float64
	// MaxDepth bounds emitted levels, the root line is level 1.
	// Zero means unbounded.
	MaxDepth int
}

type Renderer struct {
	opts Options
}

func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Render walks the graph depth-first from root and returns the
// rendered lines. A frame already on the active ancestor path is not
// descended into, so cyclic graphs terminate without error.
func (r *Renderer) Render(root int) []string {
	var out []string
	for _, group := range r.groups(root, 1, nil) {
		out = append(out, group...)
	}
	return out
}

// RenderChildren renders only the subtrees under root, connectors
// included. The report uses this to break down a hot method without
// repeating its own line.
func (r *Renderer) RenderChildren(root int) []string {
	if !r.opts.Frames.Resolves(root) {
		return nil
	}
	ancestors := map[int]struct{}{root: {}}
	return connect(r.childGroups(root, 1, ancestors))
}

// groups returns the line groups this frame contributes at its sibling
// position: one group for a regular frame, its children's groups when
// the frame is skip-flattened, nothing when pruned. Lines are relative,
// ancestors prepend connector prefixes as groups bubble up.
func (r *Renderer) groups(frame, level int, ancestors map[int]struct{}) [][]string {
	if _, on := ancestors[frame]; on {
		return nil
	}
	if !r.opts.Frames.Resolves(frame) {
		return nil
	}

	local := make(map[int]struct{}, len(ancestors)+1)
	for id := range ancestors {
		local[id] = struct{}{}
	}
	local[frame] = struct{}{}

	method := analyze.MethodName(r.opts.Frames.Name(frame))
	if analyze.Skip(method) {
		// No line for harness frames. Their children surface as
		// siblings at this position.
		return r.childGroups(frame, level, local)
	}

	dur := r.opts.Reduction.Times[frame]
	pct := percent(dur, r.opts.TotalTime)
	if pct < r.opts.MinPercent {
		return nil
	}

	lines := []string{fmt.Sprintf("%12.3f (%6.2f%%) %s", dur, pct, truncate(method))}
	if r.opts.MaxDepth == 0 || level < r.opts.MaxDepth {
		lines = append(lines, connect(r.childGroups(frame, level+1, local))...)
	}
	return [][]string{lines}
}

func (r *Renderer) childGroups(frame, level int, ancestors map[int]struct{}) [][]string {
	var out [][]string
	for _, edge := range r.opts.Reduction.Graph.Children(frame) {
		if percent(edge.Time, r.opts.TotalTime) < r.opts.MinPercent {
			continue
		}
		out = append(out, r.groups(edge.Frame, level, ancestors)...)
	}
	return out
}

// connect joins sibling groups with tree connectors. Only groups that
// survived pruning count, the last one gets the terminal connector.
func connect(groups [][]string) []string {
	var out []string
	for gi, group := range groups {
		connector, continuation := "├─ ", "│  "
		if gi == len(groups)-1 {
			connector, continuation = "└─ ", "   "
		}
		out = append(out, connector+group[0])
		for _, line := range group[1:] {
			out = append(out, continuation+line)
		}
	}
	return out
}

func percent(v, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return v / total * 100
}

func truncate(name string) string {
	if len(name) > maxNameLen {
		return name[:maxNameLen-3] + "..."
	}
	return name
}
