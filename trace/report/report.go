// Package report writes the ranked hot-method report for one trace.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Emyrk/hotpath/trace/analyze"
	"github.com/Emyrk/hotpath/trace/calltree"
	"github.com/dustin/go-humanize"
)

// treeMinPercent is the fixed threshold for the per-method breakdown
// section. The ranked sections use Options.MinPercent instead.
const treeMinPercent = 0.5

type Options struct {
	// Namespace filters methods by substring match on the full display
	// name. Empty admits every qualified frame.
	Namespace string
	// TopN caps how many entries each ranked section prints.
	TopN       int
	MinPercent float64
	// IncludeInit keeps harness and initializer methods in the ranked
	// sections. They are excluded by default.
	IncludeInit bool
	// IncludeSystem additionally admits System.* frames outside the
	// namespace filter.
	IncludeSystem bool
	// CallTree appends a per-method children breakdown for the top 10
	// methods by time.
	CallTree  bool
	TreeDepth int
}

type entry struct {
	frame   int
	time    float64
	samples int64
	method  string
}

// Format writes the full report. The layout is two ranked sections,
// an optional call-tree section, and a trailing summary.
func Format(w io.Writer, frames analyze.Frames, red *analyze.Reduction, opts Options) error {
	byTime, bySamples := ranked(frames, red, opts)
	totalTime := red.TotalTime()
	totalSamples := red.TotalSamples()

	namespace := opts.Namespace
	if namespace == "" {
		namespace = "(all)"
	}

	rule := strings.Repeat("=", 100)
	lines := []string{
		rule,
		fmt.Sprintf("TOP %d METHODS BY EXCLUSIVE TIME (actual work done)", opts.TopN),
		fmt.Sprintf("Namespace: %s", namespace),
		rule,
	}

	// Ranks 1..10 always print. Past those, entries must clear the
	// threshold, and the section ends once TopN entries are out.
	printed := 0
	for i, e := range byTime {
		rank := i + 1
		pct := percent(e.time, totalTime)
		if pct < opts.MinPercent && rank > 10 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%3d. %12.6f (%6.2f%%) - %s", rank, e.time, pct, e.method))
		printed++
		if printed >= opts.TopN {
			break
		}
	}

	lines = append(lines,
		"",
		rule,
		fmt.Sprintf("TOP %d METHODS BY INCLUSIVE SAMPLES (on call stack)", opts.TopN),
		fmt.Sprintf("Namespace: %s", namespace),
		rule,
	)

	printed = 0
	for i, e := range bySamples {
		rank := i + 1
		pct := percent(float64(e.samples), float64(totalSamples))
		if pct < opts.MinPercent && rank > 10 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%3d. %8d samples (%5.2f%%) - %s", rank, e.samples, pct, e.method))
		printed++
		if printed >= opts.TopN {
			break
		}
	}

	if opts.CallTree && red.Graph.ParentCount() > 0 {
		lines = append(lines,
			"",
			rule,
			"CALL TREE ANALYSIS (Top 10 Hot Methods)",
			"Shows hierarchical breakdown of where time is spent within each method",
			fmt.Sprintf("Max depth: %d, Min %% to show: %g%%", opts.TreeDepth, treeMinPercent),
			rule,
		)

		tree := calltree.New(calltree.Options{
			Frames:     frames,
			Reduction:  red,
			TotalTime:  totalTime,
			MinPercent: treeMinPercent,
			MaxDepth:   opts.TreeDepth,
		})

		top := byTime
		if len(top) > 10 {
			top = top[:10]
		}
		for i, e := range top {
			pct := percent(e.time, totalTime)
			lines = append(lines,
				"",
				fmt.Sprintf("%d. %s", i+1, e.method),
				fmt.Sprintf("   Exclusive time: %.3f (%.2f%%)", e.time, pct),
				"   Children breakdown:",
			)

			children := tree.RenderChildren(e.frame)
			if len(children) == 0 {
				lines = append(lines, "   └─ (no significant children or leaf node)")
				continue
			}
			for _, line := range children {
				lines = append(lines, "   "+line)
			}
		}
	}

	lines = append(lines,
		"",
		rule,
		"SUMMARY",
		rule,
		fmt.Sprintf("Total execution time (all methods): %.2f time units", totalTime),
		fmt.Sprintf("Total samples (all methods): %s", humanize.Comma(totalSamples)),
		fmt.Sprintf("Methods analyzed: %d", len(byTime)),
		fmt.Sprintf("Showing methods with >= %g%% of total time", opts.MinPercent),
	)

	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

// ranked filters the frame table and returns it sorted by exclusive
// time and by inclusive samples. Ties keep frame id order.
func ranked(frames analyze.Frames, red *analyze.Reduction, opts Options) (byTime, bySamples []entry) {
	var entries []entry
	for id := range frames {
		name := frames[id]

		var method string
		switch {
		case strings.Contains(name, opts.Namespace) && analyze.Qualified(name):
			method = analyze.MethodName(name)
			if !opts.IncludeInit && analyze.Skip(method) {
				continue
			}
		case opts.IncludeSystem && strings.HasPrefix(name, "System.") && analyze.Qualified(name):
			method = analyze.MethodName(name)
		default:
			continue
		}

		entries = append(entries, entry{
			frame:   id,
			time:    red.Times[id],
			samples: red.Samples[id],
			method:  method,
		})
	}

	byTime = append([]entry(nil), entries...)
	sort.SliceStable(byTime, func(i, j int) bool {
		return byTime[i].time > byTime[j].time
	})
	bySamples = append([]entry(nil), entries...)
	sort.SliceStable(bySamples, func(i, j int) bool {
		return bySamples[i].samples > bySamples[j].samples
	})
	return byTime, bySamples
}

func percent(v, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return v / total * 100
}
