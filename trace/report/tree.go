package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/Emyrk/hotpath/trace/analyze"
	"github.com/Emyrk/hotpath/trace/calltree"
)

type TreeOptions struct {
	// Namespace narrows root selection and is echoed in the header.
	Namespace  string
	MinPercent float64
}

// FormatTree writes the hierarchical call tree rooted at the hottest
// qualifying method. Percentages are relative to the root's aggregate
// time, not the whole trace, so the root always reads 100%.
func FormatTree(w io.Writer, frames analyze.Frames, red *analyze.Reduction, opts TreeOptions) error {
	root, ok := analyze.SelectRoot(frames, red, opts.Namespace)
	if !ok {
		return fmt.Errorf("no qualifying root: no methods found in namespace %q", opts.Namespace)
	}

	rootTime := red.Times[root]
	namespace := opts.Namespace
	if namespace == "" {
		namespace = "(all)"
	}

	rule := strings.Repeat("=", 100)
	lines := []string{
		rule,
		fmt.Sprintf("HIERARCHICAL CALL TREE - %s", namespace),
		fmt.Sprintf("Root method: %s", analyze.MethodName(frames.Name(root))),
		fmt.Sprintf("Total time: %.2f", rootTime),
		"Percentages relative to root time (benchmark harness excluded)",
		fmt.Sprintf("Minimum threshold: %g%%", opts.MinPercent),
		rule,
		"",
	}

	tree := calltree.New(calltree.Options{
		Frames:     frames,
		Reduction:  red,
		TotalTime:  rootTime,
		MinPercent: opts.MinPercent,
	})
	lines = append(lines, tree.Render(root)...)

	lines = append(lines,
		"",
		rule,
		"SUMMARY",
		rule,
		fmt.Sprintf("Total time analyzed: %.2f", rootTime),
		fmt.Sprintf("Threshold: %g%%", opts.MinPercent),
		"Setup/harness/unmanaged methods excluded from tree",
	)

	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}
