package cmd

import (
	"bytes"
	"fmt"

	"github.com/Emyrk/hotpath/trace/analyze"
	"github.com/Emyrk/hotpath/trace/report"

	"github.com/coder/serpent"
)

func (r *Root) analyze() *serpent.Command {
	var (
		namespace     string
		topN          int64
		minPct        float64
		includeInit   bool
		includeSystem bool
		callTree      bool
		treeDepth     int64
		output        string
	)
	return &serpent.Command{
		Use:   "analyze <trace.speedscope.json>",
		Short: "Rank the hottest methods in a trace, optionally with a per-method call tree.",
		Options: serpent.OptionSet{
			serpent.Option{
				Name:        "namespace",
				Description: "Only report methods whose full name contains this substring.",
				Flag:        "namespace",
				Default:     "",
				Value:       serpent.StringOf(&namespace),
			},
			serpent.Option{
				Name:        "top",
				Description: "Number of methods per ranked section.",
				Flag:        "top",
				Default:     "50",
				Value:       serpent.Int64Of(&topN),
			},
			serpent.Option{
				Name:        "min-pct",
				Description: "Entries ranked past 10 must hold at least this percent of the total.",
				Flag:        "min-pct",
				Default:     "0.01",
				Value:       serpent.Float64Of(&minPct),
			},
			serpent.Option{
				Name:        "include-init",
				Description: "Keep constructors, static initializers and harness methods in the ranking.",
				Flag:        "include-init",
				Default:     "false",
				Value:       serpent.BoolOf(&includeInit),
			},
			serpent.Option{
				Name:        "include-system",
				Description: "Also rank System.* methods that fall outside the namespace.",
				Flag:        "include-system",
				Default:     "false",
				Value:       serpent.BoolOf(&includeSystem),
			},
			serpent.Option{
				Name:        "call-tree",
				Description: "Append a children breakdown for the top 10 methods.",
				Flag:        "call-tree",
				Default:     "false",
				Value:       serpent.BoolOf(&callTree),
			},
			serpent.Option{
				Name:        "tree-depth",
				Description: "Maximum depth of the children breakdown.",
				Flag:        "tree-depth",
				Default:     "5",
				Value:       serpent.Int64Of(&treeDepth),
			},
			serpent.Option{
				Name:        "output",
				Description: "Write the report to a file instead of stdout.",
				Flag:        "output",
				Default:     "",
				Value:       serpent.StringOf(&output),
			},
		},
		Handler: func(i *serpent.Invocation) error {
			logger := r.Logger(i)

			tr, err := loadTrace(i, logger)
			if err != nil {
				return err
			}

			if callTree {
				// Surface an empty result before writing anything.
				if _, ok := analyze.SelectRoot(tr.Frames, tr.Red, namespace); !ok {
					return fmt.Errorf("no qualifying root: no methods found in namespace %q", namespace)
				}
			}

			var buf bytes.Buffer
			err = report.Format(&buf, tr.Frames, tr.Red, report.Options{
				Namespace:     namespace,
				TopN:          int(topN),
				MinPercent:    minPct,
				IncludeInit:   includeInit,
				IncludeSystem: includeSystem,
				CallTree:      callTree,
				TreeDepth:     int(treeDepth),
			})
			if err != nil {
				return fmt.Errorf("format report: %w", err)
			}

			if output != "" {
				logger.Info().Str("output", output).Msg("writing report")
			}
			return writeOutput(i, output, buf.Bytes())
		},
	}
}
