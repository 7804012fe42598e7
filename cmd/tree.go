package cmd

import (
	"bytes"

	"github.com/Emyrk/hotpath/trace/report"

	"github.com/coder/serpent"
)

func (r *Root) tree() *serpent.Command {
	var (
		namespace string
		minPct    float64
		output    string
	)
	return &serpent.Command{
		Use:   "tree <trace.speedscope.json>",
		Short: "Render the full call tree below the hottest method in the namespace.",
		Options: serpent.OptionSet{
			serpent.Option{
				Name:        "namespace",
				Description: "Pick the root among methods whose full name contains this substring.",
				Flag:        "namespace",
				Default:     "",
				Value:       serpent.StringOf(&namespace),
			},
			serpent.Option{
				Name:        "min-pct",
				Description: "Only show tree nodes above this percent of the root's time.",
				Flag:        "min-pct",
				Default:     "0.5",
				Value:       serpent.Float64Of(&minPct),
			},
			serpent.Option{
				Name:        "output",
				Description: "Write the tree to a file instead of stdout.",
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

			var buf bytes.Buffer
			err = report.FormatTree(&buf, tr.Frames, tr.Red, report.TreeOptions{
				Namespace:  namespace,
				MinPercent: minPct,
			})
			if err != nil {
				return err
			}

			return writeOutput(i, output, buf.Bytes())
		},
	}
}
