package cmd

import (
	"bytes"
	"fmt"

	"github.com/Emyrk/hotpath/trace/collapsed"

	"github.com/coder/serpent"
)

func (r *Root) collapse() *serpent.Command {
	var output string
	return &serpent.Command{
		Use:   "collapse <trace.speedscope.json>",
		Short: "Convert a trace into collapsed stack lines for flamegraph tooling.",
		Options: serpent.OptionSet{
			serpent.Option{
				Name:        "output",
				Description: "Write the collapsed stacks to a file instead of stdout.",
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

			prof := collapsed.FromEvents(tr.Frames, tr.Profile.Events, tr.Profile.UnitNanos())

			var buf bytes.Buffer
			err = collapsed.Encode(prof, &buf)
			if err != nil {
				return fmt.Errorf("encode collapsed stacks: %w", err)
			}

			logger.Info().
				Int("stacks", len(prof.Samples)).
				Int64("total_ns", prof.TotalValue()).
				Msg("collapsed trace")
			return writeOutput(i, output, buf.Bytes())
		},
	}
}
