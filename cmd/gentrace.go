package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/Emyrk/hotpath/cmd/tracedemo"

	"github.com/coder/serpent"
)

func (r *Root) genTrace() *serpent.Command {
	var (
		ticks  int64
		output string
	)
	return &serpent.Command{
		Use:   "gen-trace",
		Short: "Generate a synthetic speedscope trace to try the analyzer on.",
		Options: serpent.OptionSet{
			serpent.Option{
				Name:        "ticks",
				Description: "Number of game loop iterations in the trace.",
				Flag:        "ticks",
				Default:     "100",
				Value:       serpent.Int64Of(&ticks),
			},
			serpent.Option{
				Name:        "output",
				Description: "Write the trace to a file instead of stdout.",
				Flag:        "output",
				Default:     "",
				Value:       serpent.StringOf(&output),
			},
		},
		Handler: func(i *serpent.Invocation) error {
			logger := r.Logger(i)

			f := tracedemo.Trace(int(ticks))
			data, err := json.MarshalIndent(f, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal trace: %w", err)
			}
			data = append(data, '\n')

			logger.Info().
				Int("events", len(f.MainProfile().Events)).
				Msg("trace generated")
			return writeOutput(i, output, data)
		},
	}
}
