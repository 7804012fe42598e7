package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/Emyrk/hotpath/scene"

	"github.com/coder/serpent"
)

func (r *Root) genScene() *serpent.Command {
	var (
		entities int64
		seed     int64
		output   string
	)
	return &serpent.Command{
		Use:   "gen-scene",
		Short: "Generate a deterministic entity scene fixture for benchmarking.",
		Options: serpent.OptionSet{
			serpent.Option{
				Name:        "entities",
				Description: "Total entity count including the root container.",
				Flag:        "entities",
				Default:     "1000",
				Value:       serpent.Int64Of(&entities),
			},
			serpent.Option{
				Name:        "seed",
				Description: "Seed for all random draws.",
				Flag:        "seed",
				Default:     "42",
				Value:       serpent.Int64Of(&seed),
			},
			serpent.Option{
				Name:        "output",
				Description: "Write the scene to a file instead of stdout.",
				Flag:        "output",
				Default:     "",
				Value:       serpent.StringOf(&output),
			},
		},
		Handler: func(i *serpent.Invocation) error {
			logger := r.Logger(i)

			sc := scene.Generate(scene.Options{
				Entities: int(entities),
				Seed:     seed,
			})

			data, err := json.MarshalIndent(sc, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal scene: %w", err)
			}
			data = append(data, '\n')

			logger.Info().
				Int("entities", len(sc.Entities)).
				Int64("seed", seed).
				Msg("scene generated")
			return writeOutput(i, output, data)
		},
	}
}
