package cmd

import (
	"fmt"
	"os"

	"github.com/Emyrk/hotpath/trace/analyze"
	"github.com/Emyrk/hotpath/trace/speedscope"
	"github.com/rs/zerolog"

	"github.com/coder/serpent"
)

// loadedTrace is the reduced main profile of one trace file. Every
// one-shot command starts from one of these.
type loadedTrace struct {
	Path    string
	Profile *speedscope.Profile
	Frames  analyze.Frames
	Red     *analyze.Reduction
}

func loadTrace(i *serpent.Invocation, logger zerolog.Logger) (*loadedTrace, error) {
	if len(i.Args) != 1 {
		return nil, fmt.Errorf("expected exactly one trace file argument, got %d", len(i.Args))
	}
	path := i.Args[0]

	f, err := speedscope.ReadFile(path)
	if err != nil {
		return nil, err
	}

	prof := f.MainProfile()
	frames := analyze.NewFrames(f)
	red := analyze.Reduce(prof.Events)

	logger.Info().
		Str("trace", path).
		Int("frames", len(frames)).
		Int("profiles", len(f.Profiles)).
		Str("profile", prof.Name).
		Int("events", len(prof.Events)).
		Msg("loaded trace")

	return &loadedTrace{
		Path:    path,
		Profile: prof,
		Frames:  frames,
		Red:     red,
	}, nil
}

// writeOutput honors --output, falling back to the invocation stdout.
func writeOutput(i *serpent.Invocation, path string, data []byte) error {
	if path == "" {
		_, err := i.Stdout.Write(data)
		return err
	}
	err := os.WriteFile(path, data, 0o644)
	if err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}
