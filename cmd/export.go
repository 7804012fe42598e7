package cmd

import (
	"fmt"
	"os"

	"github.com/Emyrk/hotpath/trace/collapsed"
	"github.com/Emyrk/hotpath/trace/pprofconv"

	"github.com/coder/serpent"
)

func (r *Root) export() *serpent.Command {
	var (
		output   string
		pushAddr string
		app      string
	)
	return &serpent.Command{
		Use:   "export <trace.speedscope.json>",
		Short: "Convert a trace to pprof format, optionally pushing it to a Pyroscope server.",
		Options: serpent.OptionSet{
			serpent.Option{
				Name:        "output",
				Description: "Path of the pprof file to write. Defaults to the trace path plus .pb.gz.",
				Flag:        "output",
				Default:     "",
				Value:       serpent.StringOf(&output),
			},
			serpent.Option{
				Name:        "push-addr",
				Description: "Push the profile to this Pyroscope server instead of writing a file.",
				Flag:        "push-addr",
				Env:         "HOTPATH_PUSH_ADDR",
				Default:     "",
				Value:       serpent.StringOf(&pushAddr),
			},
			serpent.Option{
				Name:        "app",
				Description: "Application name the pushed profile is filed under.",
				Flag:        "app",
				Default:     "hotpath",
				Value:       serpent.StringOf(&app),
			},
		},
		Handler: func(i *serpent.Invocation) error {
			logger := r.Logger(i)

			tr, err := loadTrace(i, logger)
			if err != nil {
				return err
			}

			prof := collapsed.FromEvents(tr.Frames, tr.Profile.Events, tr.Profile.UnitNanos())
			conv := pprofconv.New()
			pb := conv.Convert(prof)
			pb.DurationNanos = tr.Profile.DurationNanos()

			if pushAddr != "" {
				pusher, err := pprofconv.NewPusher(pushAddr, logger)
				if err != nil {
					return fmt.Errorf("new pusher: %w", err)
				}
				defer pusher.Stop()

				err = pusher.Push(app, pb)
				if err != nil {
					return fmt.Errorf("push profile: %w", err)
				}
				logger.Info().
					Str("address", pushAddr).
					Str("app", app).
					Msg("profile pushed")
				return nil
			}

			data, err := conv.Encode()
			if err != nil {
				return fmt.Errorf("encode profile: %w", err)
			}

			path := output
			if path == "" {
				path = tr.Path + ".pb.gz"
			}
			err = os.WriteFile(path, data, 0o644)
			if err != nil {
				return fmt.Errorf("write profile: %w", err)
			}

			logger.Info().
				Str("output", path).
				Int("bytes", len(data)).
				Msg("profile written")
			return nil
		},
	}
}
