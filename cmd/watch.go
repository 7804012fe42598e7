package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/Emyrk/hotpath/watch"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/yaml.v3"

	"github.com/coder/serpent"
)

type WatchConfig struct {
	Listen  string                 `yaml:"listen"`
	Targets []watch.WatcherOptions `yaml:"targets"`
}

func (r *Root) WatchCmd() *serpent.Command {
	var (
		configPath string
		listen     string
	)
	return &serpent.Command{
		Use:   "watch",
		Short: "Serve prometheus metrics for the hottest frames of traces on disk.",
		Options: serpent.OptionSet{
			serpent.Option{
				Name:          "config",
				Description:   "YAML config file to use.",
				Required:      false,
				Flag:          "config",
				FlagShorthand: "c",
				Default:       "config.yaml",
				Value:         serpent.StringOf(&configPath),
			},
			serpent.Option{
				Name:        "listen",
				Description: "Address to serve metrics on, overriding the config file.",
				Flag:        "listen",
				Env:         "HOTPATH_LISTEN",
				Default:     "",
				Value:       serpent.StringOf(&listen),
			},
		},
		Handler: func(i *serpent.Invocation) error {
			logger := r.Logger(i)
			ctx := i.Context()

			yamlData, err := os.ReadFile(configPath)
			if err != nil {
				logger.Error().Err(err).Str("config", configPath).Msg("read config")
				return fmt.Errorf("read config: %w", err)
			}

			var config WatchConfig
			err = yaml.Unmarshal(yamlData, &config)
			if err != nil {
				logger.Error().Err(err).Str("config", configPath).Msg("unmarshal config")
				return fmt.Errorf("unmarshal config: %w", err)
			}

			if listen == "" {
				listen = config.Listen
			}
			if listen == "" {
				listen = ":2112"
			}

			watchers := make([]*watch.Watcher, 0, len(config.Targets))
			for _, target := range config.Targets {
				watcher, err := watch.New(target, logger.With().Str("service", "watcher").Logger())
				if err != nil {
					logger.Error().Err(err).Str("target", target.Name).Msg("new watcher")
					return fmt.Errorf("new watcher: %w", err)
				}
				watchers = append(watchers, watcher)
			}

			logger.Info().
				Int("num_watchers", len(watchers)).
				Str("listen", listen).
				Msg("watching")

			reg := prometheus.NewRegistry()
			for _, watcher := range watchers {
				go watcher.Watch(ctx)
				err := reg.Register(watcher)
				if err != nil {
					logger.Error().Err(err).Str("target", watcher.Name).Msg("register watcher")
					return fmt.Errorf("register watcher: %w", err)
				}
			}

			handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{
				Registry: reg,
			})
			return http.ListenAndServe(listen, handler)
		},
	}
}
