package pprofconv

import (
	"bytes"
	"fmt"
	"time"

	"github.com/google/pprof/profile"
	"github.com/grafana/pyroscope-go/upstream"
	"github.com/grafana/pyroscope-go/upstream/remote"
	"github.com/rs/zerolog"
)

var _ remote.Logger = (*zerologWrapper)(nil)

type zerologWrapper struct {
	logger zerolog.Logger
}

func (z zerologWrapper) Infof(f string, args ...interface{})  { z.logger.Info().Msgf(f, args...) }
func (z zerologWrapper) Debugf(f string, args ...interface{}) { z.logger.Debug().Msgf(f, args...) }
func (z zerologWrapper) Errorf(f string, args ...interface{}) { z.logger.Error().Msgf(f, args...) }

// Pusher uploads pprof profiles to a Pyroscope server.
type Pusher struct {
	Address string
	Remote  *remote.Remote
	Logger  zerolog.Logger
}

func NewPusher(address string, logger zerolog.Logger) (*Pusher, error) {
	rmt, err := remote.NewRemote(remote.Config{
		Threads: 1,
		Address: address,
		Timeout: time.Second * 20,
		Logger:  &zerologWrapper{logger: logger},
	})
	if err != nil {
		return nil, fmt.Errorf("new remote: %w", err)
	}

	go rmt.Start()
	return &Pusher{
		Address: address,
		Remote:  rmt,
		Logger:  logger,
	}, nil
}

// Stop flushes queued uploads and shuts the remote down.
func (p *Pusher) Stop() {
	p.Remote.Stop()
}

func (p *Pusher) Push(name string, pb *profile.Profile) error {
	var buf bytes.Buffer
	err := pb.Write(&buf)
	if err != nil {
		return fmt.Errorf("write proto: %w", err)
	}

	start := time.UnixMilli(pb.TimeNanos / 1e6)
	end := start.Add(time.Duration(pb.DurationNanos))

	p.Remote.Upload(&upstream.UploadJob{
		Name:            name,
		StartTime:       start,
		EndTime:         end,
		Units:           "cpu",
		AggregationType: "sum",
		Format:          upstream.FormatPprof,
		Profile:         buf.Bytes(),
		SampleTypeConfig: map[string]*upstream.SampleType{
			"cpu": {
				Units:       "nanoseconds",
				Aggregation: "sum",
				DisplayName: "cpu",
				// Exact event times, not a sampled subset.
				Sampled:    false,
				Cumulative: false,
			},
			"samples": {
				Units:       "count",
				Aggregation: "sum",
				DisplayName: "Count",
				Sampled:     false,
				Cumulative:  false,
			},
		},
	})

	return nil
}
