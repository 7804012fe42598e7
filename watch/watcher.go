// Package watch periodically re-analyzes trace files on disk and
// publishes their hot frames as prometheus metrics.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Emyrk/hotpath/trace/analyze"
	"github.com/Emyrk/hotpath/trace/speedscope"
	"github.com/Emyrk/hotpath/watch/tracecollector"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

var _ prometheus.Collector = (*Watcher)(nil)

type WatcherOptions struct {
	Name string `yaml:"name"`
	// Glob selects the trace files to watch, e.g.
	// "BenchmarkDotNet.Artifacts/**.speedscope.json".
	Glob      string `yaml:"glob"`
	Namespace string `yaml:"namespace"`

	// TopFrames bounds how many methods per trace become metrics.
	TopFrames      int               `yaml:"top_frames"`
	ScrapeInterval time.Duration     `yaml:"scrape_interval"`
	ConstLabels    map[string]string `yaml:"constant_labels"`
}

// Watcher re-analyzes a set of trace files on an interval and serves
// the hottest frames of each through its prometheus registry.
type Watcher struct {
	Name      string
	Glob      string
	Namespace string

	topFrames int
	interval  time.Duration
	logger    zerolog.Logger
	reg       *prometheus.Registry
	collector *tracecollector.Collector

	// cache is only touched from the Watch goroutine.
	cache map[string]cachedTrace
}

type cachedTrace struct {
	mtime  time.Time
	report tracecollector.Report
}

func New(opts WatcherOptions, logger zerolog.Logger) (*Watcher, error) {
	if opts.Glob == "" {
		return nil, fmt.Errorf("missing glob field for watcher %q", opts.Name)
	}
	if opts.Name == "" {
		opts.Name = opts.Glob
	}
	if opts.TopFrames == 0 {
		opts.TopFrames = 20
	}
	if opts.ScrapeInterval == 0 {
		opts.ScrapeInterval = time.Minute
	}

	constLabels := prometheus.Labels{
		"watcher": opts.Name,
	}
	for k, v := range opts.ConstLabels {
		constLabels[k] = v
	}

	reg := prometheus.NewRegistry()
	collector := tracecollector.New(
		logger.With().Str("service", "collector").Logger(),
		"hotpath", constLabels)
	err := reg.Register(collector)
	if err != nil {
		return nil, fmt.Errorf("register collector for %q: %w", opts.Name, err)
	}

	return &Watcher{
		Name:      opts.Name,
		Glob:      opts.Glob,
		Namespace: opts.Namespace,
		topFrames: opts.TopFrames,
		interval:  opts.ScrapeInterval,
		reg:       reg,
		collector: collector,
		cache:     make(map[string]cachedTrace),
		logger: logger.With().
			Str("watcher", opts.Name).
			Logger(),
	}, nil
}

func (w *Watcher) Describe(descs chan<- *prometheus.Desc) {
	w.reg.Describe(descs)
}

func (w *Watcher) Collect(metrics chan<- prometheus.Metric) {
	w.reg.Collect(metrics)
}

func (w *Watcher) Watch(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		count, traces := w.scrape()
		w.logger.Info().
			Int("traces", traces).
			Int("metric_count", count).
			Msg("scrape traces complete")

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

// scrape refreshes the published snapshot from the globbed trace
// files. Files with an unchanged mtime reuse the prior analysis.
func (w *Watcher) scrape() (int, int) {
	paths, err := filepath.Glob(w.Glob)
	if err != nil {
		w.logger.Error().Err(err).Str("glob", w.Glob).Msg("bad glob pattern")
		return 0, 0
	}

	reports := make([]tracecollector.Report, 0, len(paths))
	for _, path := range paths {
		report, err := w.analyze(path)
		if err != nil {
			w.logger.Error().Err(err).Str("trace", path).Msg("analyze trace")
			continue
		}
		reports = append(reports, report)
	}
	return w.collector.SetReports(reports), len(reports)
}

func (w *Watcher) analyze(path string) (tracecollector.Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return tracecollector.Report{}, fmt.Errorf("stat trace: %w", err)
	}
	if cached, ok := w.cache[path]; ok && cached.mtime.Equal(info.ModTime()) {
		return cached.report, nil
	}

	f, err := speedscope.ReadFile(path)
	if err != nil {
		return tracecollector.Report{}, err
	}
	prof := f.MainProfile()
	frames := analyze.NewFrames(f)
	red := analyze.Reduce(prof.Events)

	report := tracecollector.Report{
		Trace:     filepath.Base(path),
		TotalTime: red.TotalTime(),
		Frames:    hotFrames(frames, red, w.Namespace, w.topFrames),
	}
	w.cache[path] = cachedTrace{mtime: info.ModTime(), report: report}

	w.logger.Debug().
		Str("trace", path).
		Int("events", len(prof.Events)).
		Int("hot_frames", len(report.Frames)).
		Msg("trace analyzed")
	return report, nil
}

// hotFrames ranks the namespace's qualified methods by accumulated
// time and keeps the top entries. Harness methods are left out.
func hotFrames(frames analyze.Frames, red *analyze.Reduction, namespace string, top int) []tracecollector.Frame {
	var out []tracecollector.Frame
	for id := range frames {
		name := frames[id]
		if !strings.Contains(name, namespace) || !analyze.Qualified(name) {
			continue
		}
		method := analyze.MethodName(name)
		if analyze.Skip(method) {
			continue
		}
		out = append(out, tracecollector.Frame{
			Method:  method,
			Time:    red.Times[id],
			Samples: red.Samples[id],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time > out[j].Time
	})
	if len(out) > top {
		out = out[:top]
	}
	return out
}
