// Package pprofconv turns collapsed stack samples into a pprof profile
// that Pyroscope and the pprof toolchain can ingest.
package pprofconv

import (
	"bytes"
	"strings"
	"time"

	"github.com/Emyrk/hotpath/trace/analyze"
	"github.com/Emyrk/hotpath/trace/collapsed"
	"github.com/google/pprof/profile"
)

type Converter struct {
	fid       uint64
	functions map[string]*profile.Function
	locations map[string]*profile.Location

	protobuf *profile.Profile
}

func New() *Converter {
	return &Converter{
		functions: make(map[string]*profile.Function),
		locations: make(map[string]*profile.Location),
		protobuf: &profile.Profile{
			SampleType: []*profile.ValueType{
				{Type: "cpu", Unit: "nanoseconds"},
				{Type: "samples", Unit: "count"},
			},
			DefaultSampleType: "cpu",
			Sample:            []*profile.Sample{},
			Mapping:           []*profile.Mapping{},
			Location:          []*profile.Location{},
			Function:          []*profile.Function{},
			Comments:          []string{},
			DropFrames:        "",
			KeepFrames:        "",
			TimeNanos:         time.Now().UnixNano(),
			DurationNanos:     0,
		},
	}
}

// Convert appends every sample of the collapsed profile. The caller may
// set DurationNanos on the result when the trace carries a time range.
func (c *Converter) Convert(p *collapsed.Profile) *profile.Profile {
	for _, sample := range p.Samples {
		c.convertSample(sample)
	}
	return c.protobuf
}

func (c *Converter) Encode() ([]byte, error) {
	var buf bytes.Buffer
	err := c.protobuf.Write(&buf)
	return buf.Bytes(), err
}

func (c *Converter) convertSample(s collapsed.Sample) {
	if len(s.Stack) == 0 {
		return
	}

	// Location[0] is the leaf, collapsed stacks are root first.
	locs := make([]*profile.Location, len(s.Stack))
	for i, name := range s.Stack {
		_, loc := c.function(name)
		locs[len(s.Stack)-1-i] = loc
	}

	c.protobuf.Sample = append(c.protobuf.Sample, &profile.Sample{
		Location: locs,
		Value:    []int64{s.Value, s.Count},
	})
}

func (c *Converter) function(name string) (*profile.Function, *profile.Location) {
	if fn, found := c.functions[name]; found {
		return fn, c.locations[name]
	}

	c.fid++
	fn := &profile.Function{
		ID:         c.fid,
		Name:       analyze.MethodName(name),
		SystemName: name,
		Filename:   qualifier(name),
		StartLine:  1,
	}
	c.functions[name] = fn
	c.protobuf.Function = append(c.protobuf.Function, fn)

	loc := &profile.Location{
		ID: c.fid,
		Line: []profile.Line{
			{
				Function: fn,
				Line:     fn.StartLine,
			},
		},
	}
	c.locations[name] = loc
	c.protobuf.Location = append(c.protobuf.Location, loc)
	return fn, loc
}

// qualifier returns the module portion of a display name, which stands
// in for a filename in the pprof model.
func qualifier(name string) string {
	if i := strings.Index(name, analyze.Delimiter); i >= 0 {
		return name[:i]
	}
	return ""
}
