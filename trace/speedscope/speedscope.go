// Package speedscope reads the speedscope JSON file format.
// See https://github.com/jlfwong/speedscope/blob/main/src/lib/file-format-spec.ts
package speedscope

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

const (
	Schema = "https://www.speedscope.app/file-format-schema.json"

	ProfileEvented = "evented"
	ProfileSampled = "sampled"

	EventOpen  = "O"
	EventClose = "C"
)

type File struct {
	Schema             string    `json:"$schema,omitempty"`
	Name               string    `json:"name,omitempty"`
	Exporter           string    `json:"exporter,omitempty"`
	ActiveProfileIndex float64   `json:"activeProfileIndex,omitempty"`
	Shared             Shared    `json:"shared"`
	Profiles           []Profile `json:"profiles"`
}

type Shared struct {
	Frames []Frame `json:"frames"`
}

type Frame struct {
	Name string  `json:"name"`
	File string  `json:"file,omitempty"`
	Line float64 `json:"line,omitempty"`
	Col  float64 `json:"col,omitempty"`
}

type Profile struct {
	Type       string  `json:"type"`
	Name       string  `json:"name"`
	Unit       string  `json:"unit"`
	StartValue float64 `json:"startValue"`
	EndValue   float64 `json:"endValue"`

	// Evented profile
	Events []Event `json:"events,omitempty"`

	// Sampled profile
	Samples [][]int   `json:"samples,omitempty"`
	Weights []float64 `json:"weights,omitempty"`
}

// Event is a single stack transition. An open pushes Frame onto the
// running stack, a close pops it. At is in the profile's Unit.
type Event struct {
	Type  string  `json:"type"`
	At    float64 `json:"at"`
	Frame int     `json:"frame"`
}

func Decode(r io.Reader) (*File, error) {
	var f File
	err := json.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, fmt.Errorf("decode speedscope document: %w", err)
	}
	if len(f.Shared.Frames) == 0 {
		return nil, fmt.Errorf("speedscope document has no frames")
	}
	if len(f.Profiles) == 0 {
		return nil, fmt.Errorf("speedscope document has no profiles")
	}
	return &f, nil
}

func ReadFile(path string) (*File, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	defer fd.Close()

	f, err := Decode(fd)
	if err != nil {
		return nil, fmt.Errorf("read trace %q: %w", path, err)
	}
	return f, nil
}

// MainProfile returns the profile with the most events. Ties keep the
// earliest profile in the document. Exporters commonly emit one tiny
// metadata profile next to the real one, so event count is the signal.
func (f *File) MainProfile() *Profile {
	var main *Profile
	for i := range f.Profiles {
		p := &f.Profiles[i]
		if main == nil || len(p.Events) > len(main.Events) {
			main = p
		}
	}
	return main
}

// UnitNanos returns how many nanoseconds one time unit of this profile
// represents. Unknown units are passed through unscaled.
func (p *Profile) UnitNanos() float64 {
	switch p.Unit {
	case "seconds":
		return 1e9
	case "milliseconds":
		return 1e6
	case "microseconds":
		return 1e3
	case "nanoseconds":
		return 1
	default:
		return 1
	}
}

func (p *Profile) DurationNanos() int64 {
	return int64((p.EndValue - p.StartValue) * p.UnitNanos())
}
