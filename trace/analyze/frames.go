// Package analyze reduces a speedscope event stream into per-frame
// aggregates and the call graph the tree and report views are built from.
package analyze

import (
	"fmt"
	"strings"

	"github.com/Emyrk/hotpath/trace/speedscope"
)

// Delimiter separates the module qualifier from the method name in
// frames emitted by .NET trace exporters, e.g.
// "BenchmarkApp!MonoGame.Extended.Sprites.SpriteBatch.Draw()".
const Delimiter = "!"

// Frames is the read-only frame id to display name table for one trace.
type Frames []string

func NewFrames(f *speedscope.File) Frames {
	names := make(Frames, len(f.Shared.Frames))
	for i, frame := range f.Shared.Frames {
		names[i] = frame.Name
	}
	return names
}

// Name returns the display name for a frame id. Ids outside the table
// render as a placeholder instead of panicking, events are allowed to
// reference frames the document never declared.
func (f Frames) Name(id int) string {
	if id < 0 || id >= len(f) {
		return fmt.Sprintf("<frame %d>", id)
	}
	return f[id]
}

// Resolves reports whether id maps to a declared frame.
func (f Frames) Resolves(id int) bool {
	return id >= 0 && id < len(f)
}

// MethodName strips the module qualifier from a display name. Names
// without the delimiter are returned whole.
func MethodName(name string) string {
	if i := strings.Index(name, Delimiter); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Qualified reports whether the display name carries a module qualifier.
// Only qualified frames are considered application methods; synthetic
// frames like "Process64 Id: 1234" never contain the delimiter.
func Qualified(name string) bool {
	return strings.Contains(name, Delimiter)
}
