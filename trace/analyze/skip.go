package analyze

import "strings"

// SkipMethods marks benchmark harness, runtime bootstrap, and unmanaged
// overhead frames. These never qualify as a tree root and are elided
// from rendered trees, their time still exists in the aggregates.
var SkipMethods = []string{
	"UNMANAGED_CODE_TIME",
	"GlobalSetup",
	"GlobalCleanup",
	"IterationSetup",
	"IterationCleanup",
	"BenchmarkDotNet.",
	"Perfolizer.",
	"..cctor()",
	".cctor()",
	"..ctor()",
	".Initialize()",
	"BeforeAnythingElse",
	"AfterAll",
	"BeforeActualRun",
	"AfterActualRun",
	"OverheadJitting",
	"WorkloadJitting",
	"OverheadWarmup",
	"OverheadActual",
	"WorkloadWarmup",
}

// Skip reports whether a method name contains any skip pattern.
// Substring matching is intentional, the harness embeds these markers
// anywhere in the frame name.
func Skip(method string) bool {
	for _, pattern := range SkipMethods {
		if strings.Contains(method, pattern) {
			return true
		}
	}
	return false
}
