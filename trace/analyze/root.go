package analyze

import "strings"

// SelectRoot picks the frame to hang a call tree from: the qualified
// frame matching the namespace filter with the largest accumulated
// time, excluding harness methods. Only frames with positive recorded
// time are candidates, so an empty or fully-unclosed trace selects
// nothing. Ties keep the lowest frame id.
//
// ok is false when no frame qualifies. Callers report that as "nothing
// to analyze", it is not a defect in the trace.
func SelectRoot(frames Frames, red *Reduction, namespace string) (root int, ok bool) {
	root = -1
	best := 0.0
	for id := range frames {
		t, recorded := red.Times[id]
		if !recorded {
			continue
		}
		name := frames[id]
		if !strings.Contains(name, namespace) || !Qualified(name) {
			continue
		}
		if Skip(MethodName(name)) {
			continue
		}
		if t > best {
			best = t
			root = id
		}
	}
	return root, root >= 0
}
