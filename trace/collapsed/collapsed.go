// Package collapsed folds an evented trace into collapsed stack
// samples, the line format flamegraph tooling ingests.
package collapsed

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Emyrk/hotpath/trace/analyze"
	"github.com/Emyrk/hotpath/trace/speedscope"
)

type Sample struct {
	// Stack is root first, leaf last, full display names.
	Stack []string
	// Value is nanoseconds attributed to exactly this stack.
	Value int64
	// Count is how many event intervals contributed to Value.
	Count int64
}

type Profile struct {
	Samples []Sample
}

// FromEvents replays the event stream and attributes the wall time
// between consecutive events to the stack that was live during that
// interval. Aggregation is per unique stack, first-seen order.
// unitNanos scales the profile's time unit to nanoseconds.
func FromEvents(frames analyze.Frames, events []speedscope.Event, unitNanos float64) *Profile {
	type accum struct {
		stack []string
		units float64
		count int64
	}
	var (
		order []*accum
		byKey = make(map[string]*accum)
		stack []int
		prev  float64
	)

	attribute := func(delta float64) {
		if len(stack) == 0 || delta == 0 {
			return
		}
		names := make([]string, len(stack))
		for i, id := range stack {
			names[i] = frames.Name(id)
		}
		key := strings.Join(names, ";")
		a, ok := byKey[key]
		if !ok {
			a = &accum{stack: names}
			byKey[key] = a
			order = append(order, a)
		}
		a.units += delta
		a.count++
	}

	for _, ev := range events {
		attribute(ev.At - prev)
		prev = ev.At

		switch ev.Type {
		case speedscope.EventOpen:
			stack = append(stack, ev.Frame)
		case speedscope.EventClose:
			// Same discipline as the reducer: the top is popped even
			// when the close names a different frame.
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	p := &Profile{Samples: make([]Sample, 0, len(order))}
	for _, a := range order {
		p.Samples = append(p.Samples, Sample{
			Stack: a.stack,
			Value: int64(a.units * unitNanos),
			Count: a.count,
		})
	}
	return p
}

// TotalValue sums the attributed nanoseconds over all samples.
func (p *Profile) TotalValue() int64 {
	var total int64
	for _, s := range p.Samples {
		total += s.Value
	}
	return total
}

// Encode writes one "root;child;leaf value" line per sample.
func Encode(p *Profile, w io.Writer) error {
	for _, sample := range p.Samples {
		stack := strings.Join(sample.Stack, ";")
		_, err := fmt.Fprintf(w, "%s %d\n", stack, sample.Value)
		if err != nil {
			return err
		}
	}
	return nil
}

// Decode parses collapsed stack lines. Counts are not carried by the
// wire format and come back zero.
func Decode(r io.Reader) (*Profile, error) {
	res := &Profile{Samples: make([]Sample, 0)}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		idx := strings.LastIndexByte(line, ' ')
		if idx == -1 {
			return nil, errors.New("collapsed: malformed input")
		}
		value, err := strconv.ParseInt(line[idx+1:], 0, 64)
		if err != nil {
			return nil, fmt.Errorf("collapsed: malformed input: %w", err)
		}
		res.Samples = append(res.Samples, Sample{
			Stack: strings.Split(line[:idx], ";"),
			Value: value,
		})
	}

	return res, scanner.Err()
}
