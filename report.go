package odr2city

import (
	"fmt"
	"strings"
)

// Message is a single non-fatal issue found while healing input or building
// geometry. Context identifies the source element (road, lane, object) the
// issue belongs to.
type Message struct {
	Context string
	Text    string
}

// String returns pretty printed value for Message
func (m Message) String() string {
	if m.Context == "" {
		return m.Text
	}
	return fmt.Sprintf("%s: %s", m.Context, m.Text)
}

// Report accumulates non-fatal issues during a conversion run. Healed input
// violations and per-geometry construction failures land here; they never
// travel as errors. A Report is not safe for concurrent use; parallel road
// conversions keep one Report per road and merge afterwards.
type Report struct {
	messages []Message
}

// Warnf records a formatted issue for the given element context
func (r *Report) Warnf(context, format string, args ...interface{}) {
	r.messages = append(r.messages, Message{Context: context, Text: fmt.Sprintf(format, args...)})
}

// Merge appends all messages of the other report
func (r *Report) Merge(other *Report) {
	r.messages = append(r.messages, other.messages...)
}

// Messages returns all accumulated issues in insertion order
func (r *Report) Messages() []Message {
	return r.messages
}

// IsEmpty reports whether no issues have been recorded
func (r *Report) IsEmpty() bool {
	return len(r.messages) == 0
}

// String renders the report the same way warnings are printed during verbose
// conversion
func (r *Report) String() string {
	var sb strings.Builder
	for _, m := range r.messages {
		sb.WriteString(fmt.Sprintf("\t[WARNING]: %s\n", m.String()))
	}
	return sb.String()
}

// Print writes all messages to stdout when verbose is enabled
func (r *Report) Print(verbose bool) {
	if !verbose || r.IsEmpty() {
		return
	}
	fmt.Print(r.String())
}

// buildEach applies build to every item, collects the successfully built
// results and records every per-item failure as a non-fatal issue. Partial
// success is the expected outcome: one degenerate object must not abort its
// siblings.
func buildEach[In, Out any](items []In, report *Report, context func(In) string, build func(In) (Out, error)) []Out {
	out := make([]Out, 0, len(items))
	for _, item := range items {
		built, err := build(item)
		if err != nil {
			report.Warnf(context(item), "skipped: %s", err.Error())
			continue
		}
		out = append(out, built)
	}
	return out
}
