// Package plot defines the optional debug-geometry sink the pitch pipeline
// pushes annotated boxes and cell grids into. Analysis output is identical
// whether a real sink or the no-op sink is attached.
package plot

import "github.com/pitchgrid/pitchgrid/internal/page"

// Sink receives annotated geometry. Implementations must not influence the
// caller: every method is fire-and-forget.
type Sink interface {
	// Box draws a rectangle with a semantic label (e.g. a row decision)
	Box(box page.Rectangle, label string)

	// VerticalLine draws a vertical line from (x, top) to (x, bottom) with
	// a semantic label (e.g. "cell")
	VerticalLine(x, top, bottom int, label string)
}

// NopSink discards everything. It is the default sink.
type NopSink struct{}

// Box implements Sink
func (NopSink) Box(page.Rectangle, string) {}

// VerticalLine implements Sink
func (NopSink) VerticalLine(int, int, int, string) {}
