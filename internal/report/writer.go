package report

// Style controls how a block of text is drawn.
type Style struct {
	Size      float64 // point size, 12 when zero
	Bold      bool
	Underline bool
	Gray      bool
	Align     string  // "L" (default), "C", "R"
	Indent    float64 // points from the left margin
}

// DocumentWriter is the drawing boundary the renderer writes through.
// Page-break decisions belong to the renderer, which queries SpaceLeft;
// the writer only draws, moves the cursor and finishes the document.
type DocumentWriter interface {
	// AddText draws a block of text at the cursor and advances it.
	AddText(text string, style Style)
	// MoveDown advances the cursor by the given number of points.
	MoveDown(points float64)
	// AddPage ends the current page and starts a fresh one.
	AddPage()
	// SpaceLeft reports the vertical space remaining on the current page.
	SpaceLeft() float64
	// Close finishes the document and delivers it to the output.
	Close() error
}
