package layout

import (
	"math"

	"github.com/devhelpr/ocif-generator/pkg/ocif"
)

// normalize rescales and translates all node positions so the bounding
// box of the drawing fits inside the padded canvas, with its minimum
// corner at (padding, padding).
//
// The scale factor is the minimum of the per-axis fit ratios and 1.0, so
// the engine only ever shrinks to fit and never magnifies a compact
// drawing. A zero-extent axis is skipped rather than divided by, and a
// document with no finite positions is returned unchanged.
func (e *Engine) normalize(doc *ocif.Document) {
	c := e.cfg

	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	valid := 0
	for _, n := range doc.Nodes {
		x, y, ok := pos2(n)
		if !ok {
			continue
		}
		valid++
		minX = min(minX, x)
		maxX = max(maxX, x)
		minY = min(minY, y)
		maxY = max(maxY, y)
	}
	if valid == 0 {
		return
	}

	scale := 1.0
	if w := maxX - minX; w > 0 {
		if s := (c.CanvasWidth - 2*c.Padding) / w; s < scale {
			scale = s
		}
	}
	if h := maxY - minY; h > 0 {
		if s := (c.CanvasHeight - 2*c.Padding) / h; s < scale {
			scale = s
		}
	}

	for _, n := range doc.Nodes {
		x, y, ok := pos2(n)
		if !ok {
			continue
		}
		n.Position = []float64{
			c.Padding + (x-minX)*scale,
			c.Padding + (y-minY)*scale,
		}
	}
}
