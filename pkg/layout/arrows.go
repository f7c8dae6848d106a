package layout

import "github.com/devhelpr/ocif-generator/pkg/ocif"

// syncArrows recomputes derived positioning for every relation that binds
// an arrow connector node: the arrow node's position becomes the midpoint
// of its start/end nodes, and the arrow's stored start/end coordinate
// pairs become the literal positions of those nodes.
//
// A relation without a complete binding, a binding referencing unknown
// node ids, or endpoints lacking a resolved position is skipped; the rest
// of the document proceeds.
func (e *Engine) syncArrows(doc *ocif.Document) {
	index := doc.NodeIndex()

	for _, r := range doc.Relations {
		if r == nil {
			continue
		}
		b, ok := r.EdgeBinding()
		if !ok {
			continue
		}
		arrow := index[b.ArrowID]
		if arrow == nil {
			continue
		}
		sx, sy, ok := pos2(index[b.StartID])
		if !ok {
			continue
		}
		ex, ey, ok := pos2(index[b.EndID])
		if !ok {
			continue
		}

		arrow.Position = []float64{(sx + ex) / 2, (sy + ey) / 2}
		arrow.SetArrowEndpoints([]float64{sx, sy}, []float64{ex, ey})
	}
}
