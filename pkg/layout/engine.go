// Package layout computes 2-D positions for OCIF canvas documents using a
// force-directed simulation.
//
// The engine seeds missing positions at random inside the padded canvas,
// builds an adjacency structure from relations, runs a fixed number of
// iterations applying repulsive, attractive, and centering forces with
// per-step displacement clamping, then rescales the result so its bounding
// box fits inside the padded canvas. Arrow connector nodes get their
// position and endpoint coordinates derived from the nodes they connect.
//
// The engine raises no errors for malformed content: zero-distance pairs,
// missing relation endpoints, absent arrow references, and degenerate
// bounding boxes are all skipped so a non-crashing result is always
// produced. The only hard failure is a nil document, which is a caller
// contract violation.
//
// A single layout call is synchronous and single-threaded; the document is
// exclusively owned by the calling goroutine for the duration of the call.
package layout

import (
	"math"
	"math/rand"

	"github.com/devhelpr/ocif-generator/pkg/errors"
	"github.com/devhelpr/ocif-generator/pkg/ocif"
)

// Engine runs the force-directed simulation over a document. An Engine is
// cheap to construct and safe for sequential reuse; concurrent calls to
// Layout on the same Engine race on the random source.
type Engine struct {
	cfg Config
	rng *rand.Rand
}

// New creates an engine with the given configuration. Zero-valued config
// fields take the package defaults. Without WithRand or WithSeed the
// engine uses a fixed default seed so runs are reproducible.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg: cfg.withDefaults(),
		rng: rand.New(rand.NewSource(DefaultSeed)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine's effective configuration after defaulting.
func (e *Engine) Config() Config {
	return e.cfg
}

// Layout resolves positions for every node in doc. Missing positions and
// sizes are seeded, the simulation runs its fixed iteration count, and the
// result is scaled to fit the padded canvas. Arrow endpoint coordinates
// are synchronized to the final node positions.
//
// The document is mutated in place. A nil document is the only error.
func (e *Engine) Layout(doc *ocif.Document) error {
	if doc == nil {
		return errors.New(errors.ErrCodeInvalidInput, "layout: nil document")
	}

	e.seed(doc)
	if len(doc.Nodes) == 0 {
		return nil
	}

	nodes := simNodes(doc)
	pairs := e.adjacency(doc, nodes)
	e.simulate(nodes, pairs)

	e.syncArrows(doc)
	e.normalize(doc)
	// Normalization moved every coordinate, so connector endpoints must
	// be derived again from the final positions.
	e.syncArrows(doc)
	return nil
}

// seed assigns a uniformly random position inside the padded canvas to
// every node whose input position is absent, short, or non-finite, and a
// default size to every node whose input size is absent or short. Arrow
// nodes default to a zero-area size.
func (e *Engine) seed(doc *ocif.Document) {
	c := e.cfg
	spanX := c.CanvasWidth - 2*c.Padding
	spanY := c.CanvasHeight - 2*c.Padding

	for _, n := range doc.Nodes {
		if n == nil {
			continue
		}
		if _, _, ok := pos2(n); !ok {
			n.Position = []float64{
				c.Padding + e.rng.Float64()*spanX,
				c.Padding + e.rng.Float64()*spanY,
			}
		}
		if len(n.Size) < 2 {
			if n.IsArrow() {
				n.Size = []float64{0, 0}
			} else {
				n.Size = []float64{c.DefaultNodeSize[0], c.DefaultNodeSize[1]}
			}
		}
	}
}

// simNodes collects the non-nil nodes participating in the simulation.
func simNodes(doc *ocif.Document) []*ocif.Node {
	nodes := make([]*ocif.Node, 0, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// adjacency scans relations and returns the undirected attraction edges
// as index pairs into nodes. Relations missing either endpoint, or
// referencing unknown node ids, contribute nothing. Duplicate pairs are
// collapsed so one relation never pulls twice.
func (e *Engine) adjacency(doc *ocif.Document, nodes []*ocif.Node) [][2]int {
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if n.ID != "" {
			index[n.ID] = i
		}
	}

	seen := make(map[[2]int]bool)
	var pairs [][2]int
	for _, r := range doc.Relations {
		if r == nil || r.Source == "" || r.Target == "" {
			continue
		}
		i, ok := index[r.Source]
		if !ok {
			continue
		}
		j, ok := index[r.Target]
		if !ok || i == j {
			continue
		}
		if i > j {
			i, j = j, i
		}
		p := [2]int{i, j}
		if seen[p] {
			continue
		}
		seen[p] = true
		pairs = append(pairs, p)
	}
	return pairs
}

// simulate runs the fixed iteration loop over the node positions.
//
// Each iteration accumulates, per node: repulsion k²/d from every other
// node, attraction d²/k at half strength per endpoint of every adjacency
// edge, and a centering pull proportional to the offset from the canvas
// center. The net per-axis force is clamped before integration, and the
// resulting position is clamped to the padded canvas. Pairs at exactly
// zero distance contribute no force this step.
func (e *Engine) simulate(nodes []*ocif.Node, pairs [][2]int) {
	c := e.cfg
	count := len(nodes)

	// Ideal inter-node distance from canvas area and node count.
	k := math.Sqrt(c.CanvasWidth * c.CanvasHeight / float64(count))
	centerX := c.CanvasWidth / 2
	centerY := c.CanvasHeight / 2

	xs := make([]float64, count)
	ys := make([]float64, count)
	for i, n := range nodes {
		xs[i] = n.Position[0]
		ys[i] = n.Position[1]
	}

	fx := make([]float64, count)
	fy := make([]float64, count)

	for iter := 0; iter < c.Iterations; iter++ {
		for i := range fx {
			fx[i] = 0
			fy[i] = 0
		}

		// Repulsion between all unordered pairs.
		for i := 0; i < count; i++ {
			for j := i + 1; j < count; j++ {
				dx := xs[i] - xs[j]
				dy := ys[i] - ys[j]
				d := math.Hypot(dx, dy)
				if d == 0 {
					continue
				}
				f := k * k / d
				fx[i] += dx / d * f
				fy[i] += dy / d * f
				fx[j] -= dx / d * f
				fy[j] -= dy / d * f
			}
		}

		// Attraction along adjacency edges, half strength per endpoint.
		for _, p := range pairs {
			i, j := p[0], p[1]
			dx := xs[i] - xs[j]
			dy := ys[i] - ys[j]
			d := math.Hypot(dx, dy)
			if d == 0 {
				continue
			}
			f := d * d / k / 2
			fx[i] -= dx / d * f
			fy[i] -= dy / d * f
			fx[j] += dx / d * f
			fy[j] += dy / d * f
		}

		// Gravity toward the canvas center keeps disconnected
		// components from drifting outward.
		for i := 0; i < count; i++ {
			fx[i] += (centerX - xs[i]) * c.GravityStrength
			fy[i] += (centerY - ys[i]) * c.GravityStrength
		}

		// Integrate with per-axis displacement and bounds clamping.
		for i := 0; i < count; i++ {
			xs[i] = clamp(xs[i]+clamp(fx[i], -c.MaxStepDisplacement, c.MaxStepDisplacement),
				c.Padding, c.CanvasWidth-c.Padding)
			ys[i] = clamp(ys[i]+clamp(fy[i], -c.MaxStepDisplacement, c.MaxStepDisplacement),
				c.Padding, c.CanvasHeight-c.Padding)
		}
	}

	for i, n := range nodes {
		n.Position = []float64{xs[i], ys[i]}
	}
}

// pos2 returns the node's first two coordinates if they are present and
// finite.
func pos2(n *ocif.Node) (x, y float64, ok bool) {
	if n == nil || len(n.Position) < 2 {
		return 0, 0, false
	}
	x, y = n.Position[0], n.Position[1]
	if !finite(x) || !finite(y) {
		return 0, 0, false
	}
	return x, y, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
