// Package ocif defines the document model for Open Canvas Interchange
// Format (OCIF) canvases: positionable nodes, relations between them, and
// whatever extension data producers attach to either.
//
// The types here are deliberately permissive. Canvas documents come from
// generative upstream sources and routinely carry members this module does
// not interpret (shapes, colors, markers, resources). Every type keeps a
// strongly-typed core plus an opaque side-channel of unrecognized members
// that survives a full unmarshal/marshal round trip, so downstream
// consumers see exactly what the producer wrote.
//
// # Arrows
//
// A node whose extension data carries the type [TypeArrowNode] is an arrow:
// it does not represent a box but the visual rendering of a relation. Its
// position and stored start/end coordinates are derived from the nodes it
// connects, never simulated independently. A relation declares this binding
// with an extension entry of type [TypeEdgeRelation] naming the arrow node
// and the two endpoint node ids.
package ocif

// Extension type markers recognized by the layout engine.
const (
	// TypeArrowNode marks a node as an arrow connector.
	TypeArrowNode = "@ocif/node/arrow"

	// TypeEdgeRelation marks a relation extension entry that binds an
	// arrow node to its two endpoint nodes.
	TypeEdgeRelation = "@ocif/rel/edge"
)

// Document is an OCIF canvas: an ordered collection of nodes and the
// relations between them. Node order is reused for iteration but carries
// no meaning. Unknown top-level members (resources, schemas, ...) are
// preserved in Extra.
type Document struct {
	OCIF      string      `bson:"ocif"`
	Nodes     []*Node     `bson:"nodes"`
	Relations []*Relation `bson:"relations,omitempty"`

	Extra RawFields `bson:"extra,omitempty"`
}

// Node is a positionable entity on the canvas. Position and Size are
// optional on input; after layout both are always set. Data holds typed
// extension entries the engine reads only to detect arrows.
type Node struct {
	ID       string           `bson:"id"`
	Position []float64        `bson:"position,omitempty"`
	Size     []float64        `bson:"size,omitempty"`
	Data     []map[string]any `bson:"data,omitempty"`

	Extra RawFields `bson:"extra,omitempty"`
}

// Relation is a declared connection between two node identities. A
// relation with both Source and Target set (and resolvable) contributes
// one undirected adjacency edge to the simulation. Edge-style extension
// entries additionally bind an arrow node, handled separately.
type Relation struct {
	ID     string           `bson:"id"`
	Source string           `bson:"source,omitempty"`
	Target string           `bson:"target,omitempty"`
	Data   []map[string]any `bson:"data,omitempty"`

	Extra RawFields `bson:"extra,omitempty"`
}

// EdgeBinding describes a relation's arrow attachment: the arrow node and
// the two endpoint nodes whose positions it connects.
type EdgeBinding struct {
	ArrowID string
	StartID string
	EndID   string
}

// NodeIndex returns a map from node id to node for all nodes with a
// non-empty id. Later duplicates win, matching iteration order.
func (d *Document) NodeIndex() map[string]*Node {
	idx := make(map[string]*Node, len(d.Nodes))
	for _, n := range d.Nodes {
		if n != nil && n.ID != "" {
			idx[n.ID] = n
		}
	}
	return idx
}

// IsArrow reports whether the node carries an arrow extension entry.
func (n *Node) IsArrow() bool {
	return n.arrowData() != nil
}

// arrowData returns the first arrow extension entry, or nil.
func (n *Node) arrowData() map[string]any {
	for _, entry := range n.Data {
		if t, ok := entry["type"].(string); ok && t == TypeArrowNode {
			return entry
		}
	}
	return nil
}

// SetArrowEndpoints records the literal start/end coordinates on the
// node's arrow extension entry, creating the entry if the node lacks one.
func (n *Node) SetArrowEndpoints(start, end []float64) {
	entry := n.arrowData()
	if entry == nil {
		entry = map[string]any{"type": TypeArrowNode}
		n.Data = append(n.Data, entry)
	}
	entry["start"] = start
	entry["end"] = end
}

// EdgeBinding returns the relation's arrow binding if it has an edge-style
// extension entry naming an arrow node and both endpoint ids. Relations
// without a complete binding return ok=false and are skipped by endpoint
// derivation.
func (r *Relation) EdgeBinding() (EdgeBinding, bool) {
	for _, entry := range r.Data {
		t, ok := entry["type"].(string)
		if !ok || t != TypeEdgeRelation {
			continue
		}
		arrow, _ := entry["node"].(string)
		start, _ := entry["start"].(string)
		end, _ := entry["end"].(string)
		if arrow == "" || start == "" || end == "" {
			continue
		}
		return EdgeBinding{ArrowID: arrow, StartID: start, EndID: end}, true
	}
	return EdgeBinding{}, false
}
