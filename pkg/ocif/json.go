package ocif

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// RawFields holds unrecognized JSON members of a document, node, or
// relation. It round-trips byte-for-byte: whatever a producer wrote and
// this module does not interpret is re-emitted unchanged on marshal.
type RawFields map[string]json.RawMessage

// decodeField decodes raw[key] into dst and removes the key from raw.
// A missing key or a value of the wrong shape leaves dst untouched; the
// malformed value is dropped rather than rejected, matching the engine's
// silently-default policy for partially specified input.
func decodeField(raw map[string]json.RawMessage, key string, dst any) {
	v, ok := raw[key]
	if !ok {
		return
	}
	delete(raw, key)
	_ = json.Unmarshal(v, dst)
}

// encodeField marshals v into out[key], overriding any preserved raw
// member of the same name.
func encodeField(out map[string]json.RawMessage, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	out[key] = b
	return nil
}

// UnmarshalJSON decodes a document, keeping unrecognized top-level
// members in Extra.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decodeField(raw, "ocif", &d.OCIF)
	decodeField(raw, "nodes", &d.Nodes)
	decodeField(raw, "relations", &d.Relations)
	if len(raw) > 0 {
		d.Extra = raw
	}
	return nil
}

// MarshalJSON encodes the document, re-emitting preserved members.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(d.Extra)+3)
	for k, v := range d.Extra {
		out[k] = v
	}
	if d.OCIF != "" {
		if err := encodeField(out, "ocif", d.OCIF); err != nil {
			return nil, err
		}
	}
	if err := encodeField(out, "nodes", d.Nodes); err != nil {
		return nil, err
	}
	if d.Relations != nil {
		if err := encodeField(out, "relations", d.Relations); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a node, keeping unrecognized members in Extra.
// Malformed position or size values are dropped and later defaulted by
// the layout engine.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decodeField(raw, "id", &n.ID)
	decodeField(raw, "position", &n.Position)
	decodeField(raw, "size", &n.Size)
	decodeField(raw, "data", &n.Data)
	if len(raw) > 0 {
		n.Extra = raw
	}
	return nil
}

// MarshalJSON encodes the node, re-emitting preserved members.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(n.Extra)+4)
	for k, v := range n.Extra {
		out[k] = v
	}
	if err := encodeField(out, "id", n.ID); err != nil {
		return nil, err
	}
	if n.Position != nil {
		if err := encodeField(out, "position", n.Position); err != nil {
			return nil, err
		}
	}
	if n.Size != nil {
		if err := encodeField(out, "size", n.Size); err != nil {
			return nil, err
		}
	}
	if len(n.Data) > 0 {
		if err := encodeField(out, "data", n.Data); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a relation, keeping unrecognized members in Extra.
func (r *Relation) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decodeField(raw, "id", &r.ID)
	decodeField(raw, "source", &r.Source)
	decodeField(raw, "target", &r.Target)
	decodeField(raw, "data", &r.Data)
	if len(raw) > 0 {
		r.Extra = raw
	}
	return nil
}

// MarshalJSON encodes the relation, re-emitting preserved members.
func (r *Relation) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(r.Extra)+4)
	for k, v := range r.Extra {
		out[k] = v
	}
	if err := encodeField(out, "id", r.ID); err != nil {
		return nil, err
	}
	if r.Source != "" {
		if err := encodeField(out, "source", r.Source); err != nil {
			return nil, err
		}
	}
	if r.Target != "" {
		if err := encodeField(out, "target", r.Target); err != nil {
			return nil, err
		}
	}
	if len(r.Data) > 0 {
		if err := encodeField(out, "data", r.Data); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

// ReadDocument decodes an OCIF document from r.
//
// The input must be a JSON object with a "nodes" array; "relations" and
// any other members are optional. Unknown members at the document, node,
// and relation level are preserved and re-emitted by [WriteDocument].
// ReadDocument does not close r.
func ReadDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &doc, nil
}

// WriteDocument encodes doc as indented JSON and writes it to w.
// The output can be re-read with [ReadDocument] for round-trip processing.
func WriteDocument(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ImportFile reads an OCIF document from the JSON file at path.
func ImportFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDocument(f)
}

// ExportFile writes doc to a JSON file at path.
// This is a convenience wrapper around [WriteDocument] for file output.
func ExportFile(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteDocument(f, doc)
}
