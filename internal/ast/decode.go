package ast

import "encoding/json"

// wireNode is the JSON-serializable shape of Node. The upstream parser is out of scope for this
// compiler core; the contract this package actually exercises is "an ast.Node tree arrives", and
// a JSON encoding of that tree is the concrete, testable stand-in used by the compile orchestrator
// and by this repository's own fixtures.
type wireNode struct {
	Kind     string      `json:"kind"`
	Line     int         `json:"line"`
	Pos      int         `json:"pos"`
	Data     interface{} `json:"data,omitempty"`
	Children []wireNode  `json:"children,omitempty"`
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for i, name := range kindNames {
		m[name] = Kind(i)
	}
	return m
}()

// Decode parses a JSON-encoded syntax tree produced by an upstream front-end into a Node tree.
func Decode(src []byte) (*Node, error) {
	var w wireNode
	if err := json.Unmarshal(src, &w); err != nil {
		return nil, err
	}
	return w.toNode()
}

func (w wireNode) toNode() (*Node, error) {
	k, ok := kindByName[w.Kind]
	if !ok {
		return nil, &unknownKindError{Kind: w.Kind}
	}
	n := &Node{
		Typ:      k,
		Line:     w.Line,
		Pos:      w.Pos,
		Data:     normalizeData(k, w.Data),
		Children: make([]*Node, len(w.Children)),
	}
	for i, c := range w.Children {
		child, err := c.toNode()
		if err != nil {
			return nil, err
		}
		n.Children[i] = child
	}
	return n, nil
}

// normalizeData narrows the generic interface{} JSON decodes numbers into (always float64) back to
// the concrete Go type the emitter expects for each literal Kind.
func normalizeData(k Kind, data interface{}) interface{} {
	switch k {
	case INTEGER_LITERAL:
		if f, ok := data.(float64); ok {
			return int64(f)
		}
	case FLOAT_LITERAL:
		if f, ok := data.(float64); ok {
			return f
		}
	case BOOL_LITERAL:
		if b, ok := data.(bool); ok {
			return b
		}
	}
	return data
}

type unknownKindError struct {
	Kind string
}

func (e *unknownKindError) Error() string {
	return "ast: unknown node kind " + e.Kind
}
