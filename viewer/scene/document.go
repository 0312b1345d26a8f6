package scene

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyDocument = errors.New("scene: empty document")
	ErrNilDocument   = errors.New("scene: nil document")
)

// Document is a parsed layout document: a tree of mapping, sequence and
// scalar nodes. JSON layouts parse as YAML flow documents.
type Document struct {
	root *yaml.Node
}

// Parse parses layout text. Unparseable or empty text is an error.
func Parse(data []byte) (*Document, error) {
	var n yaml.Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("scene: parse: %w", err)
	}
	if n.Kind == 0 || (n.Kind == yaml.DocumentNode && len(n.Content) == 0) {
		return nil, ErrEmptyDocument
	}
	root := &n
	if root.Kind == yaml.DocumentNode {
		root = root.Content[0]
	}
	return &Document{root: resolve(root)}, nil
}

// records returns the document's records in order: the items of a root
// sequence, or the values of a root mapping. A scalar root has none.
func (d *Document) records() []*yaml.Node {
	if d == nil || d.root == nil {
		return nil
	}
	switch d.root.Kind {
	case yaml.SequenceNode:
		return d.root.Content
	case yaml.MappingNode:
		out := make([]*yaml.Node, 0, len(d.root.Content)/2)
		for i := 1; i < len(d.root.Content); i += 2 {
			out = append(out, d.root.Content[i])
		}
		return out
	default:
		return nil
	}
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// field returns the value of key in a mapping node, or nil.
func field(n *yaml.Node, key string) *yaml.Node {
	n = resolve(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return resolve(n.Content[i+1])
		}
	}
	return nil
}

func isNumber(n *yaml.Node) bool {
	if n == nil || n.Kind != yaml.ScalarNode {
		return false
	}
	switch n.ShortTag() {
	case "!!int", "!!float":
		return true
	}
	return false
}

func number(n *yaml.Node) (float64, bool) {
	n = resolve(n)
	if !isNumber(n) {
		return 0, false
	}
	var f float64
	if err := n.Decode(&f); err != nil {
		return 0, false
	}
	return f, true
}

// triple reads the first three items of a sequence as numbers.
func triple(n *yaml.Node) (a, b, c float64, ok bool) {
	n = resolve(n)
	if n == nil || n.Kind != yaml.SequenceNode || len(n.Content) < 3 {
		return 0, 0, 0, false
	}
	if a, ok = number(n.Content[0]); !ok {
		return 0, 0, 0, false
	}
	if b, ok = number(n.Content[1]); !ok {
		return 0, 0, 0, false
	}
	if c, ok = number(n.Content[2]); !ok {
		return 0, 0, 0, false
	}
	return a, b, c, true
}
