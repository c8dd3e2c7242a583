package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/papapumpkin/selang/internal/compile"
)

// nodeType is either a reference name or ["ring", count, name].
type nodeType struct {
	Name  string
	Ring  bool
	Count int
}

func (t *nodeType) UnmarshalJSON(b []byte) error {
	if err := json.Unmarshal(b, &t.Name); err == nil {
		return nil
	}
	var tuple []any
	if err := json.Unmarshal(b, &tuple); err != nil {
		return fmt.Errorf("%w: type %s: expected a name or [\"ring\", count, name]", compile.ErrInvalidOrbitShape, b)
	}
	return t.fromTuple(tuple)
}

func (t *nodeType) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		return n.Decode(&t.Name)
	}
	var tuple []any
	if err := n.Decode(&tuple); err != nil {
		return fmt.Errorf("%w: type at line %d: expected a name or [ring, count, name]", compile.ErrInvalidOrbitShape, n.Line)
	}
	return t.fromTuple(tuple)
}

func (t *nodeType) fromTuple(tuple []any) error {
	if len(tuple) != 3 || tuple[0] != "ring" {
		return fmt.Errorf("%w: type %v: expected [\"ring\", count, name]", compile.ErrInvalidOrbitShape, tuple)
	}
	var count float64
	switch n := tuple[1].(type) {
	case float64:
		count = n
	case int:
		count = float64(n)
	default:
		return fmt.Errorf("%w: ring count %v is not a number", compile.ErrInvalidOrbitShape, tuple[1])
	}
	name, ok := tuple[2].(string)
	if !ok || count < 0 || count != float64(int(count)) {
		return fmt.Errorf("%w: ring %v: expected a non-negative count and a body name", compile.ErrInvalidOrbitShape, tuple)
	}
	*t = nodeType{Name: name, Ring: true, Count: int(count)}
	return nil
}

// children is a single node or a list of nodes.
type children []*treeNode

func (c *children) UnmarshalJSON(b []byte) error {
	if b = bytes.TrimSpace(b); len(b) > 0 && b[0] == '{' {
		var n treeNode
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*c = children{&n}
		return nil
	}
	var list []*treeNode
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*c = list
	return nil
}

func (c *children) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.MappingNode {
		var node treeNode
		if err := n.Decode(&node); err != nil {
			return err
		}
		*c = children{&node}
		return nil
	}
	var list []*treeNode
	if err := n.Decode(&list); err != nil {
		return err
	}
	*c = list
	return nil
}

func decodeJSON(b []byte) ([]*treeNode, error) {
	if t := bytes.TrimSpace(b); len(t) > 0 && t[0] == '[' {
		var nodes []*treeNode
		if err := json.Unmarshal(t, &nodes); err != nil {
			return nil, err
		}
		return nodes, nil
	}
	var n treeNode
	if err := json.Unmarshal(b, &n); err != nil {
		return nil, err
	}
	return []*treeNode{&n}, nil
}

func decodeYAML(b []byte) ([]*treeNode, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	if doc.Content[0].Kind == yaml.SequenceNode {
		var nodes []*treeNode
		if err := doc.Content[0].Decode(&nodes); err != nil {
			return nil, err
		}
		return nodes, nil
	}
	var n treeNode
	if err := doc.Content[0].Decode(&n); err != nil {
		return nil, err
	}
	return []*treeNode{&n}, nil
}
