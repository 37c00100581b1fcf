package document

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrNotMapping is returned when YAML input is not a key-value mapping
var ErrNotMapping = errors.New("document: yaml input is not a mapping")

// ParseYAML reads one block produced by RenderYAML back into an unnamed
// document. Scalar entries become properties and nested mappings become
// named children, in input order. Empty nested keys become empty children.
func ParseYAML(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("document: failed to parse yaml: %w", err)
	}

	doc := New("")
	if root.Kind == 0 {
		return doc, nil
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, ErrNotMapping
	}
	if err := fillFromNode(doc, root.Content[0]); err != nil {
		return nil, err
	}
	return doc, nil
}

func fillFromNode(doc *Document, node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return ErrNotMapping
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		switch value.Kind {
		case yaml.ScalarNode:
			// An empty key ("Details:") parses as a null scalar
			if value.Tag == "!!null" && value.Value == "" && value.Style == 0 {
				doc.children = append(doc.children, New(key.Value))
				continue
			}
			doc.AddString(key.Value, value.Value)
		case yaml.MappingNode:
			child := New(key.Value)
			if err := fillFromNode(child, value); err != nil {
				return err
			}
			doc.children = append(doc.children, child)
		default:
			return fmt.Errorf("document: unsupported yaml node for key '%s'", key.Value)
		}
	}
	return nil
}
