package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// FieldMappings is a name -> mapping table that remembers declaration order.
// Evaluation does not depend on the order, but display and serialization do.
type FieldMappings struct {
	keys   []string
	values map[string]*FieldMapping
}

func NewFieldMappings() *FieldMappings {
	return &FieldMappings{values: map[string]*FieldMapping{}}
}

// Set adds or replaces a mapping. Replacing keeps the original position.
func (m *FieldMappings) Set(name string, mapping *FieldMapping) {
	if m.values == nil {
		m.values = map[string]*FieldMapping{}
	}
	if _, exists := m.values[name]; !exists {
		m.keys = append(m.keys, name)
	}
	m.values[name] = mapping
}

func (m *FieldMappings) Get(name string) (*FieldMapping, bool) {
	if m == nil || m.values == nil {
		return nil, false
	}
	v, ok := m.values[name]
	return v, ok
}

func (m *FieldMappings) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

func (m *FieldMappings) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Each visits the mappings in declaration order.
func (m *FieldMappings) Each(fn func(name string, mapping *FieldMapping)) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

func (m *FieldMappings) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*m = FieldMappings{values: map[string]*FieldMapping{}}
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: field mappings must be a mapping", node.Line)
	}

	out := FieldMappings{values: make(map[string]*FieldMapping, len(node.Content)/2)}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		if _, dup := out.values[keyNode.Value]; dup {
			return fmt.Errorf("line %d: duplicate field mapping %q", keyNode.Line, keyNode.Value)
		}
		var fm FieldMapping
		if err := valueNode.Decode(&fm); err != nil {
			return fmt.Errorf("field %q: %w", keyNode.Value, err)
		}
		out.Set(keyNode.Value, &fm)
	}
	*m = out
	return nil
}

func (m FieldMappings) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.keys {
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(m.values[k]); err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			valueNode,
		)
	}
	return node, nil
}

func (m *FieldMappings) UnmarshalJSON(data []byte) error {
	out := FieldMappings{values: map[string]*FieldMapping{}}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = out
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("field mappings must be an object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)
		if _, dup := out.values[name]; dup {
			return fmt.Errorf("duplicate field mapping %q", name)
		}
		var fm FieldMapping
		if err := dec.Decode(&fm); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		out.Set(name, &fm)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}

func (m FieldMappings) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(k)
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
