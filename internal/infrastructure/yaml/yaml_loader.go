package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/Victor-armando18/payload-mapper/internal/domain"

	"gopkg.in/yaml.v3"
)

const (
	keyFieldMappings     = "fieldMappings"
	keyConditionMappings = "conditionMappings"
)

// Header is prepended to every serialized configuration. Parsing ignores it.
const Header = `# A configuration file defining the mapping of order data into the order payload format (JSON).
# The payload is sent downstream for invoicing and accounting purposes.
#
# Note: '>' converts newlines to spaces, making multi-line expressions more readable.

# Mapped 1:1 to the order payload JSON structure
# Possible types are:
# - string: string value mapped as-is and cannot be null.
# - optional_string: string value that can be null, in which case it will be sent as an empty string.
# - double: numeric value mapped with format "0.00" and cannot be null.
# - local_date_time: date-time value mapped with a specific format (e.g. "yyyy/MM/dd") and cannot be null.
# - optional_local_date_time: date-time value as above that can be null, in which case it will be sent as an empty string.
# - array: array of objects, with nested itemsMappings defining the structure of each object.
`

// ParseConfig decodes a configuration document. Nothing is returned unless
// the whole document is well formed.
func ParseConfig(data []byte) (*domain.Configuration, error) {
	root, err := structure(data)
	if err != nil {
		return nil, err
	}

	var cfg domain.Configuration
	if err := root.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfiguration, err)
	}
	return &cfg, nil
}

// ValidateStructure checks the document shape without decoding the mappings.
func ValidateStructure(data []byte) error {
	_, err := structure(data)
	return err
}

func structure(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: yaml syntax error: %v", domain.ErrInvalidConfiguration, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: expected an object at root level", domain.ErrInvalidConfiguration)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: expected an object at root level", domain.ErrInvalidConfiguration)
	}

	fields := child(root, keyFieldMappings)
	if fields == nil || isNull(fields) {
		return nil, fmt.Errorf("%w: missing %s", domain.ErrInvalidConfiguration, keyFieldMappings)
	}
	if fields.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s must be an object", domain.ErrInvalidConfiguration, keyFieldMappings)
	}

	conditions := child(root, keyConditionMappings)
	if conditions == nil || isNull(conditions) {
		return nil, fmt.Errorf("%w: missing %s", domain.ErrInvalidConfiguration, keyConditionMappings)
	}
	if conditions.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: %s must be an array", domain.ErrInvalidConfiguration, keyConditionMappings)
	}
	return root, nil
}

func child(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

// SerializeConfig writes the header followed by the two top-level keys, in
// declaration order.
func SerializeConfig(cfg *domain.Configuration) ([]byte, error) {
	if cfg == nil {
		return nil, errors.New("cannot serialize a nil configuration")
	}
	out := struct {
		FieldMappings     domain.FieldMappings      `yaml:"fieldMappings"`
		ConditionMappings []domain.ConditionMapping `yaml:"conditionMappings"`
	}{cfg.FieldMappings, cfg.ConditionMappings}
	if out.ConditionMappings == nil {
		out.ConditionMappings = []domain.ConditionMapping{}
	}

	var buf bytes.Buffer
	buf.WriteString(Header)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("failed to serialize configuration: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to serialize configuration: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadConfigFile reads and parses a configuration document from disk.
func LoadConfigFile(path string) (*domain.Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read configuration %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
