package serialization

import (
	"encoding/json"
	"fmt"
)

// AttributeSerializer handles JSON serialization of opaque key-value
// attribute maps (event metadata, per-split times) for column storage.
type AttributeSerializer struct{}

// NewAttributeSerializer creates a new attribute serializer.
func NewAttributeSerializer() *AttributeSerializer {
	return &AttributeSerializer{}
}

// Serialize converts an attribute map to a JSON string. Nil maps
// serialize to an empty object so columns never hold NULL.
func (s *AttributeSerializer) Serialize(attrs map[string]string) (string, error) {
	if len(attrs) == 0 {
		return "{}", nil
	}

	data, err := json.Marshal(attrs)
	if err != nil {
		return "", fmt.Errorf("failed to marshal attributes: %w", err)
	}
	return string(data), nil
}

// Deserialize converts a JSON string back to an attribute map.
func (s *AttributeSerializer) Deserialize(jsonStr string) (map[string]string, error) {
	if jsonStr == "" || jsonStr == "{}" {
		return map[string]string{}, nil
	}

	var attrs map[string]string
	if err := json.Unmarshal([]byte(jsonStr), &attrs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal attributes: %w", err)
	}

	return attrs, nil
}
