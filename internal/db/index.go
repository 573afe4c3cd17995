package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// FieldType is an Elasticsearch field datatype.
type FieldType string

// Supported field types.
const (
	FieldKeyword FieldType = "keyword"
	FieldText    FieldType = "text"
	FieldLong    FieldType = "long"
	FieldDouble  FieldType = "double"
	FieldBoolean FieldType = "boolean"
	FieldDate    FieldType = "date"
	FieldNested  FieldType = "nested"
	FieldObject  FieldType = "object"
)

// KeywordSubField is the name of the keyword sub-field added to text fields.
const KeywordSubField = "keyword"

// MappingField describes one property of an index mapping.
type MappingField struct {
	Name string
	Type FieldType
	// Keyword adds a "keyword" sub-field to a text field for exact matching and aggregation.
	Keyword bool
	// Properties holds the children of nested and object fields.
	Properties []MappingField
}

// Mapping is an index mapping definition.
type Mapping struct {
	Fields []MappingField
}

// Validate checks that the mapping is well-formed. Field names are single
// path segments; sub-paths such as stage.id are declared with Object.
func (m *Mapping) Validate() error {
	if len(m.Fields) == 0 {
		return errors.New("at least one field is required")
	}
	return validateFields(m.Fields, "")
}

func validateFields(fields []MappingField, parent string) error {
	seen := make(map[string]bool, len(fields))
	for i := range fields {
		f := &fields[i]
		if f.Name == "" {
			return fmt.Errorf("field name is required at %s[%d]", parent, i)
		}
		if strings.Contains(f.Name, ".") {
			return fmt.Errorf("field name %q must not contain dots", f.Name)
		}
		path := joinPath(parent, f.Name)
		if seen[f.Name] {
			return errors.New("duplicate field name: " + path)
		}
		seen[f.Name] = true

		switch f.Type {
		case FieldNested, FieldObject:
			if len(f.Properties) == 0 {
				return fmt.Errorf("%s field %q requires properties", f.Type, path)
			}
			if err := validateFields(f.Properties, path); err != nil {
				return err
			}
		case FieldKeyword, FieldText, FieldLong, FieldDouble, FieldBoolean, FieldDate:
			if len(f.Properties) > 0 {
				return fmt.Errorf("%s field %q cannot have properties", f.Type, path)
			}
		default:
			return fmt.Errorf("field %q has unsupported type %q", path, f.Type)
		}
		if f.Keyword && f.Type != FieldText {
			return fmt.Errorf("keyword sub-field is only valid on text fields: %q", path)
		}
	}
	return nil
}

// KeywordFields returns the dotted paths of text fields carrying a keyword sub-field.
func (m *Mapping) KeywordFields() []string {
	var out []string
	var walk func(fields []MappingField, parent string)
	walk = func(fields []MappingField, parent string) {
		for i := range fields {
			path := joinPath(parent, fields[i].Name)
			if fields[i].Keyword {
				out = append(out, path)
			}
			walk(fields[i].Properties, path)
		}
	}
	walk(m.Fields, "")
	return out
}

// NestedPaths returns the dotted paths of nested fields.
func (m *Mapping) NestedPaths() []string {
	var out []string
	var walk func(fields []MappingField, parent string)
	walk = func(fields []MappingField, parent string) {
		for i := range fields {
			path := joinPath(parent, fields[i].Name)
			if fields[i].Type == FieldNested {
				out = append(out, path)
			}
			walk(fields[i].Properties, path)
		}
	}
	walk(m.Fields, "")
	return out
}

// MarshalJSON renders the mapping as {"properties": {...}}.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"properties": properties(m.Fields)})
}

func properties(fields []MappingField) map[string]any {
	props := make(map[string]any, len(fields))
	for i := range fields {
		f := &fields[i]
		def := map[string]any{"type": f.Type}
		if f.Keyword {
			def["fields"] = map[string]any{
				KeywordSubField: map[string]any{"type": FieldKeyword, "ignore_above": 256},
			}
		}
		if len(f.Properties) > 0 {
			def["properties"] = properties(f.Properties)
		}
		props[f.Name] = def
	}
	return props
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

// IsValidIndexName reports whether s is a legal index name: lowercase, not
// starting with '-', '_' or '+', and free of \ / * ? " < > | , # : and spaces.
func IsValidIndexName(s string) bool {
	if s == "" || s == "." || s == ".." || len(s) > 255 {
		return false
	}
	switch s[0] {
	case '-', '_', '+':
		return false
	}
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			return false
		}
		if strings.ContainsRune(`\/*?"<>|,#: `, r) {
			return false
		}
	}
	return true
}
