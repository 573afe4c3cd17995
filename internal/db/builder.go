package db

import (
	"sort"
	"strings"
)

// MappingBuilder is a fluent builder for index mappings.
type MappingBuilder struct {
	fields []MappingField
}

// NewMapping starts building an index mapping.
func NewMapping() *MappingBuilder {
	return &MappingBuilder{}
}

func (b *MappingBuilder) add(f MappingField) *MappingBuilder {
	b.fields = append(b.fields, f)
	return b
}

// Keyword adds a keyword field.
func (b *MappingBuilder) Keyword(name string) *MappingBuilder {
	return b.add(MappingField{Name: name, Type: FieldKeyword})
}

// Text adds a full-text field.
func (b *MappingBuilder) Text(name string) *MappingBuilder {
	return b.add(MappingField{Name: name, Type: FieldText})
}

// TextWithKeyword adds a text field with a keyword sub-field.
func (b *MappingBuilder) TextWithKeyword(name string) *MappingBuilder {
	return b.add(MappingField{Name: name, Type: FieldText, Keyword: true})
}

// Long adds an integer field.
func (b *MappingBuilder) Long(name string) *MappingBuilder {
	return b.add(MappingField{Name: name, Type: FieldLong})
}

// Double adds a floating point field.
func (b *MappingBuilder) Double(name string) *MappingBuilder {
	return b.add(MappingField{Name: name, Type: FieldDouble})
}

// Boolean adds a boolean field.
func (b *MappingBuilder) Boolean(name string) *MappingBuilder {
	return b.add(MappingField{Name: name, Type: FieldBoolean})
}

// Date adds a date field.
func (b *MappingBuilder) Date(name string) *MappingBuilder {
	return b.add(MappingField{Name: name, Type: FieldDate})
}

// Nested adds a nested collection whose elements are described by fn.
func (b *MappingBuilder) Nested(name string, fn func(*MappingBuilder)) *MappingBuilder {
	return b.add(MappingField{Name: name, Type: FieldNested, Properties: sub(fn)})
}

// Object adds a plain object field whose properties are described by fn.
func (b *MappingBuilder) Object(name string, fn func(*MappingBuilder)) *MappingBuilder {
	return b.add(MappingField{Name: name, Type: FieldObject, Properties: sub(fn)})
}

func sub(fn func(*MappingBuilder)) []MappingField {
	child := NewMapping()
	if fn != nil {
		fn(child)
	}
	return child.fields
}

// Build validates and returns the mapping.
func (b *MappingBuilder) Build() (*Mapping, error) {
	m := &Mapping{Fields: append([]MappingField(nil), b.fields...)}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// MustBuild calls Build and panics on error.
func (b *MappingBuilder) MustBuild() *Mapping {
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}

// String returns a compact debug representation, one "path:type" per field.
func (m *Mapping) String() string {
	var parts []string
	var walk func(fields []MappingField, parent string)
	walk = func(fields []MappingField, parent string) {
		for i := range fields {
			path := joinPath(parent, fields[i].Name)
			t := string(fields[i].Type)
			if fields[i].Keyword {
				t += "+keyword"
			}
			parts = append(parts, path+":"+t)
			walk(fields[i].Properties, path)
		}
	}
	walk(m.Fields, "")
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
