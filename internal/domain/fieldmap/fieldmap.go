// Package fieldmap maps logical field identifiers to physical engine field names.
package fieldmap

import "strings"

// Func maps a logical field id to its engine field name.
type Func func(fieldID string) string

// Identity leaves field ids unchanged.
func Identity(fieldID string) string { return fieldID }

// Apply maps fieldID. A nil Func or an empty result falls back to fieldID.
func (f Func) Apply(fieldID string) string {
	if f == nil {
		return fieldID
	}
	if mapped := f(fieldID); mapped != "" {
		return mapped
	}
	return fieldID
}

// Keyword appends suffix to the listed fields, typically ".keyword" for text
// fields that carry a keyword sub-field for exact matching and aggregation.
func Keyword(suffix string, fields ...string) Func {
	if suffix != "" && !strings.HasPrefix(suffix, ".") {
		suffix = "." + suffix
	}
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f != "" {
			set[f] = struct{}{}
		}
	}
	return func(fieldID string) string {
		if _, ok := set[fieldID]; ok {
			return fieldID + suffix
		}
		return fieldID
	}
}

// Chain applies fs left to right.
func Chain(fs ...Func) Func {
	return func(fieldID string) string {
		for _, f := range fs {
			fieldID = f.Apply(fieldID)
		}
		return fieldID
	}
}
