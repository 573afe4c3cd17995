package esquery

import "github.com/kailas-cloud/esquery/internal/db"

type (
	// Mapping is an index mapping.
	Mapping = db.Mapping
	// MappingBuilder builds a Mapping field by field.
	MappingBuilder = db.MappingBuilder
)

// NewMapping starts a mapping builder.
func NewMapping() *MappingBuilder { return db.NewMapping() }

// MappingFieldMap maps every text field of m that carries a keyword
// sub-field to that sub-field.
func MappingFieldMap(m *Mapping) FieldMap {
	return KeywordFields(db.KeywordSubField, m.KeywordFields()...)
}
