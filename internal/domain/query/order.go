package query

import "strings"

// IdentityField is the document identity field used as the sort tiebreaker.
const IdentityField = "id"

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// IsValid checks if the direction is one of the supported values.
func (d Direction) IsValid() bool {
	return d == Asc || d == Desc
}

// Engine returns the lowercase form used by the search engine.
func (d Direction) Engine() string {
	return strings.ToLower(string(d))
}

// OrderCondition describes the requested result ordering.
// SubProp and SubID select a scalar property of the one nested element whose id is SubID.
type OrderCondition struct {
	fieldID   string
	direction Direction
	subProp   string
	subID     string
}

// OrderBy creates an order on a top-level field. An empty direction means ascending.
func OrderBy(fieldID string, dir Direction) OrderCondition {
	if dir == "" {
		dir = Asc
	}
	return OrderCondition{fieldID: fieldID, direction: dir}
}

// WithSubField narrows the order to prop of the nested element with the given id.
func (o OrderCondition) WithSubField(prop, id string) OrderCondition {
	o.subProp = prop
	o.subID = id
	return o
}

// FieldID returns the sort field (empty means identity order only).
func (o OrderCondition) FieldID() string { return o.fieldID }

// Direction returns the sort direction, ascending by default.
func (o OrderCondition) Direction() Direction {
	if o.direction == "" {
		return Asc
	}
	return o.direction
}

// SubProp returns the nested sub-property.
func (o OrderCondition) SubProp() string { return o.subProp }

// SubID returns the nested element id.
func (o OrderCondition) SubID() string { return o.subID }

// IsNested reports whether the order targets a nested element property.
func (o OrderCondition) IsNested() bool {
	return o.subProp != "" && o.subID != ""
}
