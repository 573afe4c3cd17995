package query

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/esquery/internal/domain"
)

type conditionJSON struct {
	Op    Op              `json:"op"`
	Value json.RawMessage `json:"value,omitempty"`
}

type daysAgoJSON struct {
	DaysAgo *int `json:"daysAgo"`
}

type clauseJSON struct {
	Field     string    `json:"field"`
	Condition Condition `json:"condition"`
}

type orderJSON struct {
	FieldID   string    `json:"fieldId,omitempty"`
	Direction Direction `json:"direction,omitempty"`
	SubProp   string    `json:"subProp,omitempty"`
	SubID     string    `json:"subId,omitempty"`
}

type filterJSON struct {
	Statements [][]Statement `json:"statements"`
	Sort       *orderJSON    `json:"sort,omitempty"`
	Limit      int           `json:"limit,omitempty"`
}

// UnmarshalJSON decodes {"op": "...", "value": ...}.
func (c *Condition) UnmarshalJSON(data []byte) error {
	var raw conditionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: condition: %w", domain.ErrMalformedSpec, err)
	}
	if !raw.Op.IsValid() {
		return domain.NewUnsupportedOperator(string(raw.Op))
	}

	value, err := decodeValue(raw.Op, raw.Value)
	if err != nil {
		return err
	}
	parsed, err := New(raw.Op, value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func decodeValue(op Op, data json.RawMessage) (any, error) {
	switch {
	case op.IsComposite():
		var children []Condition
		if err := json.Unmarshal(data, &children); err != nil {
			return nil, wrapValueErr(op, err)
		}
		return children, nil
	case op.IsNested():
		var s Statement
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, wrapValueErr(op, err)
		}
		return s, nil
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if op.IsRange() && trimmed[0] == '{' {
		var d daysAgoJSON
		if err := json.Unmarshal(trimmed, &d); err != nil || d.DaysAgo == nil {
			return nil, fmt.Errorf("%w: %s expects a scalar or {\"daysAgo\": n}", domain.ErrMalformedSpec, op)
		}
		return DaysAgo{Days: *d.DaysAgo}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, wrapValueErr(op, err)
	}
	switch v.(type) {
	case map[string]any, []any:
		return nil, fmt.Errorf("%w: %s expects a scalar value", domain.ErrMalformedSpec, op)
	}
	return v, nil
}

func wrapValueErr(op Op, err error) error {
	if errors.Is(err, domain.ErrUnsupportedOperator) || errors.Is(err, domain.ErrMalformedSpec) {
		return err
	}
	return fmt.Errorf("%w: %s value: %w", domain.ErrMalformedSpec, op, err)
}

// MarshalJSON encodes the condition in the same shape UnmarshalJSON reads.
func (c Condition) MarshalJSON() ([]byte, error) {
	var value any
	switch {
	case c.op.IsComposite():
		value = c.children
	case c.op.IsNested():
		if c.nested != nil {
			value = *c.nested
		}
	default:
		if d, ok := c.value.(DaysAgo); ok {
			value = map[string]int{"daysAgo": d.Days}
		} else {
			value = c.value
		}
	}
	return json.Marshal(struct {
		Op    Op  `json:"op"`
		Value any `json:"value"`
	}{Op: c.op, Value: value})
}

// UnmarshalJSON accepts either an object {"field": condition, ...} (key order kept)
// or an array [{"field": "...", "condition": ...}, ...].
func (s *Statement) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var pairs []clauseJSON
		if err := json.Unmarshal(trimmed, &pairs); err != nil {
			return wrapStatementErr(err)
		}
		clauses := make([]Clause, 0, len(pairs))
		for i, p := range pairs {
			if p.Field == "" {
				return fmt.Errorf("%w: statement clause %d has no field", domain.ErrMalformedSpec, i)
			}
			clauses = append(clauses, Clause(p))
		}
		*s = Statement{clauses: clauses}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return wrapStatementErr(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: statement must be an object or an array", domain.ErrMalformedSpec)
	}

	var clauses []Clause
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return wrapStatementErr(err)
		}
		field, _ := tok.(string)
		var c Condition
		if err := dec.Decode(&c); err != nil {
			return wrapStatementErr(err)
		}
		clauses = append(clauses, Clause{Field: field, Condition: c})
	}
	*s = Statement{clauses: clauses}
	return nil
}

func wrapStatementErr(err error) error {
	if errors.Is(err, domain.ErrUnsupportedOperator) || errors.Is(err, domain.ErrMalformedSpec) {
		return err
	}
	return fmt.Errorf("%w: statement: %w", domain.ErrMalformedSpec, err)
}

// MarshalJSON encodes the statement as an ordered array of clauses.
func (s Statement) MarshalJSON() ([]byte, error) {
	pairs := make([]clauseJSON, len(s.clauses))
	for i, c := range s.clauses {
		pairs[i] = clauseJSON(c)
	}
	return json.Marshal(pairs)
}

// UnmarshalJSON decodes {"statements": [[...]], "sort": {...}, "limit": n}.
func (f *Filter) UnmarshalJSON(data []byte) error {
	var raw filterJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return wrapStatementErr(err)
	}
	var order OrderCondition
	if raw.Sort != nil {
		order = OrderBy(raw.Sort.FieldID, raw.Sort.Direction).WithSubField(raw.Sort.SubProp, raw.Sort.SubID)
	}
	parsed, err := NewFilter(raw.Statements, order, raw.Limit)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// MarshalJSON encodes the filter in the same shape UnmarshalJSON reads.
func (f Filter) MarshalJSON() ([]byte, error) {
	raw := filterJSON{Statements: f.groups, Limit: f.limit}
	if raw.Statements == nil {
		raw.Statements = [][]Statement{}
	}
	if f.order != (OrderCondition{}) {
		raw.Sort = &orderJSON{
			FieldID:   f.order.fieldID,
			Direction: f.order.direction,
			SubProp:   f.order.subProp,
			SubID:     f.order.subID,
		}
	}
	return json.Marshal(raw)
}
