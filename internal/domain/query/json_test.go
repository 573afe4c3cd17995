package query

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/kailas-cloud/esquery/internal/domain"
)

func TestConditionJSON_Scalars(t *testing.T) {
	var c Condition
	if err := json.Unmarshal([]byte(`{"op":"EQ","value":"me"}`), &c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Op() != OpEQ || c.Value() != "me" {
		t.Errorf("got %v", c)
	}

	if err := json.Unmarshal([]byte(`{"op":"EQ","value":null}`), &c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IsNull() {
		t.Errorf("expected null value, got %v", c.Value())
	}

	if err := json.Unmarshal([]byte(`{"op":"GTE","value":12.5}`), &c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, ok := c.Value().(json.Number); !ok || n.String() != "12.5" {
		t.Errorf("expected json.Number 12.5, got %#v", c.Value())
	}
}

func TestConditionJSON_DaysAgo(t *testing.T) {
	var c Condition
	if err := json.Unmarshal([]byte(`{"op":"LT","value":{"daysAgo":3}}`), &c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, ok := c.DaysAgo()
	if !ok || d.Days != 3 {
		t.Errorf("DaysAgo = %v, %v", d, ok)
	}

	err := json.Unmarshal([]byte(`{"op":"LT","value":{"weeks":3}}`), &c)
	if !errors.Is(err, domain.ErrMalformedSpec) {
		t.Errorf("expected ErrMalformedSpec, got %v", err)
	}
}

func TestConditionJSON_Composite(t *testing.T) {
	var c Condition
	data := `{"op":"ALL","value":[{"op":"GT","value":1},{"op":"LT","value":5}]}`
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Op() != OpAll || len(c.Children()) != 2 {
		t.Errorf("got %v", c)
	}
}

func TestConditionJSON_Find(t *testing.T) {
	var c Condition
	data := `{"op":"FIND","value":{"id":{"op":"EQ","value":"v1"},"stage.id":{"op":"EQ","value":"s1"}}}`
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, ok := c.Nested()
	if !ok {
		t.Fatal("expected nested statement")
	}
	clauses := s.Clauses()
	if len(clauses) != 2 || clauses[0].Field != "id" || clauses[1].Field != "stage.id" {
		t.Errorf("clauses = %v", clauses)
	}
}

func TestConditionJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"unknown op", `{"op":"LIKE","value":"x"}`, domain.ErrUnsupportedOperator},
		{"missing op", `{"value":"x"}`, domain.ErrUnsupportedOperator},
		{"nested unknown op", `{"op":"ANY","value":[{"op":"NOPE"}]}`, domain.ErrUnsupportedOperator},
		{"object value", `{"op":"EQ","value":{"a":1}}`, domain.ErrMalformedSpec},
		{"array value", `{"op":"EQ","value":[1,2]}`, domain.ErrMalformedSpec},
		{"composite scalar", `{"op":"ALL","value":"x"}`, domain.ErrMalformedSpec},
		{"find without value", `{"op":"FIND"}`, domain.ErrMalformedSpec},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var c Condition
			err := json.Unmarshal([]byte(tc.data), &c)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestStatementJSON_ObjectKeepsOrder(t *testing.T) {
	var s Statement
	data := `{"z":{"op":"EQ","value":1},"a":{"op":"EQ","value":2},"m":{"op":"EQ","value":3}}`
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clauses := s.Clauses()
	want := []string{"z", "a", "m"}
	for i, f := range want {
		if clauses[i].Field != f {
			t.Errorf("clause %d field = %q, want %q", i, clauses[i].Field, f)
		}
	}
}

func TestStatementJSON_ArrayForm(t *testing.T) {
	var s Statement
	data := `[{"field":"createdAt","condition":{"op":"GT","value":1}},
	          {"field":"createdAt","condition":{"op":"LT","value":9}}]`
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}

	err := json.Unmarshal([]byte(`[{"condition":{"op":"EQ","value":1}}]`), &s)
	if !errors.Is(err, domain.ErrMalformedSpec) {
		t.Errorf("expected ErrMalformedSpec for missing field, got %v", err)
	}
}

func TestFilterJSON(t *testing.T) {
	data := `{
		"statements": [[{"assignedTo":{"op":"EQ","value":"me"}}, {"assignedTo":{"op":"EQ","value":"you"}}]],
		"sort": {"fieldId":"vacancies","direction":"DESC","subProp":"stage.id","subId":"v1"},
		"limit": 15
	}`
	var f Filter
	if err := json.Unmarshal([]byte(data), &f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Statements()) != 1 || len(f.Statements()[0]) != 2 {
		t.Errorf("statements = %v", f.Statements())
	}
	o := f.Order()
	if o.FieldID() != "vacancies" || o.Direction() != Desc || !o.IsNested() {
		t.Errorf("order = %+v", o)
	}
	if f.Limit() != 15 {
		t.Errorf("limit = %d, want 15", f.Limit())
	}
}

func TestFilterJSON_RoundTrip(t *testing.T) {
	f, err := NewFilter(
		[][]Statement{{Where("createdAt", Lt(DaysAgo{Days: 2})).And("lists", Find(Where("id", Eq("l1"))))}},
		OrderBy("createdAt", Desc),
		10,
	)
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Filter
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	clauses := back.Statements()[0][0].Clauses()
	if d, ok := clauses[0].Condition.DaysAgo(); !ok || d.Days != 2 {
		t.Errorf("days-ago lost in round trip: %v", clauses[0].Condition)
	}
	if clauses[1].Condition.Op() != OpFind {
		t.Errorf("find lost in round trip: %v", clauses[1].Condition)
	}
	if back.Order().Direction() != Desc || back.Limit() != 10 {
		t.Errorf("order/limit lost: %+v", back)
	}
}
