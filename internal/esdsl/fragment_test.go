package esdsl

import "testing"

func TestFragment_Merge_ConcatenatesClauses(t *testing.T) {
	a := Fragment{Filter: []Query{term("a", 1)}, MustNot: []Query{exists("x")}}
	b := Fragment{Filter: []Query{term("b", 2)}}

	got := a.Merge(b)
	if len(got.Filter) != 2 || len(got.MustNot) != 1 {
		t.Fatalf("merged = %+v", got)
	}
	assertJSON(t, got, `{"filter":[{"term":{"a":1}},{"term":{"b":2}}],"must_not":[{"exists":{"field":"x"}}]}`)
}

func TestFragment_Merge_DoesNotMutate(t *testing.T) {
	base := make([]Query, 1, 4)
	base[0] = term("a", 1)
	a := Fragment{Filter: base}

	_ = a.Merge(Fragment{Filter: []Query{term("b", 2)}})
	_ = a.Merge(Fragment{Filter: []Query{term("c", 3)}})

	if len(a.Filter) != 1 {
		t.Fatalf("left operand changed: %+v", a.Filter)
	}
	if got := base[:2][1]; got != nil {
		t.Errorf("backing array written: %v", got)
	}
}

func TestFragment_Merge_RightScalarWins(t *testing.T) {
	a := Fragment{MinimumShouldMatch: intPtr(1)}
	b := Fragment{MinimumShouldMatch: intPtr(2)}

	if got := *a.Merge(b).MinimumShouldMatch; got != 2 {
		t.Errorf("minimum_should_match = %d, want 2", got)
	}
	if got := *a.Merge(Fragment{}).MinimumShouldMatch; got != 1 {
		t.Errorf("minimum_should_match = %d, want 1", got)
	}
}

func TestMergeAll_Associative(t *testing.T) {
	a := Fragment{Filter: []Query{term("a", 1)}}
	b := Fragment{MustNot: []Query{term("b", 2)}}
	c := Fragment{Filter: []Query{term("c", 3)}, Should: []Query{term("d", 4)}}

	left := a.Merge(b).Merge(c)
	right := a.Merge(b.Merge(c))
	assertJSON(t, left, `{"filter":[{"term":{"a":1}},{"term":{"c":3}}],"must_not":[{"term":{"b":2}}],"should":[{"term":{"d":4}}]}`)
	assertJSON(t, right, `{"filter":[{"term":{"a":1}},{"term":{"c":3}}],"must_not":[{"term":{"b":2}}],"should":[{"term":{"d":4}}]}`)
	assertJSON(t, MergeAll(a, b, c), `{"filter":[{"term":{"a":1}},{"term":{"c":3}}],"must_not":[{"term":{"b":2}}],"should":[{"term":{"d":4}}]}`)
}

func TestFragment_IsEmpty(t *testing.T) {
	if !(Fragment{}).IsEmpty() {
		t.Error("zero fragment should be empty")
	}
	if (Fragment{MustNot: []Query{exists("a")}}).IsEmpty() {
		t.Error("fragment with must_not should not be empty")
	}
	assertJSON(t, Fragment{}.Bool(), `{"bool":{}}`)
}
