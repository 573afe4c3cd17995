package fieldmap

import "testing"

func TestApply_NilAndEmpty(t *testing.T) {
	var f Func
	if got := f.Apply("a"); got != "a" {
		t.Errorf("nil Apply = %q", got)
	}
	empty := Func(func(string) string { return "" })
	if got := empty.Apply("a"); got != "a" {
		t.Errorf("empty Apply = %q", got)
	}
}

func TestKeyword(t *testing.T) {
	f := Keyword("keyword", "firstName", "lastName", "primaryEmail.value")
	tests := map[string]string{
		"firstName":          "firstName.keyword",
		"primaryEmail.value": "primaryEmail.value.keyword",
		"assignedTo":         "assignedTo",
		"firstName.keyword":  "firstName.keyword",
	}
	for in, want := range tests {
		if got := f.Apply(in); got != want {
			t.Errorf("Apply(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestChain(t *testing.T) {
	upper := Func(func(s string) string { return s + "_x" })
	f := Chain(Keyword(".kw", "a"), upper)
	if got := f.Apply("a"); got != "a.kw_x" {
		t.Errorf("Chain = %q", got)
	}
}
