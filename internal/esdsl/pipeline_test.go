package esdsl

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/esquery/internal/domain"
	"github.com/kailas-cloud/esquery/internal/domain/aggregation"
	"github.com/kailas-cloud/esquery/internal/domain/fieldmap"
	"github.com/kailas-cloud/esquery/internal/domain/query"
)

func TestCompilePipeline_FilterThenBuckets(t *testing.T) {
	p := aggregation.Pipeline{
		aggregation.FilterWhere(query.Where("status", query.Eq("open"))),
		aggregation.Buckets(aggregation.BucketsSpec{FieldID: "assignedTo"}),
	}
	got, err := CompileAggregationRequest(p, fieldmap.Identity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertJSON(t, got, `{"size":0,"aggs":
		{"with_filter":{"filter":{"bool":{"filter":[{"term":{"status":"open"}}]}},"aggs":
			{"group":{"terms":{"field":"assignedTo","missing":"","size":10}}}}}}`)
}

func TestCompilePipeline_ReverseNestingAcrossStages(t *testing.T) {
	p := aggregation.Pipeline{
		aggregation.Buckets(aggregation.BucketsSpec{FieldID: "vacancies", SubFieldProp: "stage.id"}),
		aggregation.Buckets(aggregation.BucketsSpec{FieldID: "assignedTo"}),
	}
	got, err := CompilePipeline(p, fieldmap.Identity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	terms := got.Child().Child()
	if terms.Name() != AggWithoutNested {
		t.Fatalf("assignedTo level = %q, want %q", terms.Name(), AggWithoutNested)
	}
	if terms.Child().Group.Terms.Field != "assignedTo" {
		t.Errorf("reverse nested wraps %+v", terms.Child())
	}
}

func TestCompilePipeline_FilterInsideNestedScope(t *testing.T) {
	p := aggregation.Pipeline{
		aggregation.Buckets(aggregation.BucketsSpec{FieldID: "vacancies", SubFieldProp: "stage.id"}),
		aggregation.FilterWhere(query.Where("vacancies.owner", query.Eq("me"))),
		aggregation.Buckets(aggregation.BucketsSpec{FieldID: "vacancies.status"}),
	}
	got, err := CompilePipeline(p, fieldmap.Identity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertJSON(t, got, `{"with_nested":{"nested":{"path":"vacancies"},"aggs":
		{"group":{"terms":{"field":"vacancies.stage.id","missing":"","size":10},"aggs":
			{"with_filter":{"filter":{"bool":{"filter":[{"term":{"vacancies.owner":"me"}}]}},"aggs":
				{"group":{"terms":{"field":"vacancies.status","missing":"","size":10}}}}}}}}}`)
}

func TestCompilePipeline_RootFilterAfterNestedScope(t *testing.T) {
	p := aggregation.Pipeline{
		aggregation.Buckets(aggregation.BucketsSpec{FieldID: "vacancies", SubFieldProp: "stage.id"}),
		aggregation.FilterWhere(query.Where("status", query.Eq("open"))),
		aggregation.Buckets(aggregation.BucketsSpec{FieldID: "assignedTo"}),
	}
	got, err := CompilePipeline(p, fieldmap.Identity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertJSON(t, got, `{"with_nested":{"nested":{"path":"vacancies"},"aggs":
		{"group":{"terms":{"field":"vacancies.stage.id","missing":"","size":10},"aggs":
			{"without_nested":{"reverse_nested":{},"aggs":
				{"with_filter":{"filter":{"bool":{"filter":[{"term":{"status":"open"}}]}},"aggs":
					{"group":{"terms":{"field":"assignedTo","missing":"","size":10}}}}}}}}}}}`)
}

func TestCompilePipeline_FilterLeavesToSharedScope(t *testing.T) {
	p := aggregation.Pipeline{
		aggregation.Buckets(aggregation.BucketsSpec{FieldID: "a.b", SubFieldProp: "x"}),
		aggregation.FilterWhere(query.Where("a.y", query.Eq("on"))),
		aggregation.Buckets(aggregation.BucketsSpec{FieldID: "a.z"}),
	}
	got, err := CompilePipeline(p, fieldmap.Identity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertJSON(t, got, `{"with_nested":{"nested":{"path":"a.b"},"aggs":
		{"group":{"terms":{"field":"a.b.x","missing":"","size":10},"aggs":
			{"without_nested":{"reverse_nested":{"path":"a"},"aggs":
				{"with_filter":{"filter":{"bool":{"filter":[{"term":{"a.y":"on"}}]}},"aggs":
					{"group":{"terms":{"field":"a.z","missing":"","size":10}}}}}}}}}}}`)
}

func TestCompilePipeline_FilterScopeCarriesForward(t *testing.T) {
	// The filter leaves a.b for a; a later a.z grouping must not leave again.
	p := aggregation.Pipeline{
		aggregation.Buckets(aggregation.BucketsSpec{FieldID: "a.b", SubFieldProp: "x"}),
		aggregation.FilterWhere(query.Where("a.y", query.Eq("on"))),
		aggregation.Buckets(aggregation.BucketsSpec{FieldID: "a.z"}),
		aggregation.Buckets(aggregation.BucketsSpec{FieldID: "status"}),
	}
	scopes, err := stageScopes(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"", "a.b", "a", "a"}
	for i, w := range want {
		if scopes[i].String() != w {
			t.Errorf("stage %d scope = %q, want %q", i, scopes[i], w)
		}
	}
}

func TestCompilePipeline_Empty(t *testing.T) {
	got, err := CompileAggregationRequest(nil, fieldmap.Identity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertJSON(t, got, `{"size":0}`)
}

func TestCompilePipeline_Errors(t *testing.T) {
	tests := []struct {
		name string
		p    aggregation.Pipeline
		want error
	}{
		{"unknown stage", aggregation.Pipeline{{}}, domain.ErrUnsupportedStage},
		{"malformed buckets", aggregation.Pipeline{aggregation.Buckets(aggregation.BucketsSpec{})}, domain.ErrMalformedSpec},
		{
			"bad filter operator",
			aggregation.Pipeline{aggregation.FilterWhere(query.Where("a", query.Condition{}))},
			domain.ErrUnsupportedOperator,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CompilePipeline(tc.p, fieldmap.Identity)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if got != nil {
				t.Errorf("expected no node, got %+v", got)
			}
		})
	}
}
