package esdsl

import (
	"fmt"

	"github.com/kailas-cloud/esquery/internal/domain"
	"github.com/kailas-cloud/esquery/internal/domain/aggregation"
	"github.com/kailas-cloud/esquery/internal/domain/fieldmap"
	"github.com/kailas-cloud/esquery/internal/domain/scope"
)

// CompileAggregationRequest compiles a pipeline into an aggregation-only search body.
func CompileAggregationRequest(p aggregation.Pipeline, fm fieldmap.Func) (AggregationRequest, error) {
	aggs, err := CompilePipeline(p, fm)
	if err != nil {
		return AggregationRequest{}, err
	}
	return AggregationRequest{Aggs: aggs, Size: 0}, nil
}

// CompilePipeline compiles stages last to first, each wrapping the node
// compiled before it. An empty pipeline compiles to nil.
//
// Every stage runs in the scope the previous stages left open: grouping on a
// nested field leaves its scope open for the stages after it.
func CompilePipeline(p aggregation.Pipeline, fm fieldmap.Func) (*Node, error) {
	scopes, err := stageScopes(p)
	if err != nil {
		return nil, err
	}

	var node *Node
	for i := len(p) - 1; i >= 0; i-- {
		stage := p[i]
		switch stage.Kind() {
		case aggregation.KindBuckets:
			spec, _ := stage.BucketsSpec()
			node, err = CompileBuckets(node, spec, scopes[i], fm)
		case aggregation.KindFilter:
			node, err = CompileFilterAggregation(node, stage.Statements(), fm)
			if target := filterScope(stage, scopes[i]); err == nil && scope.Exits(scopes[i], target) {
				node = &Node{WithoutNested: &ReverseNested{
					ReverseNested: ReversePath{Path: target.String()},
					Aggs:          node,
				}}
			}
		default:
			err = fmt.Errorf("%w: %q", domain.ErrUnsupportedStage, stage.Kind())
		}
		if err != nil {
			return nil, fmt.Errorf("stage %d: %w", i, err)
		}
	}
	return node, nil
}

// stageScopes returns the scope each stage is entered in.
func stageScopes(p aggregation.Pipeline) ([]scope.Path, error) {
	scopes := make([]scope.Path, len(p))
	ctx := scope.Root
	for i, stage := range p {
		scopes[i] = ctx
		switch stage.Kind() {
		case aggregation.KindBuckets:
			spec, ok := stage.BucketsSpec()
			if !ok {
				return nil, fmt.Errorf("stage %d: %w: buckets stage without spec", i, domain.ErrMalformedSpec)
			}
			ctx = spec.ExitScope(ctx)
		case aggregation.KindFilter:
			ctx = filterScope(stage, ctx)
		default:
			return nil, fmt.Errorf("stage %d: %w: %q", i, domain.ErrUnsupportedStage, stage.Kind())
		}
	}
	return scopes, nil
}

// filterScope returns the scope a filter stage entered in ctx runs in: the
// deepest prefix of ctx that holds every field the stage references.
func filterScope(stage aggregation.Stage, ctx scope.Path) scope.Path {
	target := ctx
	for _, group := range stage.Statements() {
		for _, s := range group {
			for _, c := range s.Clauses() {
				target = scope.SharedPrefix(target, scope.Path(c.Field))
			}
		}
	}
	return target
}
