// Package esquery compiles a small query and aggregation algebra to the
// Elasticsearch JSON DSL and decodes aggregation responses back into a
// uniform bucket tree.
//
// The pure functions CompileQuery, CompileAggregation and DecodeBuckets need
// no cluster. Client adds execution against a cluster:
//
//	c, err := esquery.New(esquery.WithAddresses("http://localhost:9200"))
//	if err != nil { ... }
//	defer c.Close()
//
//	page, err := c.Query(ctx, "tasks", esquery.Match(
//		esquery.Where("assignedTo", esquery.Eq("me")),
//	))
//
//	buckets, err := c.Aggregate(ctx, "tasks", esquery.Pipeline{
//		esquery.Buckets(esquery.BucketsSpec{FieldID: "vacancies", SubFieldProp: "stage.id"}),
//	})
package esquery
