// Package bucket holds the uniform grouping output returned to callers.
package bucket

// Bucket is one group: its key, document count and child groups.
type Bucket struct {
	ID      string   `json:"id"`
	Value   int64    `json:"value"`
	Buckets []Bucket `json:"buckets"`
}

// IDs returns the ids of bs in order.
func IDs(bs []Bucket) []string {
	ids := make([]string, len(bs))
	for i, b := range bs {
		ids[i] = b.ID
	}
	return ids
}
