package bucket

import (
	"encoding/json"
	"testing"
)

func TestIDs(t *testing.T) {
	bs := []Bucket{{ID: "me", Value: 3}, {ID: "him", Value: 1}}
	ids := IDs(bs)
	if len(ids) != 2 || ids[0] != "me" || ids[1] != "him" {
		t.Errorf("IDs = %v", ids)
	}
}

func TestBucket_JSONLeafHasEmptyList(t *testing.T) {
	data, err := json.Marshal(Bucket{ID: "me", Value: 3, Buckets: []Bucket{}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"id":"me","value":3,"buckets":[]}` {
		t.Errorf("unexpected json: %s", data)
	}
}
