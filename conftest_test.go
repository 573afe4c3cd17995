package esquery

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
)

// fakeCluster answers requests by path.
type fakeCluster struct {
	mu     sync.Mutex
	routes map[string]fakeResponse
	bodies map[string]string
}

type fakeResponse struct {
	status int
	body   string
}

func newFakeCluster() *fakeCluster {
	return &fakeCluster{
		routes: map[string]fakeResponse{"HEAD /": {status: http.StatusOK}},
		bodies: map[string]string{},
	}
}

func (f *fakeCluster) on(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = fakeResponse{status: status, body: body}
}

func (f *fakeCluster) body(method, path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[method+" "+path]
}

func (f *fakeCluster) RoundTrip(req *http.Request) (*http.Response, error) {
	key := req.Method + " " + req.URL.Path
	var body string
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		body = string(data)
	}

	f.mu.Lock()
	f.bodies[key] = body
	resp, ok := f.routes[key]
	f.mu.Unlock()
	if !ok {
		resp = fakeResponse{status: http.StatusNotFound, body: `{"error":"no route"}`}
	}

	h := http.Header{}
	h.Set("X-Elastic-Product", "Elasticsearch")
	h.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: resp.status,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(resp.body)),
		Request:    req,
	}, nil
}

func newTestClient(t *testing.T, opts ...Option) (*Client, *fakeCluster) {
	t.Helper()
	fc := newFakeCluster()
	base := []Option{
		WithAddresses("http://es.test:9200"),
		WithTransport(fc),
		WithReadinessTimeout(0),
	}
	c, err := New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c, fc
}
