package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestObserveAndScrape(t *testing.T) {
	reg := New("bst")

	reg.ObserveInsert(true, 0.0001)
	reg.ObserveInsert(false, 0.0002)
	reg.ObserveDelete(true, 0.0001)
	reg.ObserveLookup(true, 0.00005)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "latchtree_ops_total") {
		t.Fatal("expected ops_total counter in scrape output")
	}
	if !strings.Contains(body, "latchtree_op_latency_seconds") {
		t.Fatal("expected op_latency_seconds histogram in scrape output")
	}
	if !strings.Contains(body, "latchtree_live_keys") {
		t.Fatal("expected live_keys gauge in scrape output")
	}
}
