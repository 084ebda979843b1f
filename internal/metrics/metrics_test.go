package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveTaggingRecordsHitsAndMisses(t *testing.T) {
	m := New()

	m.ObserveTagging("java", false, 10*time.Millisecond)
	m.ObserveTagging("java", true, 0)
	m.ObserveTagging("java", true, 0)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheMisses))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.CacheHits))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.FilesTagged.WithLabelValues("java")))
}

func TestObserveResolveRecordsFailures(t *testing.T) {
	m := New()

	m.ObserveResolve("depends", false, time.Millisecond)
	m.ObserveResolve("depends", true, time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ResolverFailures.WithLabelValues("depends")))
}

func TestHandlerServesOpenMetrics(t *testing.T) {
	m := New()
	m.ObserveTagging("go", false, time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	m.Handler().ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "neodepends_entity_files_tagged_total")
}
