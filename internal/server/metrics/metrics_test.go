package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.ObserveSession(OpLogin, "ok")

	assert.Equal(t, 1.0, testutil.ToFloat64(a.SessionOpsTotal.WithLabelValues(OpLogin, "ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.SessionOpsTotal.WithLabelValues(OpLogin, "ok")))
}

func TestObserveHTTP(t *testing.T) {
	m := New()
	m.ObserveHTTP("POST", "/login", "200", 5*time.Millisecond)
	m.ObserveHTTP("POST", "/login", "401", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/login", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/login", "401")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestDuration))
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	m.ObserveSession(OpRenew, "refresh_not_found")
	m.PurgedTokensTotal.Add(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `gophauth_session_operations_total{op="renew",outcome="refresh_not_found"} 1`)
	assert.Contains(t, body, "gophauth_store_purged_tokens_total 3")
	assert.Contains(t, body, "go_goroutines")
}
