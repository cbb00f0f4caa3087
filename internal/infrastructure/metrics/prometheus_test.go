package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionObserved(t *testing.T) {
	m := New()

	m.TransitionObserved("PENDING", "IN_TRANSIT", "applied")
	m.TransitionObserved("PENDING", "IN_TRANSIT", "applied")
	m.TransitionObserved("COMPLETED", "PENDING", "rejected")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transferTransitions.WithLabelValues("PENDING", "IN_TRANSIT", "applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transferTransitions.WithLabelValues("COMPLETED", "PENDING", "rejected")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.transferTransitions.WithLabelValues("PENDING", "CANCELLED", "conflict")))
}

func TestPurchaseCreated(t *testing.T) {
	m := New()

	m.PurchaseCreated("b1", 18)
	m.PurchaseCreated("b1", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.purchasesCreated.WithLabelValues("b1")))
	assert.Equal(t, 18.0, testutil.ToFloat64(m.purchasesAmount.WithLabelValues("b1")))
}

func TestRecordHTTPRequest(t *testing.T) {
	m := New()
	m.IncInFlight()
	m.RecordHTTPRequest("GET", "/api/v1/transfers", 200, 15*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/v1/transfers", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsInFlight))
	m.DecInFlight()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpRequestsInFlight))
}

func TestHandler(t *testing.T) {
	m := New()
	m.TransitionObserved("PENDING", "CANCELLED", "applied")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "sucursales_transfer_transitions_total")
}
