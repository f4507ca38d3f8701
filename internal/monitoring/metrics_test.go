package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordPurchase(t *testing.T) {
	before := testutil.ToFloat64(purchaseAttempts.WithLabelValues("2", "success"))
	RecordPurchase("2", "success", 15*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(purchaseAttempts.WithLabelValues("2", "success")))
}

func TestRecordWalletConnection(t *testing.T) {
	before := testutil.ToFloat64(walletConnections.WithLabelValues("alt-chain-wallet", "failed"))
	RecordWalletConnection("alt-chain-wallet", "failed")
	assert.Equal(t, before+1, testutil.ToFloat64(walletConnections.WithLabelValues("alt-chain-wallet", "failed")))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	RecordSkippedRecord()
	SetSessionSubscribers(3)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_ledger_skipped_records_total")
	assert.Contains(t, rec.Body.String(), "storefront_session_subscribers 3")
}
