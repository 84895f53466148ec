package telemetry

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(signingCalls.aggregation.WithLabelValues("failure"))
	IncrementAggregation(errors.New("bad share"))
	assert.Equal(t, before+1, testutil.ToFloat64(signingCalls.aggregation.WithLabelValues("failure")))

	IncrementDKGRound("round1", nil)
	assert.GreaterOrEqual(t, testutil.ToFloat64(dkgCalls.rounds.WithLabelValues("round1", "success")), 1.0)

	AddKeysGenerated(3)
	AddNoncesGenerated(2)
	IncrementSignatureShares("user", nil)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "frost_aggregations")
	assert.Contains(t, string(body), "dkg_keys_generated")
}
