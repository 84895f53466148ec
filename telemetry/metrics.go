package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type dkgCounter struct {
	rounds *prometheus.CounterVec
	keys   prometheus.Counter
}

type signingCounter struct {
	nonces      prometheus.Counter
	shares      *prometheus.CounterVec
	aggregation *prometheus.CounterVec
}

func newDKGCounter(reg prometheus.Registerer) *dkgCounter {
	f := promauto.With(reg)
	return &dkgCounter{
		rounds: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dkg_round_requests",
			Help: "DKG round requests by round and outcome",
		}, []string{"round", "outcome"}),
		keys: f.NewCounter(prometheus.CounterOpts{
			Name: "dkg_keys_generated",
			Help: "Key packages produced by completed DKG sessions",
		}),
	}
}

func newSigningCounter(reg prometheus.Registerer) *signingCounter {
	f := promauto.With(reg)
	return &signingCounter{
		nonces: f.NewCounter(prometheus.CounterOpts{
			Name: "frost_nonces_generated",
			Help: "Signing nonce pairs handed out",
		}),
		shares: f.NewCounterVec(prometheus.CounterOpts{
			Name: "frost_signature_shares",
			Help: "Signature share requests by role and outcome",
		}, []string{"role", "outcome"}),
		aggregation: f.NewCounterVec(prometheus.CounterOpts{
			Name: "frost_aggregations",
			Help: "Aggregation requests by outcome",
		}, []string{"outcome"}),
	}
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
