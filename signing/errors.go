package signing

import "errors"

var (
	ErrNonceReused       = errors.New("signing nonce was already used")
	ErrSigningFailed     = errors.New("signing failed")
	ErrAggregationFailed = errors.New("aggregation failed")
	ErrNoJobs            = errors.New("no signing jobs")
	ErrDuplicateJobID    = errors.New("duplicate job id")
)
