package rpc

import (
	"github.com/arcana-network/frostsigner/dkg"
	"github.com/arcana-network/frostsigner/signing"
	"github.com/arcana-network/frostsigner/wire"
	"github.com/osamingo/jsonrpc/v2"
)

const (
	DkgRound1Method      = "DkgRound1"
	DkgRound2Method      = "DkgRound2"
	DkgRound3Method      = "DkgRound3"
	DkgResetMethod       = "DkgReset"
	FrostNonceMethod     = "FrostNonce"
	SignFrostMethod      = "SignFrost"
	AggregateFrostMethod = "AggregateFrost"
	EchoMethod           = "Echo"
	HealthMethod         = "HealthCheck"
)

type (
	DkgRound1Handler struct {
		manager *dkg.Manager
	}
	DkgRound2Handler struct {
		manager *dkg.Manager
	}
	DkgRound3Handler struct {
		manager *dkg.Manager
	}
	DkgResetHandler struct {
		manager *dkg.Manager
	}
	FrostNonceHandler struct {
		signer *signing.Signer
	}
	SignFrostHandler struct {
		signer *signing.Signer
	}
	AggregateFrostHandler struct {
		signer *signing.Signer
	}
	EchoHandler struct {
	}
	HealthHandler struct {
		manager *dkg.Manager
	}
)

func SetUpJRPCHandler(manager *dkg.Manager, signer *signing.Signer) (*jsonrpc.MethodRepository, error) {
	mr := jsonrpc.NewMethodRepository()

	if err := mr.RegisterMethod(HealthMethod, HealthHandler{manager}, HealthParams{}, HealthResult{}); err != nil {
		return nil, err
	}

	if err := mr.RegisterMethod(EchoMethod, EchoHandler{}, EchoParams{}, EchoResult{}); err != nil {
		return nil, err
	}

	if err := mr.RegisterMethod(DkgRound1Method, DkgRound1Handler{manager}, dkg.Round1Request{}, dkg.Round1Response{}); err != nil {
		return nil, err
	}

	if err := mr.RegisterMethod(DkgRound2Method, DkgRound2Handler{manager}, dkg.Round2Request{}, dkg.Round2Response{}); err != nil {
		return nil, err
	}

	if err := mr.RegisterMethod(DkgRound3Method, DkgRound3Handler{manager}, dkg.Round3Request{}, dkg.Round3Response{}); err != nil {
		return nil, err
	}

	if err := mr.RegisterMethod(DkgResetMethod, DkgResetHandler{manager}, DkgResetParams{}, DkgResetResult{}); err != nil {
		return nil, err
	}

	if err := mr.RegisterMethod(FrostNonceMethod, FrostNonceHandler{signer}, signing.NonceRequest{}, signing.NonceResponse{}); err != nil {
		return nil, err
	}

	if err := mr.RegisterMethod(SignFrostMethod, SignFrostHandler{signer}, signing.SignRequest{}, signing.SignResponse{}); err != nil {
		return nil, err
	}

	if err := mr.RegisterMethod(AggregateFrostMethod, AggregateFrostHandler{signer}, wire.AggregateRequest{}, wire.AggregateResult{}); err != nil {
		return nil, err
	}

	return mr, nil
}
