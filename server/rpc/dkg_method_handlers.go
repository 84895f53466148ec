package rpc

import (
	"context"

	"github.com/arcana-network/frostsigner/common"
	"github.com/arcana-network/frostsigner/dkg"
	"github.com/arcana-network/frostsigner/telemetry"

	logger "github.com/arcana-network/groot/logger"
	fastjson "github.com/goccy/go-json"
	"github.com/osamingo/jsonrpc/v2"
)

var statLogger = logger.NewZapGlobal("frost_statistics")

type (
	DkgResetParams struct {
	}
	DkgResetResult struct {
		Previous string `json:"previous"`
	}
)

func (h DkgRound1Handler) ServeJSONRPC(_ context.Context, params *fastjson.RawMessage) (interface{}, *jsonrpc.Error) {
	var p dkg.Round1Request
	if err := jsonrpc.Unmarshal(params, &p); err != nil {
		return nil, err
	}

	res, err := h.manager.Round1(&p)
	telemetry.IncrementDKGRound("round1", err)
	if err != nil {
		common.LogRequestError("DkgRound1Handler", "ServeJSONRPC", err)
		return nil, toJRPCError(err)
	}
	return res, nil
}

func (h DkgRound2Handler) ServeJSONRPC(_ context.Context, params *fastjson.RawMessage) (interface{}, *jsonrpc.Error) {
	var p dkg.Round2Request
	if err := jsonrpc.Unmarshal(params, &p); err != nil {
		return nil, err
	}

	res, err := h.manager.Round2(&p)
	telemetry.IncrementDKGRound("round2", err)
	if err != nil {
		common.LogRequestError("DkgRound2Handler", "ServeJSONRPC", err)
		return nil, toJRPCError(err)
	}
	return res, nil
}

func (h DkgRound3Handler) ServeJSONRPC(_ context.Context, params *fastjson.RawMessage) (interface{}, *jsonrpc.Error) {
	var p dkg.Round3Request
	if err := jsonrpc.Unmarshal(params, &p); err != nil {
		return nil, err
	}

	res, err := h.manager.Round3(&p)
	telemetry.IncrementDKGRound("round3", err)
	if err != nil {
		common.LogRequestError("DkgRound3Handler", "ServeJSONRPC", err)
		return nil, toJRPCError(err)
	}

	telemetry.AddKeysGenerated(len(res.KeyPackages))
	statLogger.Info("dkg_complete", logger.Field{"keyCount": len(res.KeyPackages)})
	return res, nil
}

func (h DkgResetHandler) ServeJSONRPC(_ context.Context, _ *fastjson.RawMessage) (interface{}, *jsonrpc.Error) {
	previous, err := h.manager.Reset()
	if err != nil {
		return nil, toJRPCError(err)
	}
	return DkgResetResult{Previous: previous}, nil
}
