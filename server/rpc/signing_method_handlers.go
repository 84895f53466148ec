package rpc

import (
	"context"

	"github.com/arcana-network/frostsigner/common"
	"github.com/arcana-network/frostsigner/signing"
	"github.com/arcana-network/frostsigner/telemetry"
	"github.com/arcana-network/frostsigner/wire"

	logger "github.com/arcana-network/groot/logger"
	fastjson "github.com/goccy/go-json"
	"github.com/osamingo/jsonrpc/v2"
	log "github.com/sirupsen/logrus"
)

func (h FrostNonceHandler) ServeJSONRPC(_ context.Context, params *fastjson.RawMessage) (interface{}, *jsonrpc.Error) {
	var p signing.NonceRequest
	if err := jsonrpc.Unmarshal(params, &p); err != nil {
		return nil, err
	}

	res, err := h.signer.FrostNonce(&p)
	if err != nil {
		common.LogRequestError("FrostNonceHandler", "ServeJSONRPC", err)
		return nil, toJRPCError(err)
	}
	telemetry.AddNoncesGenerated(len(res.Results))
	return res, nil
}

func (h SignFrostHandler) ServeJSONRPC(_ context.Context, params *fastjson.RawMessage) (interface{}, *jsonrpc.Error) {
	var p signing.SignRequest
	if err := jsonrpc.Unmarshal(params, &p); err != nil {
		return nil, err
	}

	res, err := h.signer.SignFrost(&p)
	telemetry.IncrementSignatureShares(p.Role.String(), err)
	if err != nil {
		common.LogRequestError("SignFrostHandler", "ServeJSONRPC", err)
		return nil, toJRPCError(err)
	}

	common.LogRequestServed("SignFrostHandler", "ServeJSONRPC", log.Fields{
		"role": p.Role.String(),
		"jobs": len(res.Results),
	})
	return res, nil
}

func (h AggregateFrostHandler) ServeJSONRPC(_ context.Context, params *fastjson.RawMessage) (interface{}, *jsonrpc.Error) {
	var p wire.AggregateRequest
	if err := jsonrpc.Unmarshal(params, &p); err != nil {
		return nil, err
	}

	res, err := h.signer.Aggregate(&p)
	telemetry.IncrementAggregation(err)
	if err != nil {
		common.LogRequestError("AggregateFrostHandler", "ServeJSONRPC", err)
		return nil, toJRPCError(err)
	}

	statLogger.Info("aggregate", logger.Field{"signers": len(p.SignatureShares) + 1})
	return res, nil
}
