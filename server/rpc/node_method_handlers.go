package rpc

import (
	"context"

	fastjson "github.com/goccy/go-json"
	"github.com/osamingo/jsonrpc/v2"
)

type (
	EchoParams struct {
		Message string `json:"message"`
	}
	EchoResult struct {
		Message string `json:"message"`
	}
	HealthParams struct {
	}
	HealthResult struct {
		Status   string `json:"status"`
		DkgStage string `json:"dkg_stage"`
	}
)

func (h EchoHandler) ServeJSONRPC(_ context.Context, params *fastjson.RawMessage) (interface{}, *jsonrpc.Error) {
	var p EchoParams
	if err := jsonrpc.Unmarshal(params, &p); err != nil {
		return nil, err
	}
	return EchoResult{Message: "echo: " + p.Message}, nil
}

func (h HealthHandler) ServeJSONRPC(_ context.Context, _ *fastjson.RawMessage) (interface{}, *jsonrpc.Error) {
	return HealthResult{Status: "Ok", DkgStage: h.manager.Stage()}, nil
}
