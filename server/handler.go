package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flashbots/ethcall/ethcall"
	"github.com/flashbots/ethcall/logutils"
	"github.com/flashbots/ethcall/network"
	"github.com/flashbots/ethcall/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const (
	pathCall    = "/call"
	pathHealthz = "/healthz"

	kindBadRequest = "bad_request"
)

var (
	errHandlerInvalidBody    = errors.New("invalid request body")
	errHandlerInvalidData    = errors.New("invalid call data")
	errHandlerMissingAddress = errors.New("contract address is missing")
)

type callRequest struct {
	Network  string `json:"network"`
	Contract string `json:"contract"`
	Data     string `json:"data"`
}

type callResponse struct {
	Result string     `json:"result,omitempty"`
	Error  *callError `json:"error,omitempty"`
}

type callError struct {
	Kind    string          `json:"kind"`
	Code    *int64          `json:"code,omitempty"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (s *Server) receive(ctx *fasthttp.RequestCtx) {
	switch utils.Str(ctx.Path()) {
	case pathCall:
		if !ctx.IsPost() {
			ctx.Response.Header.Set(fasthttp.HeaderAllow, fasthttp.MethodPost)
			ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
			return
		}
		s.handleCall(ctx)
	case pathHealthz:
		if !ctx.IsGet() && !ctx.IsHead() {
			ctx.Response.Header.Set(fasthttp.HeaderAllow, fasthttp.MethodGet)
			ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
			return
		}
		ctx.SetStatusCode(fasthttp.StatusOK)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	}
}

func (s *Server) handleCall(ctx *fasthttp.RequestCtx) {
	tsReqReceived := time.Now()

	l := s.logger.With(
		zap.Uint64("connection_id", ctx.ConnID()),
		zap.String("remote_addr", ctx.RemoteAddr().String()),
	)

	net, contract, data, err := s.parseCall(ctx.Request.Body())
	if err != nil {
		l.Debug("Rejected malformed call request",
			zap.Error(err),
		)
		s.respond(ctx, l, fasthttp.StatusBadRequest, &callResponse{Error: &callError{
			Kind:    kindBadRequest,
			Message: err.Error(),
		}})
		return
	}

	if !common.IsHexAddress(contract) {
		// the node decides; we only flag it
		l.Warn("Contract address does not look like an ethereum address",
			zap.String("contract", contract),
		)
	}

	callCtx, cancel := context.WithTimeout(
		logutils.ContextWithLogger(context.Background(), l),
		s.cfg.Client.Timeout,
	)
	defer cancel()

	result, err := s.client.Call(callCtx, net, contract, data)
	if err != nil {
		s.respond(ctx, l, statusOf(err), &callResponse{Error: errorOf(err)})
		return
	}

	l.Debug("Served the call",
		zap.Stringer("network", net),
		zap.String("contract", contract),
		zap.Duration("latency", time.Since(tsReqReceived)),
	)
	s.respond(ctx, l, fasthttp.StatusOK, &callResponse{Result: result})
}

func (s *Server) parseCall(body []byte) (network.Network, string, []byte, error) {
	req := callRequest{}
	if err := json.Unmarshal(body, &req); err != nil {
		return 0, "", nil, fmt.Errorf("%w: %w",
			errHandlerInvalidBody, err,
		)
	}

	name := req.Network
	if strings.TrimSpace(name) == "" {
		name = s.cfg.Client.Network
	}
	net, err := network.Parse(name)
	if err != nil {
		return 0, "", nil, err
	}

	contract := strings.TrimSpace(req.Contract)
	if contract == "" {
		return 0, "", nil, errHandlerMissingAddress
	}

	var data []byte
	if req.Data != "" {
		data, err = hexutil.Decode(req.Data)
		if err != nil {
			return 0, "", nil, fmt.Errorf("%w: %w",
				errHandlerInvalidData, err,
			)
		}
	}

	return net, contract, data, nil
}

func (s *Server) respond(ctx *fasthttp.RequestCtx, l *zap.Logger, status int, res *callResponse) {
	body, err := json.Marshal(res)
	if err != nil {
		l.Error("Failed to encode the response",
			zap.Error(err),
		)
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}

	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

func statusOf(err error) int {
	switch ethcall.Kind(err) {
	case ethcall.KindConfiguration:
		return fasthttp.StatusBadRequest
	case ethcall.KindRPC:
		return fasthttp.StatusUnprocessableEntity
	case ethcall.KindTransport, ethcall.KindDecoding, ethcall.KindMalformed:
		return fasthttp.StatusBadGateway
	default:
		return fasthttp.StatusInternalServerError
	}
}

func errorOf(err error) *callError {
	res := &callError{
		Kind:    ethcall.Kind(err),
		Message: err.Error(),
	}

	var rpcErr *ethcall.RPCError
	if errors.As(err, &rpcErr) {
		code := rpcErr.Code
		res.Code = &code
		res.Message = rpcErr.Message
		res.Data = rpcErr.Data
	}

	return res
}
