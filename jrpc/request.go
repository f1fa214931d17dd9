package jrpc

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/goccy/go-json"
)

const (
	Version = "2.0"

	MethodEthCall = "eth_call"

	BlockTagLatest = "latest"
)

var (
	errFailedToDecodeEthCallParams = errors.New("failed to decode eth_call params")
)

type EthCallParams struct {
	To   string `json:"to"`
	Data string `json:"data"`
}

// EthCallArgs is the positional params tuple of eth_call: the call object
// followed by the block tag.
type EthCallArgs struct {
	Call  EthCallParams
	Block string
}

type EthCallRequest struct {
	ID      uint64      `json:"id"`
	Version string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  EthCallArgs `json:"params"`
}

// NewEthCall builds the eth_call request against the latest block. The
// contract address is passed through as-is.
func NewEthCall(id uint64, contractAddress string, data []byte) EthCallRequest {
	return EthCallRequest{
		ID:      id,
		Version: Version,
		Method:  MethodEthCall,
		Params: EthCallArgs{
			Call: EthCallParams{
				To:   contractAddress,
				Data: hexutil.Encode(data),
			},
			Block: BlockTagLatest,
		},
	}
}

func (args EthCallArgs) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{args.Call, args.Block})
}

func (args *EthCallArgs) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: %w",
			errFailedToDecodeEthCallParams, err,
		)
	}
	if len(raw) != 2 {
		return fmt.Errorf("%w: expected 2 parameters, got %d",
			errFailedToDecodeEthCallParams, len(raw),
		)
	}
	if err := json.Unmarshal(raw[0], &args.Call); err != nil {
		return fmt.Errorf("%w: %w",
			errFailedToDecodeEthCallParams, err,
		)
	}
	if err := json.Unmarshal(raw[1], &args.Block); err != nil {
		return fmt.Errorf("%w: %w",
			errFailedToDecodeEthCallParams, err,
		)
	}
	return nil
}
