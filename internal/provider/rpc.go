package provider

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/beartech/tokenscope/internal/abicodec"
	"github.com/beartech/tokenscope/internal/chain"
	"github.com/beartech/tokenscope/internal/netx"
)

// RPCProvider reads ERC-20 basics straight from the chain over JSON-RPC.
// It needs no API key, which makes it the last-resort source when every
// keyed provider is down. Endpoints are tried in the chain's configured
// order; the first responsive one wins.
type RPCProvider struct {
	client *netx.Client
}

func NewRPCProvider(client *netx.Client) *RPCProvider {
	return &RPCProvider{client: client}
}

func (p *RPCProvider) Name() string { return SourceRPC }

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	Result string    `json:"result"`
	Error  *rpcError `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (p *RPCProvider) Fetch(ctx context.Context, address string, ch chain.Chain) Result {
	endpoint, err := p.pickEndpoint(ctx, ch)
	if err != nil {
		return Errf(SourceRPC, "%v", err)
	}

	fields := map[string]any{}

	if name, err := p.callString(ctx, endpoint, address, "name()"); err == nil && name != "" {
		fields[FieldName] = name
	}
	if symbol, err := p.callString(ctx, endpoint, address, "symbol()"); err == nil && symbol != "" {
		fields[FieldSymbol] = symbol
	}
	decimals := -1
	if dec, err := p.callUint(ctx, endpoint, address, "decimals()"); err == nil {
		decimals = int(dec.Int64())
		fields[FieldDecimals] = decimals
	}
	// Merged supplies are in human token units (the security provider's
	// scale); only report the raw uint256 when decimals are known to
	// scale it, an unscaled value would poison the merge.
	if supply, err := p.callUint(ctx, endpoint, address, "totalSupply()"); err == nil && decimals >= 0 {
		fields[FieldTotalSupply] = decimal.NewFromBigInt(supply, 0).Shift(int32(-decimals)).String()
	}

	if len(fields) == 0 {
		return Errf(SourceRPC, "no ERC-20 reads succeeded on %s", endpoint)
	}
	return OK(SourceRPC, fields)
}

// pickEndpoint walks the fallback list and returns the first endpoint that
// answers eth_chainId with the expected chain.
func (p *RPCProvider) pickEndpoint(ctx context.Context, ch chain.Chain) (string, error) {
	if len(ch.RPCEndpoints) == 0 {
		return "", fmt.Errorf("no RPC endpoints configured for chain %s", ch.Key)
	}
	var lastErr error
	for _, endpoint := range ch.RPCEndpoints {
		id, err := p.call(ctx, endpoint, "eth_chainId", []any{})
		if err != nil {
			lastErr = err
			continue
		}
		got, ok := new(big.Int).SetString(strings.TrimPrefix(id, "0x"), 16)
		if !ok || got.Int64() != ch.ID {
			lastErr = fmt.Errorf("endpoint %s answered for chain %s, want %d", endpoint, id, ch.ID)
			continue
		}
		return endpoint, nil
	}
	return "", fmt.Errorf("all RPC endpoints failed: %w", lastErr)
}

func (p *RPCProvider) call(ctx context.Context, endpoint, method string, params []any) (string, error) {
	req := rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: 1}
	var resp rpcResponse
	if err := p.client.PostJSON(ctx, SourceRPC, endpoint, req, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", resp.Error
	}
	return resp.Result, nil
}

func (p *RPCProvider) ethCall(ctx context.Context, endpoint, to, data string) (string, error) {
	params := []any{map[string]string{"to": to, "data": data}, "latest"}
	return p.call(ctx, endpoint, "eth_call", params)
}

func (p *RPCProvider) callString(ctx context.Context, endpoint, address, signature string) (string, error) {
	data, err := abicodec.EncodeCall(signature)
	if err != nil {
		return "", err
	}
	raw, err := p.ethCall(ctx, endpoint, address, data)
	if err != nil {
		return "", err
	}
	return abicodec.DecodeString(raw)
}

func (p *RPCProvider) callUint(ctx context.Context, endpoint, address, signature string) (*big.Int, error) {
	data, err := abicodec.EncodeCall(signature)
	if err != nil {
		return nil, err
	}
	raw, err := p.ethCall(ctx, endpoint, address, data)
	if err != nil {
		return nil, err
	}
	return abicodec.DecodeUint(raw)
}

// TokenBalance reads balanceOf(holder) on the token contract and scales it
// by the token's decimals. Used to enrich the deployer profile with the
// creator's remaining token position.
func (p *RPCProvider) TokenBalance(ctx context.Context, ch chain.Chain, token, holder string, decimals int) (decimal.Decimal, error) {
	endpoint, err := p.pickEndpoint(ctx, ch)
	if err != nil {
		return decimal.Zero, err
	}
	data, err := abicodec.EncodeCall("balanceOf(address)", holder)
	if err != nil {
		return decimal.Zero, err
	}
	raw, err := p.ethCall(ctx, endpoint, token, data)
	if err != nil {
		return decimal.Zero, err
	}
	n, err := abicodec.DecodeUint(raw)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(n, 0).Shift(int32(-decimals)), nil
}

// Code reports whether an address has deployed bytecode.
func (p *RPCProvider) Code(ctx context.Context, ch chain.Chain, address string) (bool, error) {
	endpoint, err := p.pickEndpoint(ctx, ch)
	if err != nil {
		return false, err
	}
	code, err := p.call(ctx, endpoint, "eth_getCode", []any{address, "latest"})
	if err != nil {
		return false, err
	}
	return code != "" && code != "0x", nil
}
