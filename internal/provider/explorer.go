package provider

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/beartech/tokenscope/internal/chain"
	"github.com/beartech/tokenscope/internal/netx"
)

// ExplorerProvider queries the chain's Etherscan-family block explorer for
// verification status, creation metadata, on-chain activity, and the
// deployer profile. It is the authoritative source for verification facts.
type ExplorerProvider struct {
	client *netx.Client
	now    func() time.Time
}

func NewExplorerProvider(client *netx.Client) *ExplorerProvider {
	return &ExplorerProvider{client: client, now: time.Now}
}

func (p *ExplorerProvider) Name() string { return SourceExplorer }

type explorerEnvelope[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

type explorerSource struct {
	SourceCode   string `json:"SourceCode"`
	ABI          string `json:"ABI"`
	ContractName string `json:"ContractName"`
}

type explorerCreation struct {
	ContractAddress string `json:"contractAddress"`
	ContractCreator string `json:"contractCreator"`
	TxHash          string `json:"txHash"`
}

type explorerTx struct {
	TimeStamp       string `json:"timeStamp"`
	From            string `json:"from"`
	To              string `json:"to"`
	ContractAddress string `json:"contractAddress"`
	Hash            string `json:"hash"`
}

type proxyResult struct {
	Result string `json:"result"`
}

func (p *ExplorerProvider) Fetch(ctx context.Context, address string, ch chain.Chain) Result {
	api := ch.ExplorerAPI
	if api.BaseURL == "" {
		return Errf(SourceExplorer, "no explorer API configured for chain %s", ch.Key)
	}
	if api.APIKey == "" {
		return Errf(SourceExplorer, "API key not configured")
	}

	fields := map[string]any{}
	var failures []string

	if err := p.fetchSource(ctx, api, ch, address, fields); err != nil {
		failures = append(failures, fmt.Sprintf("source: %v", err))
	}
	if err := p.fetchCreation(ctx, api, ch, address, fields); err != nil {
		failures = append(failures, fmt.Sprintf("creation: %v", err))
	}
	if err := p.fetchTxCount(ctx, api, ch, address, fields); err != nil {
		failures = append(failures, fmt.Sprintf("txcount: %v", err))
	}
	if creator, ok := fields[FieldContractCreator].(string); ok && creator != "" {
		if err := p.fetchDeployerProfile(ctx, api, ch, creator, fields); err != nil {
			failures = append(failures, fmt.Sprintf("deployer: %v", err))
		}
	}

	// Partial data still counts as success; only a total miss is an error.
	if len(fields) == 0 {
		return Errf(SourceExplorer, "all explorer queries failed: %s", strings.Join(failures, "; "))
	}
	return OK(SourceExplorer, fields)
}

func (p *ExplorerProvider) endpoint(api chain.ExplorerAPI, ch chain.Chain, params url.Values) string {
	params.Set("apikey", api.APIKey)
	if api.Multichain {
		params.Set("chainid", strconv.FormatInt(ch.ID, 10))
	}
	return api.BaseURL + "?" + params.Encode()
}

func (p *ExplorerProvider) fetchSource(ctx context.Context, api chain.ExplorerAPI, ch chain.Chain, address string, fields map[string]any) error {
	params := url.Values{
		"module":  {"contract"},
		"action":  {"getsourcecode"},
		"address": {address},
	}
	var env explorerEnvelope[[]explorerSource]
	if err := p.client.GetJSON(ctx, SourceExplorer, p.endpoint(api, ch, params), nil, &env); err != nil {
		return err
	}
	if env.Status != "1" || len(env.Result) == 0 {
		return fmt.Errorf("explorer error: %s", env.Message)
	}

	src := env.Result[0]
	hasSource := src.SourceCode != ""
	hasABI := src.ABI != "" && src.ABI != "Contract source code not verified"
	verified := hasSource && hasABI

	fields[FieldIsVerified] = verified
	fields[FieldHasSourceCode] = hasSource
	fields[FieldHasABI] = hasABI
	if verified {
		fields[FieldVerificationStatus] = "verified"
	} else {
		fields[FieldVerificationStatus] = "unverified"
	}
	if src.ContractName != "" {
		fields[FieldName] = src.ContractName
	}
	return nil
}

func (p *ExplorerProvider) fetchCreation(ctx context.Context, api chain.ExplorerAPI, ch chain.Chain, address string, fields map[string]any) error {
	params := url.Values{
		"module":          {"contract"},
		"action":          {"getcontractcreation"},
		"contractaddresses": {address},
	}
	var env explorerEnvelope[[]explorerCreation]
	if err := p.client.GetJSON(ctx, SourceExplorer, p.endpoint(api, ch, params), nil, &env); err != nil {
		return err
	}
	if env.Status != "1" || len(env.Result) == 0 {
		return fmt.Errorf("explorer error: %s", env.Message)
	}

	creation := env.Result[0]
	if creation.ContractCreator != "" {
		fields[FieldContractCreator] = strings.ToLower(creation.ContractCreator)
	}
	if creation.TxHash != "" {
		fields[FieldCreationTx] = creation.TxHash
	}
	return nil
}

func (p *ExplorerProvider) fetchTxCount(ctx context.Context, api chain.ExplorerAPI, ch chain.Chain, address string, fields map[string]any) error {
	params := url.Values{
		"module":  {"proxy"},
		"action":  {"eth_getTransactionCount"},
		"address": {address},
		"tag":     {"latest"},
	}
	var res proxyResult
	if err := p.client.GetJSON(ctx, SourceExplorer, p.endpoint(api, ch, params), nil, &res); err != nil {
		return err
	}
	count, err := strconv.ParseInt(strings.TrimPrefix(res.Result, "0x"), 16, 64)
	if err != nil {
		return fmt.Errorf("bad tx count %q: %w", res.Result, err)
	}
	fields[FieldTransactionCount] = int(count)
	return nil
}

// fetchDeployerProfile describes the contract creator's wallet: native
// balance, activity, age, and how many other contracts it has deployed.
func (p *ExplorerProvider) fetchDeployerProfile(ctx context.Context, api chain.ExplorerAPI, ch chain.Chain, creator string, fields map[string]any) error {
	balParams := url.Values{
		"module":  {"account"},
		"action":  {"balance"},
		"address": {creator},
		"tag":     {"latest"},
	}
	var bal explorerEnvelope[string]
	if err := p.client.GetJSON(ctx, SourceExplorer, p.endpoint(api, ch, balParams), nil, &bal); err != nil {
		return err
	}
	if bal.Status == "1" {
		if wei, err := decimal.NewFromString(bal.Result); err == nil {
			// Balance is reported in the chain's native unit.
			fields[FieldDeployerBalance] = wei.Shift(-18)
		}
	}

	txParams := url.Values{
		"module":  {"account"},
		"action":  {"txlist"},
		"address": {creator},
		"page":    {"1"},
		"offset":  {"100"},
		"sort":    {"asc"},
	}
	var txs explorerEnvelope[[]explorerTx]
	if err := p.client.GetJSON(ctx, SourceExplorer, p.endpoint(api, ch, txParams), nil, &txs); err != nil {
		return err
	}
	if txs.Status != "1" || len(txs.Result) == 0 {
		return nil
	}

	fields[FieldDeployerTxCount] = len(txs.Result)

	contracts := 0
	for _, tx := range txs.Result {
		if tx.To == "" && tx.ContractAddress != "" {
			contracts++
		}
	}
	fields[FieldDeployerContracts] = contracts

	if ts, err := strconv.ParseInt(txs.Result[0].TimeStamp, 10, 64); err == nil {
		age := int(p.now().Sub(time.Unix(ts, 0)).Hours() / 24)
		if age < 0 {
			age = 0
		}
		fields[FieldDeployerAgeDays] = age
	}

	if fields[FieldCreationDate] == nil {
		for _, tx := range txs.Result {
			if tx.ContractAddress != "" {
				if ts, err := strconv.ParseInt(tx.TimeStamp, 10, 64); err == nil {
					fields[FieldCreationDate] = time.Unix(ts, 0).UTC().Format(time.RFC3339)
				}
				break
			}
		}
	}
	return nil
}
