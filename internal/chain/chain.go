// Package chain defines the closed set of supported networks and the
// per-chain endpoint configuration the providers need.
package chain

import "fmt"

// ExplorerAPI describes one block-explorer API endpoint for a chain.
// Multichain endpoints (Etherscan v2) require a chainid query parameter
// on every call.
type ExplorerAPI struct {
	Name       string `yaml:"name"`
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	Multichain bool   `yaml:"multichain"`
}

// Chain carries everything the engine needs to talk to one network.
// RPCEndpoints is an ordered fallback list.
type Chain struct {
	Key          string      `yaml:"key"`
	Name         string      `yaml:"name"`
	Symbol       string      `yaml:"symbol"`
	ID           int64       `yaml:"id"`
	ExplorerURL  string      `yaml:"explorer_url"`
	RPCEndpoints []string    `yaml:"rpc_endpoints"`
	ExplorerAPI  ExplorerAPI `yaml:"explorer_api"`
}

func (c Chain) String() string { return c.Key }

// DexScreenerID returns the chain identifier DexScreener uses in pair
// payloads. It happens to match our keys for the supported set.
func (c Chain) DexScreenerID() string { return c.Key }

const (
	KeyEthereum = "ethereum"
	KeyBase     = "base"
)

// defaults returns the built-in registry. The primary chain comes first;
// the resolver breaks score ties in this order.
func defaults() []Chain {
	return []Chain{
		{
			Key:         KeyEthereum,
			Name:        "Ethereum",
			Symbol:      "ETH",
			ID:          1,
			ExplorerURL: "https://etherscan.io",
			RPCEndpoints: []string{
				"https://eth.llamarpc.com",
				"https://ethereum.publicnode.com",
				"https://rpc.ankr.com/eth",
			},
			ExplorerAPI: ExplorerAPI{
				Name:    "Etherscan",
				BaseURL: "https://api.etherscan.io/api",
			},
		},
		{
			Key:         KeyBase,
			Name:        "Base",
			Symbol:      "ETH",
			ID:          8453,
			ExplorerURL: "https://basescan.org",
			RPCEndpoints: []string{
				"https://mainnet.base.org",
				"https://base.publicnode.com",
				"https://base.blockpi.network/v1/rpc/public",
			},
			ExplorerAPI: ExplorerAPI{
				Name:       "Etherscan Multichain",
				BaseURL:    "https://api.etherscan.io/v2/api",
				Multichain: true,
			},
		},
	}
}

// Registry holds the supported chains in priority order.
type Registry struct {
	chains []Chain
}

// NewRegistry builds a registry from the default chain set.
func NewRegistry() *Registry {
	return &Registry{chains: defaults()}
}

// NewRegistryFrom builds a registry from an explicit chain list, falling
// back to the defaults when the list is empty.
func NewRegistryFrom(chains []Chain) *Registry {
	if len(chains) == 0 {
		return NewRegistry()
	}
	cp := make([]Chain, len(chains))
	copy(cp, chains)
	return &Registry{chains: cp}
}

// All returns the supported chains in priority order.
func (r *Registry) All() []Chain {
	cp := make([]Chain, len(r.chains))
	copy(cp, r.chains)
	return cp
}

// Primary returns the highest-priority chain (the chain-resolver default).
func (r *Registry) Primary() Chain { return r.chains[0] }

// ByKey looks a chain up by its key ("ethereum", "base").
func (r *Registry) ByKey(key string) (Chain, error) {
	for _, c := range r.chains {
		if c.Key == key {
			return c, nil
		}
	}
	return Chain{}, fmt.Errorf("unsupported chain %q", key)
}

// ByID looks a chain up by its numeric chain ID.
func (r *Registry) ByID(id int64) (Chain, error) {
	for _, c := range r.chains {
		if c.ID == id {
			return c, nil
		}
	}
	return Chain{}, fmt.Errorf("unsupported chain id %d", id)
}
