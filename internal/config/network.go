// Package config builds the NetworkConfig the network client is
// constructed from. Only a Custom network's construction can fail
// (spec.md §9, "Network construction").
package config

import (
	"github.com/iota-tools/walletcore/internal/domain"
	"github.com/iota-tools/walletcore/internal/walleterr"
)

// NetworkConfig names the network the client binds to and the endpoint it
// reaches it through.
type NetworkConfig struct {
	Id           domain.NetworkId
	Endpoint     string
	FaucetURL    string
}

// Mainnet builds the (infallible) mainnet configuration.
func Mainnet(endpoint string) NetworkConfig {
	return NetworkConfig{Id: domain.NetworkId{Kind: domain.Mainnet}, Endpoint: endpoint}
}

// Testnet builds the (infallible) testnet configuration.
func Testnet(endpoint, faucetURL string) NetworkConfig {
	return NetworkConfig{Id: domain.NetworkId{Kind: domain.Testnet}, Endpoint: endpoint, FaucetURL: faucetURL}
}

// Devnet builds the (infallible) devnet configuration.
func Devnet(endpoint, faucetURL string) NetworkConfig {
	return NetworkConfig{Id: domain.NetworkId{Kind: domain.Devnet}, Endpoint: endpoint, FaucetURL: faucetURL}
}

// Custom builds a configuration for an arbitrary node. It is the only
// NetworkConfig constructor that can fail: a Custom network without a node
// URL has nothing to dial.
func Custom(url string) (NetworkConfig, error) {
	if url == "" {
		return NetworkConfig{}, walleterr.New(walleterr.Config, "network_config", "Custom network requires a node URL")
	}
	return NetworkConfig{Id: domain.NetworkId{Kind: domain.Custom, URL: url}, Endpoint: url}, nil
}

// Name returns the network's partitioning name (spec.md §3).
func (c NetworkConfig) Name() string {
	return c.Id.Name()
}
