// Package rpc defines the abstract node transport the wallet core requires
// (spec.md §6.1) and the wallet-level operations built on top of it. The
// core never assumes a wire format: it consumes a Transport capability and
// a Client built from it, and chains its own context strings onto whatever
// error the transport returns.
package rpc

import (
	"context"
	"encoding/json"
)

// Transport abstracts raw JSON-RPC communication with an on-chain node.
// Implementations need not be more than a single HTTP endpoint; the wallet
// core itself never retries, so failover (if any) is the transport's
// business.
type Transport interface {
	// Call executes a single JSON-RPC method call.
	Call(ctx context.Context, method string, params interface{}) (json.RawMessage, error)

	// Close releases any resources (idle connections, etc).
	Close() error
}
