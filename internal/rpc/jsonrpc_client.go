package rpc

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/iota-tools/walletcore/internal/domain"
)

// JSONRPCClient adapts a raw node JSON-RPC Transport into the wallet-level
// Client operations. Method names and payload shapes below are this
// wallet's own wire contract; the core never assumes a specific transport
// beyond the Transport interface it is handed.
type JSONRPCClient struct {
	transport Transport
}

// NewJSONRPCClient builds a Client backed by transport.
func NewJSONRPCClient(transport Transport) *JSONRPCClient {
	return &JSONRPCClient{transport: transport}
}

func (c *JSONRPCClient) Balance(ctx context.Context, address domain.Address) (uint64, bool, error) {
	raw, err := c.transport.Call(ctx, "wal_getBalance", []interface{}{string(address)})
	if err != nil {
		return 0, false, err
	}
	var resp struct {
		Balance *string `json:"balance"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return 0, false, fmt.Errorf("decode balance response: %w", err)
	}
	if resp.Balance == nil {
		return 0, false, nil
	}
	nanos, err := strconv.ParseUint(*resp.Balance, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("decode balance value: %w", err)
	}
	return nanos, true, nil
}

func (c *JSONRPCClient) TokenBalances(ctx context.Context, address domain.Address) ([]TokenBalanceItem, error) {
	raw, err := c.transport.Call(ctx, "walx_getAllBalances", []interface{}{string(address)})
	if err != nil {
		return nil, err
	}
	var items []struct {
		CoinType string  `json:"coinType"`
		Amount   string  `json:"amount"`
		Decimals *uint32 `json:"decimals"`
		Symbol   *string `json:"symbol"`
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode token balances response: %w", err)
	}
	result := make([]TokenBalanceItem, 0, len(items))
	for _, item := range items {
		nanos, err := strconv.ParseUint(item.Amount, 10, 64)
		if err != nil {
			continue // malformed row, drop silently per spec.md §7
		}
		result = append(result, TokenBalanceItem{
			CoinType: item.CoinType,
			Amount:   nanos,
			Decimals: item.Decimals,
			Symbol:   item.Symbol,
		})
	}
	return result, nil
}

func (c *JSONRPCClient) Epoch(ctx context.Context) (uint64, error) {
	raw, err := c.transport.Call(ctx, "wal_getCurrentEpoch", nil)
	if err != nil {
		return 0, err
	}
	var epoch string
	if err := json.Unmarshal(raw, &epoch); err != nil {
		return 0, fmt.Errorf("decode epoch response: %w", err)
	}
	value, err := strconv.ParseUint(epoch, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("decode epoch value: %w", err)
	}
	return value, nil
}

func (c *JSONRPCClient) StakesQuery(ctx context.Context, address domain.Address) ([]StakeQueryNode, error) {
	raw, err := c.transport.Call(ctx, "walx_queryStakes", []interface{}{string(address)})
	if err != nil {
		return nil, err
	}
	var nodes []StakeQueryNode
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return nil, fmt.Errorf("decode stakes response: %w", err)
	}
	return nodes, nil
}

func (c *JSONRPCClient) TransactionsPage(ctx context.Context, filter TxQueryFilter, page PageRequest) (Page, error) {
	params := map[string]interface{}{
		"limit":     page.Limit,
		"direction": "backward",
	}
	if page.Direction == Forward {
		params["direction"] = "forward"
	}
	if page.Cursor != nil {
		params["cursor"] = *page.Cursor
	}
	switch filter.Kind {
	case BySignAddress:
		params["signAddress"] = string(filter.Address)
	case ByRecvAddress:
		params["recvAddress"] = string(filter.Address)
	}

	raw, err := c.transport.Call(ctx, "walx_queryTransactions", params)
	if err != nil {
		return Page{}, err
	}

	var resp struct {
		Items           []EffectsItem `json:"items"`
		HasPreviousPage bool          `json:"hasPreviousPage"`
		StartCursor     *string       `json:"startCursor"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Page{}, fmt.Errorf("decode transactions page: %w", err)
	}
	return Page{Items: resp.Items, HasPreviousPage: resp.HasPreviousPage, StartCursor: resp.StartCursor}, nil
}

func (c *JSONRPCClient) TransactionDetails(ctx context.Context, digest domain.Digest) (TxDetails, error) {
	raw, err := c.transport.Call(ctx, "wal_getTransaction", []interface{}{string(digest)})
	if err != nil {
		return TxDetails{}, err
	}
	var resp struct {
		Found      bool             `json:"found"`
		Status     string           `json:"status"`
		Sender     string           `json:"sender"`
		Recipient  *string          `json:"recipient"`
		Amount     *string          `json:"amount"`
		NetGasUsed *int64           `json:"netGasUsed"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return TxDetails{}, fmt.Errorf("decode transaction details: %w", err)
	}
	if !resp.Found {
		return TxDetails{Found: false}, nil
	}
	details := TxDetails{
		Found:      true,
		Status:     resp.Status,
		Sender:     domain.Address(resp.Sender),
		NetGasUsed: resp.NetGasUsed,
	}
	if resp.Recipient != nil {
		recipient := domain.Address(*resp.Recipient)
		details.Recipient = &recipient
	}
	if resp.Amount != nil {
		nanos, err := strconv.ParseUint(*resp.Amount, 10, 64)
		if err == nil {
			details.Amount = &nanos
		}
	}
	return details, nil
}

func (c *JSONRPCClient) BuildTransaction(ctx context.Context, req BuildRequest) (UnsignedTx, error) {
	params := map[string]interface{}{"sender": string(req.Sender)}
	switch req.Kind {
	case BuildTransfer:
		params["kind"] = "transfer"
		if req.Recipient != nil {
			params["recipient"] = string(*req.Recipient)
		}
		if req.Amount != nil {
			params["amount"] = strconv.FormatUint(*req.Amount, 10)
		}
	case BuildStake:
		params["kind"] = "stake"
		if req.PoolId != nil {
			params["poolId"] = *req.PoolId
		}
		if req.Amount != nil {
			params["amount"] = strconv.FormatUint(*req.Amount, 10)
		}
	case BuildUnstake:
		params["kind"] = "unstake"
		if req.ObjectId != nil {
			params["objectId"] = string(*req.ObjectId)
		}
	case BuildSweep:
		params["kind"] = "sweep"
		if req.Recipient != nil {
			params["recipient"] = string(*req.Recipient)
		}
	}

	raw, err := c.transport.Call(ctx, "walx_buildTransaction", params)
	if err != nil {
		return UnsignedTx{}, err
	}
	var resp struct {
		SigningPayload string `json:"signingPayload"`
		Raw            string `json:"raw"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return UnsignedTx{}, fmt.Errorf("decode build transaction response: %w", err)
	}
	signingPayload, err := hex.DecodeString(resp.SigningPayload)
	if err != nil {
		return UnsignedTx{}, fmt.Errorf("decode signing payload: %w", err)
	}
	rawTx, err := hex.DecodeString(resp.Raw)
	if err != nil {
		return UnsignedTx{}, fmt.Errorf("decode raw transaction: %w", err)
	}
	return UnsignedTx{SigningPayload: signingPayload, Raw: rawTx}, nil
}

func (c *JSONRPCClient) DryRun(ctx context.Context, tx UnsignedTx) (DryRunResult, error) {
	raw, err := c.transport.Call(ctx, "walx_dryRunTransaction", map[string]interface{}{
		"raw": hex.EncodeToString(tx.Raw),
	})
	if err != nil {
		return DryRunResult{}, err
	}
	var resp struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return DryRunResult{}, fmt.Errorf("decode dry-run response: %w", err)
	}
	return DryRunResult{Error: resp.Error}, nil
}

func (c *JSONRPCClient) Execute(ctx context.Context, tx UnsignedTx, sig Signature) (ExecuteResult, error) {
	raw, err := c.transport.Call(ctx, "walx_executeTransaction", map[string]interface{}{
		"raw":       hex.EncodeToString(tx.Raw),
		"signature": hex.EncodeToString(sig.Bytes),
		"publicKey": hex.EncodeToString(sig.PublicKey),
	})
	if err != nil {
		return ExecuteResult{}, err
	}
	var resp struct {
		Digest      string  `json:"digest"`
		Status      string  `json:"status"`
		MovedAmount *string `json:"movedAmount"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return ExecuteResult{}, fmt.Errorf("decode execute response: %w", err)
	}
	result := ExecuteResult{Digest: domain.Digest(resp.Digest), Status: resp.Status}
	if resp.MovedAmount != nil {
		if nanos, err := strconv.ParseUint(*resp.MovedAmount, 10, 64); err == nil {
			result.MovedAmount = &nanos
		}
	}
	return result, nil
}

func (c *JSONRPCClient) Faucet(ctx context.Context, address domain.Address) error {
	_, err := c.transport.Call(ctx, "wal_requestFaucet", []interface{}{string(address)})
	return err
}

func (c *JSONRPCClient) Status(ctx context.Context) (domain.NetworkStatus, error) {
	raw, err := c.transport.Call(ctx, "wal_getStatus", nil)
	if err != nil {
		return domain.NetworkStatus{Reachable: false}, err
	}
	var resp struct {
		CurrentEpoch string `json:"currentEpoch"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return domain.NetworkStatus{Reachable: false}, fmt.Errorf("decode status response: %w", err)
	}
	epoch, err := strconv.ParseUint(resp.CurrentEpoch, 10, 64)
	if err != nil {
		return domain.NetworkStatus{Reachable: true}, fmt.Errorf("decode status epoch: %w", err)
	}
	return domain.NetworkStatus{Reachable: true, CurrentEpoch: epoch}, nil
}

var _ Client = (*JSONRPCClient)(nil)
