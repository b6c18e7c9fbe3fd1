// Package walletnet adapts the abstract rpc.Client into the wallet-level
// network client spec.md §4.4 describes: balance and token-balance reads,
// a structured stakes query with field extraction, the
// build-dry_run-sign-execute write protocol, sweep, faucet, transaction
// lookup and status. Every operation except TransactionsPage is counted and
// timed the way the teacher's chain adapters record metrics around RPC
// calls; the write protocol also logs dry-run rejections and executed
// digests.
package walletnet

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-tools/walletcore/internal/config"
	"github.com/iota-tools/walletcore/internal/domain"
	"github.com/iota-tools/walletcore/internal/ratelimit"
	"github.com/iota-tools/walletcore/internal/rpc"
	"github.com/iota-tools/walletcore/internal/signer"
	"github.com/iota-tools/walletcore/internal/walleterr"
)

// faucetMaxAttempts and faucetWindow bound how often a single address may
// call the testnet/devnet faucet through this client.
const (
	faucetMaxAttempts = 5
	faucetWindow      = time.Hour
)

// NetworkClient wraps an rpc.Client bound to one network and exposes the
// seven semantic wallet operations (spec.md §4.4).
type NetworkClient struct {
	rpc          rpc.Client
	config       config.NetworkConfig
	log          *logrus.Entry
	faucetLimits *ratelimit.Limiter
}

// New constructs a NetworkClient bound to cfg. A Custom network without a
// node URL is rejected here too, so callers that build a NetworkConfig by
// hand (bypassing the config package's constructors) still get the
// documented constructor error.
func New(cfg config.NetworkConfig, client rpc.Client) (*NetworkClient, error) {
	if cfg.Id.Kind == domain.Custom && cfg.Id.URL == "" {
		return nil, walleterr.New(walleterr.Config, "network_client_new", "Custom network requires a node URL")
	}
	return &NetworkClient{
		rpc:          client,
		config:       cfg,
		log:          logrus.WithField("network", cfg.Name()),
		faucetLimits: ratelimit.New(faucetMaxAttempts, faucetWindow),
	}, nil
}

// Balance returns address's nano balance; "no balance record" is zero.
func (c *NetworkClient) Balance(ctx context.Context, address domain.Address) (nanos uint64, err error) {
	defer recordCall("balance", time.Now())(&err)
	nanos, _, err = c.rpc.Balance(ctx, address)
	if err != nil {
		return 0, walleterr.Wrap(walleterr.RemoteUnavailable, "balance", err)
	}
	return nanos, nil
}

// TokenBalances returns every non-native coin balance address holds.
func (c *NetworkClient) TokenBalances(ctx context.Context, address domain.Address) (balances []domain.TokenBalance, err error) {
	defer recordCall("get_token_balances", time.Now())(&err)
	items, err := c.rpc.TokenBalances(ctx, address)
	if err != nil {
		return nil, walleterr.Wrap(walleterr.RemoteUnavailable, "get_token_balances", err)
	}
	out := make([]domain.TokenBalance, 0, len(items))
	for _, item := range items {
		out = append(out, domain.TokenBalance{
			CoinType:    item.CoinType,
			AmountNanos: item.Amount,
			Decimals:    item.Decimals,
			Symbol:      item.Symbol,
		})
	}
	return out, nil
}

// GetStakes issues the structured stakes query and extracts each node into
// a StakedIotaSummary per spec.md §4.4's field mapping. Rows missing
// object_id or pool_id are dropped; bad numeric fields fall back to their
// documented defaults rather than aborting the whole query.
func (c *NetworkClient) GetStakes(ctx context.Context, address domain.Address) (stakes []domain.StakedIotaSummary, err error) {
	defer recordCall("get_stakes", time.Now())(&err)
	nodes, err := c.rpc.StakesQuery(ctx, address)
	if err != nil {
		return nil, walleterr.Wrap(walleterr.RemoteUnavailable, "get_stakes", err)
	}

	out := make([]domain.StakedIotaSummary, 0, len(nodes))
	for _, node := range nodes {
		summary, ok := mapStakeNode(node)
		if !ok {
			continue
		}
		out = append(out, summary)
	}
	return out, nil
}

func mapStakeNode(node rpc.StakeQueryNode) (domain.StakedIotaSummary, bool) {
	if node.Address == nil || node.PoolId == nil {
		return domain.StakedIotaSummary{}, false
	}

	summary := domain.StakedIotaSummary{
		ObjectId: domain.ObjectId(*node.Address),
		PoolId:   *node.PoolId,
	}
	if node.Principal != nil {
		if principal, err := strconv.ParseUint(*node.Principal, 10, 64); err == nil {
			summary.Principal = principal
		}
	}
	if node.EstimatedReward != nil {
		if reward, err := strconv.ParseUint(*node.EstimatedReward, 10, 64); err == nil {
			summary.EstimatedReward = &reward
		}
	}
	if node.ActivatedEpochId != nil {
		if epoch, err := strconv.ParseUint(*node.ActivatedEpochId, 10, 64); err == nil {
			summary.StakeActivationEpoch = epoch
		}
	}
	summary.Status = domain.StakeUnstaked
	if node.StakeStatus != nil {
		switch *node.StakeStatus {
		case "Active":
			summary.Status = domain.StakeActive
		case "Pending":
			summary.Status = domain.StakePending
		}
	}
	return summary, true
}

// SendIota builds, dry-runs, signs and executes a single-recipient
// transfer. It returns only after execution resolves; the core never
// retries (spec.md §4.4).
func (c *NetworkClient) SendIota(ctx context.Context, s signer.Signer, sender, recipient domain.Address, amount uint64) (result domain.TransferResult, err error) {
	defer recordCall("send_iota", time.Now())(&err)
	return c.buildSignExecute(ctx, s, rpc.BuildRequest{
		Kind:      rpc.BuildTransfer,
		Sender:    sender,
		Recipient: &recipient,
		Amount:    &amount,
	}, "send_iota")
}

// StakeIota builds, dry-runs, signs and executes a stake transaction.
func (c *NetworkClient) StakeIota(ctx context.Context, s signer.Signer, sender domain.Address, poolId string, amount uint64) (result domain.TransferResult, err error) {
	defer recordCall("stake_iota", time.Now())(&err)
	return c.buildSignExecute(ctx, s, rpc.BuildRequest{
		Kind:   rpc.BuildStake,
		Sender: sender,
		PoolId: &poolId,
		Amount: &amount,
	}, "stake_iota")
}

// UnstakeIota builds, dry-runs, signs and executes an unstake transaction
// for the given staked object.
func (c *NetworkClient) UnstakeIota(ctx context.Context, s signer.Signer, sender domain.Address, objectId domain.ObjectId) (result domain.TransferResult, err error) {
	defer recordCall("unstake_iota", time.Now())(&err)
	return c.buildSignExecute(ctx, s, rpc.BuildRequest{
		Kind:     rpc.BuildUnstake,
		Sender:   sender,
		ObjectId: &objectId,
	}, "unstake_iota")
}

// SweepAll transfers the entire spendable native balance minus fees to
// recipient and reports the amount actually moved.
func (c *NetworkClient) SweepAll(ctx context.Context, s signer.Signer, sender, recipient domain.Address) (result domain.TransferResult, moved uint64, err error) {
	defer recordCall("sweep_all", time.Now())(&err)

	unsigned, err := c.rpc.BuildTransaction(ctx, rpc.BuildRequest{
		Kind:      rpc.BuildSweep,
		Sender:    sender,
		Recipient: &recipient,
	})
	if err != nil {
		return domain.TransferResult{}, 0, walleterr.Wrap(walleterr.RemoteUnavailable, "sweep_all", err)
	}
	execResult, err := c.dryRunSignExecute(ctx, s, unsigned, "sweep_all")
	if err != nil {
		return domain.TransferResult{}, 0, err
	}
	if execResult.MovedAmount != nil {
		moved = *execResult.MovedAmount
	}
	return domain.TransferResult{Digest: execResult.Digest, Status: execResult.Status}, moved, nil
}

func (c *NetworkClient) buildSignExecute(ctx context.Context, s signer.Signer, req rpc.BuildRequest, op string) (domain.TransferResult, error) {
	unsigned, err := c.rpc.BuildTransaction(ctx, req)
	if err != nil {
		return domain.TransferResult{}, walleterr.Wrap(walleterr.RemoteUnavailable, op, err)
	}
	execResult, err := c.dryRunSignExecute(ctx, s, unsigned, op)
	if err != nil {
		return domain.TransferResult{}, err
	}
	return domain.TransferResult{Digest: execResult.Digest, Status: execResult.Status}, nil
}

func (c *NetworkClient) dryRunSignExecute(ctx context.Context, s signer.Signer, unsigned rpc.UnsignedTx, op string) (rpc.ExecuteResult, error) {
	callID := uuid.NewString()
	log := c.log.WithFields(logrus.Fields{"op": op, "call_id": callID})

	dryRun, err := c.rpc.DryRun(ctx, unsigned)
	if err != nil {
		return rpc.ExecuteResult{}, walleterr.Wrap(walleterr.RemoteUnavailable, op, err)
	}
	if dryRun.Error != nil {
		log.WithField("reason", *dryRun.Error).Debug("dry run rejected transaction")
		return rpc.ExecuteResult{}, walleterr.New(walleterr.RemoteRejected, op, fmt.Sprintf("Transaction would fail: %s", *dryRun.Error))
	}

	userSig, err := s.SignTransaction(signer.Transaction{SigningPayload: unsigned.SigningPayload})
	if err != nil {
		return rpc.ExecuteResult{}, walleterr.Wrap(walleterr.Signing, op, err)
	}

	execResult, err := c.rpc.Execute(ctx, unsigned, rpc.Signature{Bytes: userSig.Signature, PublicKey: userSig.PublicKey})
	if err != nil {
		return rpc.ExecuteResult{}, walleterr.Wrap(walleterr.RemoteUnavailable, op, err)
	}
	log.WithField("digest", execResult.Digest).Debug("transaction executed")
	return execResult, nil
}

// Faucet requests test funds for address. Mainnet and Custom networks
// reject the call before any network I/O (spec.md §6.5).
func (c *NetworkClient) Faucet(ctx context.Context, address domain.Address) (err error) {
	defer recordCall("faucet", time.Now())(&err)

	switch c.config.Id.Kind {
	case domain.Mainnet:
		return walleterr.New(walleterr.Config, "faucet", "Faucet is not available on mainnet")
	case domain.Custom:
		return walleterr.New(walleterr.Config, "faucet", "Faucet is not available for custom networks. Use --testnet or --devnet.")
	}

	if !c.faucetLimits.Allow(string(address)) {
		return walleterr.New(walleterr.Input, "faucet", fmt.Sprintf("Faucet rate limit exceeded for %s; try again later", address))
	}

	if err := c.rpc.Faucet(ctx, address); err != nil {
		return walleterr.Wrap(walleterr.RemoteUnavailable, "faucet", err)
	}
	return nil
}

// TransactionDetails fetches one transaction by digest.
func (c *NetworkClient) TransactionDetails(ctx context.Context, digest domain.Digest) (details domain.TransactionDetailsSummary, err error) {
	defer recordCall("transaction_details", time.Now())(&err)

	resp, err := c.rpc.TransactionDetails(ctx, digest)
	if err != nil {
		return domain.TransactionDetailsSummary{}, walleterr.Wrap(walleterr.RemoteUnavailable, "transaction_details", err)
	}
	if !resp.Found {
		return domain.TransactionDetailsSummary{}, walleterr.New(walleterr.NotFound, "transaction_details", fmt.Sprintf("Transaction not found: %s", digest))
	}

	summary := domain.TransactionDetailsSummary{
		Digest:    digest,
		Status:    resp.Status,
		Sender:    resp.Sender,
		Recipient: resp.Recipient,
		Amount:    resp.Amount,
	}
	if resp.NetGasUsed != nil && *resp.NetGasUsed > 0 {
		fee := uint64(*resp.NetGasUsed)
		summary.Fee = &fee
	}
	return summary, nil
}

// Status reports node reachability and the current epoch.
func (c *NetworkClient) Status(ctx context.Context) (status domain.NetworkStatus, err error) {
	defer recordCall("status", time.Now())(&err)
	status, err = c.rpc.Status(ctx)
	if err != nil {
		return domain.NetworkStatus{Reachable: false}, walleterr.Wrap(walleterr.RemoteUnavailable, "status", err)
	}
	return status, nil
}

// Epoch returns the node's current epoch, used by the history subsystem to
// bridge a sync window.
func (c *NetworkClient) Epoch(ctx context.Context) (epoch uint64, err error) {
	defer recordCall("epoch", time.Now())(&err)
	epoch, err = c.rpc.Epoch(ctx)
	if err != nil {
		return 0, walleterr.Wrap(walleterr.RemoteUnavailable, "epoch", err)
	}
	return epoch, nil
}

// TransactionsPage forwards a single page request to the underlying rpc
// client; the history subsystem builds filters and pagination on top of
// this.
func (c *NetworkClient) TransactionsPage(ctx context.Context, filter rpc.TxQueryFilter, page rpc.PageRequest) (rpc.Page, error) {
	result, err := c.rpc.TransactionsPage(ctx, filter, page)
	if err != nil {
		return rpc.Page{}, walleterr.Wrap(walleterr.RemoteUnavailable, "transactions_page", err)
	}
	return result, nil
}

// NetworkName returns the cache-partitioning name of the bound network.
func (c *NetworkClient) NetworkName() string {
	return c.config.Name()
}
