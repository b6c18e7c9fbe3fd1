package rpc

import (
	"context"

	"github.com/iota-tools/walletcore/internal/domain"
)

// PageDirection selects which end of a feed to read from. Backward
// pagination (spec.md §4.5) returns the most recent items first.
type PageDirection int

const (
	Backward PageDirection = iota
	Forward
)

// PageRequest describes one page of a cursor-based feed.
type PageRequest struct {
	Cursor    *string
	Limit     int
	Direction PageDirection
}

// TxFilterKind is the remote feed's one-sided filter: it can select by
// sender OR by recipient, never both (spec.md §4.5).
type TxFilterKind int

const (
	BySignAddress TxFilterKind = iota
	ByRecvAddress
)

// TxQueryFilter is one side of a transactions query.
type TxQueryFilter struct {
	Kind    TxFilterKind
	Address domain.Address
}

// EffectsItem is one item out of a transactions feed page: a transaction
// body plus the slice of its effects the wallet core needs.
type EffectsItem struct {
	Digest         domain.Digest
	Kind           string // remote command/programmable-tx shape, if exposed
	Epoch          uint64
	LamportVersion uint64
	Timestamp      *int64
	Sender         *domain.Address
	Recipient      *domain.Address
	Amount         *uint64
}

// Page is one page of a backward-paginated transactions feed.
type Page struct {
	Items           []EffectsItem
	HasPreviousPage bool
	StartCursor     *string
}

// BuildKind selects which transaction shape to construct.
type BuildKind int

const (
	BuildTransfer BuildKind = iota
	BuildStake
	BuildUnstake
	BuildSweep
)

// BuildRequest describes the transaction BuildTransaction should construct.
type BuildRequest struct {
	Kind      BuildKind
	Sender    domain.Address
	Recipient *domain.Address // transfer, sweep
	Amount    *uint64         // transfer, stake
	PoolId    *string         // stake
	ObjectId  *domain.ObjectId // unstake
}

// UnsignedTx is an opaque, node-specific built transaction, plus the bytes
// the signer must sign over.
type UnsignedTx struct {
	SigningPayload []byte
	Raw            []byte
}

// DryRunResult reports whether a simulated execution would fail.
type DryRunResult struct {
	Error *string
}

// Signature is the signed-envelope piece the network client hands back to
// the node for execution.
type Signature struct {
	Bytes     []byte
	PublicKey []byte
}

// ExecuteResult is what the node reports after executing a signed
// transaction.
type ExecuteResult struct {
	Digest      domain.Digest
	Status      string
	MovedAmount *uint64 // populated for sweep: amount actually moved
}

// StakeQueryNode is one raw row of the structured stakes query (spec.md
// §4.4): field names mirror the remote schema so Client implementations can
// decode directly into it.
type StakeQueryNode struct {
	Address          *string // object_id, hex
	PoolId           *string // hex
	Principal        *string // decimal string
	EstimatedReward  *string // decimal string
	ActivatedEpochId *string
	StakeStatus      *string
}

// TokenBalanceItem is one non-native coin balance.
type TokenBalanceItem struct {
	CoinType string
	Amount   uint64
	Decimals *uint32
	Symbol   *string
}

// TxDetails is the raw shape a transaction-by-digest lookup returns.
type TxDetails struct {
	Found     bool
	Status    string
	Sender    domain.Address
	Recipient *domain.Address
	Amount    *uint64
	// NetGasUsed is gas used minus gas rebated; fee is this value when
	// positive (spec.md §4.4).
	NetGasUsed *int64
}

// Client is the set of operations the network client (spec.md §4.4)
// requires from any node transport: balance, token balances, epoch, a
// two-sided transactions feed, transaction-by-digest, transaction
// building, dry-run, execute, a structured query endpoint (used for
// stakes), faucet, and a reachability/epoch status check. The core treats every error this
// interface returns as opaque and chains its own context string onto it.
type Client interface {
	Balance(ctx context.Context, address domain.Address) (nanos uint64, hasRecord bool, err error)
	TokenBalances(ctx context.Context, address domain.Address) ([]TokenBalanceItem, error)
	Epoch(ctx context.Context) (uint64, error)
	StakesQuery(ctx context.Context, address domain.Address) ([]StakeQueryNode, error)
	TransactionsPage(ctx context.Context, filter TxQueryFilter, page PageRequest) (Page, error)
	TransactionDetails(ctx context.Context, digest domain.Digest) (TxDetails, error)
	BuildTransaction(ctx context.Context, req BuildRequest) (UnsignedTx, error)
	DryRun(ctx context.Context, tx UnsignedTx) (DryRunResult, error)
	Execute(ctx context.Context, tx UnsignedTx, sig Signature) (ExecuteResult, error)
	Faucet(ctx context.Context, address domain.Address) error
	Status(ctx context.Context) (domain.NetworkStatus, error)
}
