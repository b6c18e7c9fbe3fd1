// Package domain holds the wire-independent value types shared by the
// network client, the transaction cache, and the history subsystem
// (spec.md §3). None of these types know how to talk to a node; they are
// the vocabulary the rest of the core passes around.
package domain

import (
	"fmt"
	"strings"

	"github.com/iota-tools/walletcore/internal/walleterr"
)

// Address is a 32-byte on-chain identifier rendered as a lowercase
// 0x-prefixed hex string of fixed width.
type Address string

// Digest is an opaque transaction identifier; equality is by string.
type Digest string

// ObjectId is an opaque reference to an on-chain object (used for stakes).
type ObjectId string

// NetworkKind is the closed set of named networks plus a Custom escape
// hatch for an arbitrary URL.
type NetworkKind int

const (
	Mainnet NetworkKind = iota
	Testnet
	Devnet
	Custom
)

func (k NetworkKind) String() string {
	switch k {
	case Mainnet:
		return "mainnet"
	case Testnet:
		return "testnet"
	case Devnet:
		return "devnet"
	case Custom:
		return "custom"
	default:
		return "unknown"
	}
}

// NetworkId names a network; the textual Name() participates in cache
// partitioning (spec.md §3), so Custom networks must still resolve to a
// stable, distinct name (its URL).
type NetworkId struct {
	Kind NetworkKind
	URL  string // only meaningful when Kind == Custom
}

// Name returns the textual network name used to partition the cache.
func (n NetworkId) Name() string {
	if n.Kind == Custom {
		return n.URL
	}
	return n.Kind.String()
}

// TransactionDirection is attributed by the history layer; it is never
// returned directly by the remote feed.
type TransactionDirection int

const (
	DirectionIn TransactionDirection = iota
	DirectionOut
)

func (d TransactionDirection) String() string {
	if d == DirectionOut {
		return "out"
	}
	return "in"
}

// TransferResult is the outcome of any write operation (send, stake,
// unstake, sweep): a digest and a debug-rendered execution status.
type TransferResult struct {
	Digest Digest
	Status string
}

// TransactionSummary is the row stored in the cache and returned in history
// listings. Optional fields are nil/zero when the remote feed didn't supply
// them (spec.md's Open Question on timestamp/sender/amount availability).
type TransactionSummary struct {
	Digest        Digest
	Kind          string // as reported by the remote feed; "unknown" when absent
	Epoch         uint64
	LamportVersion uint64
	Timestamp     *int64 // unix millis, when the feed supplies one
	Sender        *Address
	Amount        *uint64
	Direction     *TransactionDirection
}

// TransactionDetailsSummary is the richer view returned by a single-digest
// lookup.
type TransactionDetailsSummary struct {
	Digest    Digest
	Status    string
	Sender    Address
	Recipient *Address
	Amount    *uint64
	Fee       *uint64
}

// StakeStatus is the normalized status of a staked object.
type StakeStatus int

const (
	StakeActive StakeStatus = iota
	StakePending
	StakeUnstaked
)

func (s StakeStatus) String() string {
	switch s {
	case StakeActive:
		return "active"
	case StakePending:
		return "pending"
	default:
		return "unstaked"
	}
}

// StakedIotaSummary describes one staked object owned by an address.
type StakedIotaSummary struct {
	ObjectId             ObjectId
	PoolId               string
	Principal            uint64
	StakeActivationEpoch uint64
	EstimatedReward      *uint64
	Status               StakeStatus
}

// TokenBalance describes a non-native coin balance.
type TokenBalance struct {
	CoinType     string
	AmountNanos  uint64
	Decimals     *uint32
	Symbol       *string
}

// TransactionFilter selects a subset of a merged history by direction.
type TransactionFilter int

const (
	FilterAll TransactionFilter = iota
	FilterIn
	FilterOut
)

// NetworkStatus summarizes node reachability and the current epoch.
type NetworkStatus struct {
	Reachable    bool
	CurrentEpoch uint64
}

// ParseFilter accepts "in", "out", "all" case-insensitively (spec.md §6.3);
// an empty string defaults to FilterAll. Anything else is rejected with the
// documented message so a shell front-end can surface it verbatim.
func ParseFilter(v string) (TransactionFilter, error) {
	switch strings.ToLower(v) {
	case "":
		return FilterAll, nil
	case "all":
		return FilterAll, nil
	case "in":
		return FilterIn, nil
	case "out":
		return FilterOut, nil
	default:
		return 0, walleterr.New(walleterr.Input, "parse_filter", fmt.Sprintf("Unknown transaction filter: '%s'. Use 'in', 'out', or 'all'.", v))
	}
}
