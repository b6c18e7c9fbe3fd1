// Package walletservice is the small facade spec.md §4.6 describes: one
// handle binding a network client, a signer, and a network name, exposing
// one method per user-level wallet operation.
package walletservice

import (
	"context"

	"github.com/iota-tools/walletcore/internal/domain"
	"github.com/iota-tools/walletcore/internal/history"
	"github.com/iota-tools/walletcore/internal/rpc"
	"github.com/iota-tools/walletcore/internal/signer"
)

// NetworkClient is the subset of walletnet.NetworkClient the service
// forwards to.
type NetworkClient interface {
	Balance(ctx context.Context, address domain.Address) (uint64, error)
	TokenBalances(ctx context.Context, address domain.Address) ([]domain.TokenBalance, error)
	GetStakes(ctx context.Context, address domain.Address) ([]domain.StakedIotaSummary, error)
	SendIota(ctx context.Context, s signer.Signer, sender, recipient domain.Address, amount uint64) (domain.TransferResult, error)
	StakeIota(ctx context.Context, s signer.Signer, sender domain.Address, poolId string, amount uint64) (domain.TransferResult, error)
	UnstakeIota(ctx context.Context, s signer.Signer, sender domain.Address, objectId domain.ObjectId) (domain.TransferResult, error)
	SweepAll(ctx context.Context, s signer.Signer, sender, recipient domain.Address) (domain.TransferResult, uint64, error)
	Faucet(ctx context.Context, address domain.Address) error
	TransactionDetails(ctx context.Context, digest domain.Digest) (domain.TransactionDetailsSummary, error)
	Status(ctx context.Context) (domain.NetworkStatus, error)
	Epoch(ctx context.Context) (uint64, error)
	TransactionsPage(ctx context.Context, filter rpc.TxQueryFilter, page rpc.PageRequest) (rpc.Page, error)
	NetworkName() string
}

// Service binds a network client, a signer and a network name into a
// single handle. The signer is shared so the same one may be observed by
// multiple concurrent operations; the network client is owned uniquely by
// the Service.
type Service struct {
	network NetworkClient
	signer  signer.Signer
	history *history.History
}

// New builds a Service. openCache is invoked once per history sync phase;
// it must return a fresh cache handle each call (spec.md §9).
func New(network NetworkClient, s signer.Signer, openCache func() (history.CacheStore, error)) *Service {
	return &Service{
		network: network,
		signer:  s,
		history: history.New(network, openCache, network.NetworkName()),
	}
}

// Address returns the address the bound signer controls.
func (s *Service) Address() domain.Address {
	return s.signer.Address()
}

// Balance returns the bound signer's address's nano balance.
func (s *Service) Balance(ctx context.Context) (uint64, error) {
	return s.network.Balance(ctx, s.signer.Address())
}

// TokenBalances returns the bound signer's non-native coin balances.
func (s *Service) TokenBalances(ctx context.Context) ([]domain.TokenBalance, error) {
	return s.network.TokenBalances(ctx, s.signer.Address())
}

// GetStakes returns the bound signer's staked objects.
func (s *Service) GetStakes(ctx context.Context) ([]domain.StakedIotaSummary, error) {
	return s.network.GetStakes(ctx, s.signer.Address())
}

// Send transfers amount nanos to recipient from the bound signer's address.
func (s *Service) Send(ctx context.Context, recipient domain.Address, amount uint64) (domain.TransferResult, error) {
	return s.network.SendIota(ctx, s.signer, s.signer.Address(), recipient, amount)
}

// Stake stakes amount nanos into poolId from the bound signer's address.
func (s *Service) Stake(ctx context.Context, poolId string, amount uint64) (domain.TransferResult, error) {
	return s.network.StakeIota(ctx, s.signer, s.signer.Address(), poolId, amount)
}

// Unstake unstakes the given staked object.
func (s *Service) Unstake(ctx context.Context, objectId domain.ObjectId) (domain.TransferResult, error) {
	return s.network.UnstakeIota(ctx, s.signer, s.signer.Address(), objectId)
}

// SweepAll transfers the bound signer's entire spendable balance to
// recipient, returning the amount actually moved.
func (s *Service) SweepAll(ctx context.Context, recipient domain.Address) (domain.TransferResult, uint64, error) {
	return s.network.SweepAll(ctx, s.signer, s.signer.Address(), recipient)
}

// Faucet requests test funds for the bound signer's address.
func (s *Service) Faucet(ctx context.Context) error {
	return s.network.Faucet(ctx, s.signer.Address())
}

// TransactionDetails fetches one transaction by digest.
func (s *Service) TransactionDetails(ctx context.Context, digest domain.Digest) (domain.TransactionDetailsSummary, error) {
	return s.network.TransactionDetails(ctx, digest)
}

// Status reports node reachability and the current epoch.
func (s *Service) Status(ctx context.Context) (domain.NetworkStatus, error) {
	return s.network.Status(ctx)
}

// Transactions returns the merged, filtered live history for the bound
// signer's address.
func (s *Service) Transactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.TransactionSummary, error) {
	return s.history.Transactions(ctx, s.signer.Address(), filter)
}

// SyncTransactions bridges the local cache against the remote feed for the
// bound signer's address.
func (s *Service) SyncTransactions(ctx context.Context, lookbackEpochs uint64) error {
	return s.history.SyncTransactions(ctx, s.signer.Address(), lookbackEpochs)
}
