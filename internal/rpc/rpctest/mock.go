// Package rpctest provides a testify/mock-based fake of rpc.Client for
// exercising walletnet and history without a real node.
package rpctest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/iota-tools/walletcore/internal/domain"
	"github.com/iota-tools/walletcore/internal/rpc"
)

// MockClient is a mock implementation of rpc.Client.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Balance(ctx context.Context, address domain.Address) (uint64, bool, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(uint64), args.Bool(1), args.Error(2)
}

func (m *MockClient) TokenBalances(ctx context.Context, address domain.Address) ([]rpc.TokenBalanceItem, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rpc.TokenBalanceItem), args.Error(1)
}

func (m *MockClient) Epoch(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockClient) StakesQuery(ctx context.Context, address domain.Address) ([]rpc.StakeQueryNode, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rpc.StakeQueryNode), args.Error(1)
}

func (m *MockClient) TransactionsPage(ctx context.Context, filter rpc.TxQueryFilter, page rpc.PageRequest) (rpc.Page, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).(rpc.Page), args.Error(1)
}

func (m *MockClient) TransactionDetails(ctx context.Context, digest domain.Digest) (rpc.TxDetails, error) {
	args := m.Called(ctx, digest)
	return args.Get(0).(rpc.TxDetails), args.Error(1)
}

func (m *MockClient) BuildTransaction(ctx context.Context, req rpc.BuildRequest) (rpc.UnsignedTx, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(rpc.UnsignedTx), args.Error(1)
}

func (m *MockClient) DryRun(ctx context.Context, tx rpc.UnsignedTx) (rpc.DryRunResult, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(rpc.DryRunResult), args.Error(1)
}

func (m *MockClient) Execute(ctx context.Context, tx rpc.UnsignedTx, sig rpc.Signature) (rpc.ExecuteResult, error) {
	args := m.Called(ctx, tx, sig)
	return args.Get(0).(rpc.ExecuteResult), args.Error(1)
}

func (m *MockClient) Faucet(ctx context.Context, address domain.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *MockClient) Status(ctx context.Context) (domain.NetworkStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.NetworkStatus), args.Error(1)
}

var _ rpc.Client = (*MockClient)(nil)
