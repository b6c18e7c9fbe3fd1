package walletservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-tools/walletcore/internal/domain"
	"github.com/iota-tools/walletcore/internal/history"
	"github.com/iota-tools/walletcore/internal/rpc"
	"github.com/iota-tools/walletcore/internal/signer"
)

type fakeNetworkClient struct {
	balance       uint64
	balanceAddr   domain.Address
	sendResult    domain.TransferResult
	sendRecipient domain.Address
	sendAmount    uint64
	sendSigner    domain.Address
	faucetAddr    domain.Address
}

func (f *fakeNetworkClient) Balance(ctx context.Context, address domain.Address) (uint64, error) {
	f.balanceAddr = address
	return f.balance, nil
}

func (f *fakeNetworkClient) TokenBalances(ctx context.Context, address domain.Address) ([]domain.TokenBalance, error) {
	return nil, nil
}

func (f *fakeNetworkClient) GetStakes(ctx context.Context, address domain.Address) ([]domain.StakedIotaSummary, error) {
	return nil, nil
}

func (f *fakeNetworkClient) SendIota(ctx context.Context, s signer.Signer, sender, recipient domain.Address, amount uint64) (domain.TransferResult, error) {
	f.sendSigner = sender
	f.sendRecipient = recipient
	f.sendAmount = amount
	return f.sendResult, nil
}

func (f *fakeNetworkClient) StakeIota(ctx context.Context, s signer.Signer, sender domain.Address, poolId string, amount uint64) (domain.TransferResult, error) {
	return domain.TransferResult{}, nil
}

func (f *fakeNetworkClient) UnstakeIota(ctx context.Context, s signer.Signer, sender domain.Address, objectId domain.ObjectId) (domain.TransferResult, error) {
	return domain.TransferResult{}, nil
}

func (f *fakeNetworkClient) SweepAll(ctx context.Context, s signer.Signer, sender, recipient domain.Address) (domain.TransferResult, uint64, error) {
	return domain.TransferResult{}, 0, nil
}

func (f *fakeNetworkClient) Faucet(ctx context.Context, address domain.Address) error {
	f.faucetAddr = address
	return nil
}

func (f *fakeNetworkClient) TransactionDetails(ctx context.Context, digest domain.Digest) (domain.TransactionDetailsSummary, error) {
	return domain.TransactionDetailsSummary{}, nil
}

func (f *fakeNetworkClient) Status(ctx context.Context) (domain.NetworkStatus, error) {
	return domain.NetworkStatus{}, nil
}

func (f *fakeNetworkClient) Epoch(ctx context.Context) (uint64, error) {
	return 0, nil
}

func (f *fakeNetworkClient) TransactionsPage(ctx context.Context, filter rpc.TxQueryFilter, page rpc.PageRequest) (rpc.Page, error) {
	return rpc.Page{}, nil
}

func (f *fakeNetworkClient) NetworkName() string {
	return "testnet"
}

func newTestSigner(t *testing.T) *signer.SoftwareSigner {
	t.Helper()
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	s, err := signer.NewSoftwareSignerFromSeed(seed)
	require.NoError(t, err)
	return s
}

func noopCacheOpener() (history.CacheStore, error) {
	return nil, nil
}

func TestService_Balance_UsesSignerAddress(t *testing.T) {
	network := &fakeNetworkClient{balance: 42}
	s := newTestSigner(t)
	svc := New(network, s, noopCacheOpener)

	balance, err := svc.Balance(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(42), balance)
	require.Equal(t, s.Address(), network.balanceAddr)
}

func TestService_Send_ForwardsSignerAndArgs(t *testing.T) {
	network := &fakeNetworkClient{sendResult: domain.TransferResult{Digest: "D1", Status: "success"}}
	s := newTestSigner(t)
	svc := New(network, s, noopCacheOpener)

	result, err := svc.Send(context.Background(), "0xrecipient", 1_000_000_000)
	require.NoError(t, err)
	require.Equal(t, domain.Digest("D1"), result.Digest)
	require.Equal(t, s.Address(), network.sendSigner)
	require.Equal(t, domain.Address("0xrecipient"), network.sendRecipient)
	require.Equal(t, uint64(1_000_000_000), network.sendAmount)
}

func TestService_Address_MatchesSigner(t *testing.T) {
	network := &fakeNetworkClient{}
	s := newTestSigner(t)
	svc := New(network, s, noopCacheOpener)

	require.Equal(t, s.Address(), svc.Address())
}

func TestService_Faucet_UsesSignerAddress(t *testing.T) {
	network := &fakeNetworkClient{}
	s := newTestSigner(t)
	svc := New(network, s, noopCacheOpener)

	require.NoError(t, svc.Faucet(context.Background()))
	require.Equal(t, s.Address(), network.faucetAddr)
}
