package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-tools/walletcore/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wallet-cache.db")
	store, err := Open(DefaultConfig(path))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_GetSyncEpoch_DefaultsToZero(t *testing.T) {
	store := openTestStore(t)
	epoch, err := store.GetSyncEpoch(context.Background(), "testnet", "0xabc")
	require.NoError(t, err)
	require.Equal(t, uint64(0), epoch)
}

func TestStore_CommitSync_PersistsSummariesAndCursor(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	amount := uint64(5_000_000_000)
	sent := []domain.TransactionSummary{
		{Digest: "D1", Kind: "transfer", Epoch: 5, LamportVersion: 2, Amount: &amount},
	}
	recv := []domain.TransactionSummary{
		{Digest: "D2", Kind: "transfer", Epoch: 4, LamportVersion: 0},
	}

	require.NoError(t, store.CommitSync(ctx, "testnet", "0xabc", sent, recv, 6))

	epoch, err := store.GetSyncEpoch(ctx, "testnet", "0xabc")
	require.NoError(t, err)
	require.Equal(t, uint64(6), epoch)

	known, err := store.KnownDigests(ctx, "testnet", "0xabc")
	require.NoError(t, err)
	require.Len(t, known, 2)
	require.True(t, known["D1"])
	require.True(t, known["D2"])

	summaries, err := store.List(ctx, "testnet", "0xabc")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
}

func TestStore_CommitSync_IsIdempotentOnReplay(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	sent := []domain.TransactionSummary{{Digest: "D1", Kind: "transfer", Epoch: 5, LamportVersion: 2}}
	require.NoError(t, store.CommitSync(ctx, "testnet", "0xabc", sent, nil, 6))
	require.NoError(t, store.CommitSync(ctx, "testnet", "0xabc", sent, nil, 7))

	known, err := store.KnownDigests(ctx, "testnet", "0xabc")
	require.NoError(t, err)
	require.Len(t, known, 1)

	epoch, err := store.GetSyncEpoch(ctx, "testnet", "0xabc")
	require.NoError(t, err)
	require.Equal(t, uint64(7), epoch)
}

func TestStore_ScopesByNetworkAndAddress(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CommitSync(ctx, "testnet", "0xabc", []domain.TransactionSummary{{Digest: "D1"}}, nil, 1))
	require.NoError(t, store.CommitSync(ctx, "mainnet", "0xabc", []domain.TransactionSummary{{Digest: "D2"}}, nil, 9))

	known, err := store.KnownDigests(ctx, "testnet", "0xabc")
	require.NoError(t, err)
	require.Len(t, known, 1)
	require.True(t, known["D1"])
}

func TestStore_Clear_RemovesSummariesAndCursor(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CommitSync(ctx, "testnet", "0xabc", []domain.TransactionSummary{{Digest: "D1"}}, nil, 4))
	require.NoError(t, store.Clear(ctx, "testnet", "0xabc"))

	known, err := store.KnownDigests(ctx, "testnet", "0xabc")
	require.NoError(t, err)
	require.Empty(t, known)

	epoch, err := store.GetSyncEpoch(ctx, "testnet", "0xabc")
	require.NoError(t, err)
	require.Equal(t, uint64(0), epoch)
}

func TestStore_CommitSync_SelfTransferKeepsSentDirection(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	sentOut := domain.DirectionOut
	recvIn := domain.DirectionIn
	sent := []domain.TransactionSummary{
		{Digest: "D1", Kind: "transfer", Epoch: 5, Direction: &sentOut},
	}
	recv := []domain.TransactionSummary{
		{Digest: "D1", Kind: "transfer", Epoch: 5, Direction: &recvIn},
	}

	require.NoError(t, store.CommitSync(ctx, "testnet", "0xabc", sent, recv, 6))

	summaries, err := store.List(ctx, "testnet", "0xabc")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, domain.DirectionOut, *summaries[0].Direction)
}

func TestStore_CommitSync_PriorSentDigestSurvivesLaterRecvSync(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	sentOut := domain.DirectionOut
	recvIn := domain.DirectionIn
	sent := []domain.TransactionSummary{{Digest: "D1", Kind: "transfer", Epoch: 5, Direction: &sentOut}}
	require.NoError(t, store.CommitSync(ctx, "testnet", "0xabc", sent, nil, 6))

	// A later sync round re-observes the same digest on the recv side (the
	// feed lagged); sent's direction must still win.
	recv := []domain.TransactionSummary{{Digest: "D1", Kind: "transfer", Epoch: 5, Direction: &recvIn}}
	require.NoError(t, store.CommitSync(ctx, "testnet", "0xabc", nil, recv, 7))

	summaries, err := store.List(ctx, "testnet", "0xabc")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, domain.DirectionOut, *summaries[0].Direction)
}
