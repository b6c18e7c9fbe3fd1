package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-tools/walletcore/internal/domain"
	"github.com/iota-tools/walletcore/internal/rpc"
)

// fakeNetwork is a hand-rolled stand-in for NetworkReader: the page
// sequence per filter side is fixed in advance, mirroring the simple
// in-memory fakes the teacher's own storage tests use instead of a mock
// framework for straightforward call/response sequences.
type fakeNetwork struct {
	epoch     uint64
	epochErr  error
	sentPages []rpc.Page
	recvPages []rpc.Page
	sentCalls int
	recvCalls int
}

func (f *fakeNetwork) Epoch(ctx context.Context) (uint64, error) {
	return f.epoch, f.epochErr
}

func (f *fakeNetwork) TransactionsPage(ctx context.Context, filter rpc.TxQueryFilter, page rpc.PageRequest) (rpc.Page, error) {
	switch filter.Kind {
	case rpc.BySignAddress:
		p := f.sentPages[f.sentCalls]
		f.sentCalls++
		return p, nil
	default:
		p := f.recvPages[f.recvCalls]
		f.recvCalls++
		return p, nil
	}
}

type fakeCacheStore struct {
	known        map[domain.Digest]bool
	syncEpoch    uint64
	committed    bool
	committedSent []domain.TransactionSummary
	committedRecv []domain.TransactionSummary
	committedEpoch uint64
}

func (f *fakeCacheStore) KnownDigests(ctx context.Context, network, address string) (map[domain.Digest]bool, error) {
	return f.known, nil
}

func (f *fakeCacheStore) GetSyncEpoch(ctx context.Context, network, address string) (uint64, error) {
	return f.syncEpoch, nil
}

func (f *fakeCacheStore) CommitSync(ctx context.Context, network, address string, sent, recv []domain.TransactionSummary, currentEpoch uint64) error {
	f.committed = true
	f.committedSent = sent
	f.committedRecv = recv
	f.committedEpoch = currentEpoch
	return nil
}

func (f *fakeCacheStore) Close() error { return nil }

func TestSyncMinEpoch_TableVectors(t *testing.T) {
	cases := []struct {
		c, l, s, want uint64
	}{
		{100, 7, 0, 93},
		{3, 7, 0, 0},
		{15, 7, 14, 8},
		{14, 7, 3, 3},
		{100, 7, 3, 3},
		{101, 30, 100, 71},
		{100, 7, 93, 93},
	}
	for _, tc := range cases {
		got := SyncMinEpoch(tc.c, tc.l, tc.s)
		require.Equal(t, tc.want, got, "SyncMinEpoch(%d, %d, %d)", tc.c, tc.l, tc.s)
	}
}

func TestMergeSentWins_SpecExample(t *testing.T) {
	sent := []domain.TransactionSummary{
		{Digest: "D1", Epoch: 5, LamportVersion: 2},
		{Digest: "D2", Epoch: 4, LamportVersion: 0},
	}
	recv := []domain.TransactionSummary{
		{Digest: "D2", Epoch: 4, LamportVersion: 0},
		{Digest: "D3", Epoch: 5, LamportVersion: 1},
	}
	sentOut := domain.DirectionOut
	recvIn := domain.DirectionIn
	for i := range sent {
		sent[i].Direction = &sentOut
	}
	for i := range recv {
		recv[i].Direction = &recvIn
	}

	merged := mergeSentWins(sent, recv)
	sortDescending(merged)

	require.Len(t, merged, 3)
	require.Equal(t, domain.Digest("D1"), merged[0].Digest)
	require.Equal(t, domain.DirectionOut, *merged[0].Direction)
	require.Equal(t, domain.Digest("D3"), merged[1].Digest)
	require.Equal(t, domain.DirectionIn, *merged[1].Direction)
	require.Equal(t, domain.Digest("D2"), merged[2].Digest)
	require.Equal(t, domain.DirectionOut, *merged[2].Direction) // sent wins on collision
}

func TestTransactions_MergesSortsAndFilters(t *testing.T) {
	sentPage := rpc.Page{Items: []rpc.EffectsItem{
		{Digest: "D1", Epoch: 5, LamportVersion: 2},
		{Digest: "D2", Epoch: 4, LamportVersion: 0},
	}}
	recvPage := rpc.Page{Items: []rpc.EffectsItem{
		{Digest: "D2", Epoch: 4, LamportVersion: 0},
		{Digest: "D3", Epoch: 5, LamportVersion: 1},
	}}
	// Transactions is called three times below, reading one page per side
	// each time.
	network := &fakeNetwork{
		sentPages: []rpc.Page{sentPage, sentPage, sentPage},
		recvPages: []rpc.Page{recvPage, recvPage, recvPage},
	}
	h := New(network, nil, "testnet")

	all, err := h.Transactions(context.Background(), "0xabc", domain.FilterAll)
	require.NoError(t, err)
	require.Equal(t, []domain.Digest{"D1", "D3", "D2"}, digestsOf(all))

	out, err := h.Transactions(context.Background(), "0xabc", domain.FilterOut)
	require.NoError(t, err)
	require.Equal(t, []domain.Digest{"D1", "D2"}, digestsOf(out))

	in, err := h.Transactions(context.Background(), "0xabc", domain.FilterIn)
	require.NoError(t, err)
	require.Equal(t, []domain.Digest{"D3"}, digestsOf(in))
}

func digestsOf(summaries []domain.TransactionSummary) []domain.Digest {
	out := make([]domain.Digest, len(summaries))
	for i, s := range summaries {
		out[i] = s.Digest
	}
	return out
}

func TestSyncTransactions_BridgesAndCommitsAtomically(t *testing.T) {
	network := &fakeNetwork{
		epoch: 10,
		sentPages: []rpc.Page{{Items: []rpc.EffectsItem{
			{Digest: "D1", Epoch: 9, LamportVersion: 0},
			{Digest: "D2", Epoch: 1, LamportVersion: 0}, // below min_epoch, boundary
		}, HasPreviousPage: true, StartCursor: strPtr("cursor-1")}},
		recvPages: []rpc.Page{{Items: []rpc.EffectsItem{
			{Digest: "D3", Epoch: 8, LamportVersion: 0},
		}, HasPreviousPage: false}},
	}
	store := &fakeCacheStore{known: map[domain.Digest]bool{}, syncEpoch: 0}

	h := New(network, func() (CacheStore, error) { return store, nil }, "testnet")

	err := h.SyncTransactions(context.Background(), "0xabc", 7)
	require.NoError(t, err)

	require.True(t, store.committed)
	require.Equal(t, uint64(10), store.committedEpoch)
	require.Len(t, store.committedSent, 1)
	require.Equal(t, domain.Digest("D1"), store.committedSent[0].Digest)
	require.Len(t, store.committedRecv, 1)
	require.Equal(t, domain.Digest("D3"), store.committedRecv[0].Digest)
}

func TestSyncTransactions_SkipsKnownDigestsWithoutStopping(t *testing.T) {
	network := &fakeNetwork{
		epoch: 10,
		sentPages: []rpc.Page{{Items: []rpc.EffectsItem{
			{Digest: "D1", Epoch: 9, LamportVersion: 0}, // already known
			{Digest: "D4", Epoch: 6, LamportVersion: 0}, // new, still above boundary
		}, HasPreviousPage: false}},
		recvPages: []rpc.Page{{Items: []rpc.EffectsItem{}, HasPreviousPage: false}},
	}
	store := &fakeCacheStore{known: map[domain.Digest]bool{"D1": true}, syncEpoch: 9}

	h := New(network, func() (CacheStore, error) { return store, nil }, "testnet")

	err := h.SyncTransactions(context.Background(), "0xabc", 7)
	require.NoError(t, err)
	require.Len(t, store.committedSent, 1)
	require.Equal(t, domain.Digest("D4"), store.committedSent[0].Digest)
}

func strPtr(s string) *string { return &s }
