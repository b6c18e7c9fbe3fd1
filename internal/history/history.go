// Package history reconciles the two one-sided remote views of an
// address's ledger activity ("signed by me" and "received by me") into a
// single directional, deduplicated history, and drives the incremental
// cached sync that bridges the local cache against a moving epoch window
// (spec.md §4.5).
package history

import (
	"context"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/iota-tools/walletcore/internal/domain"
	"github.com/iota-tools/walletcore/internal/rpc"
	"github.com/iota-tools/walletcore/internal/walleterr"
)

// pageLimit is the fixed page size for incremental sync pagination
// (spec.md §4.5).
const pageLimit = 50

// NetworkReader is the subset of the network client history needs: epoch
// lookup and the two-sided paginated transactions feed.
type NetworkReader interface {
	Epoch(ctx context.Context) (uint64, error)
	TransactionsPage(ctx context.Context, filter rpc.TxQueryFilter, page rpc.PageRequest) (rpc.Page, error)
}

// CacheStore is the subset of the transaction cache history needs. The
// cache handle backing an implementation must never be held across an
// await point (spec.md §9); History opens and closes it once per phase via
// openCache, never keeping a handle across the network phase in between.
type CacheStore interface {
	KnownDigests(ctx context.Context, network, address string) (map[domain.Digest]bool, error)
	GetSyncEpoch(ctx context.Context, network, address string) (uint64, error)
	CommitSync(ctx context.Context, network, address string, sent, recv []domain.TransactionSummary, currentEpoch uint64) error
	Close() error
}

// History coordinates the live read path and the incremental sync against
// one bound network.
type History struct {
	network     NetworkReader
	openCache   func() (CacheStore, error)
	networkName string
	log         *logrus.Entry
}

// New builds a History bound to network and networkName for cache
// partitioning. openCache is invoked once per sync phase (read, then
// commit); it must return a fresh handle each time.
func New(network NetworkReader, openCache func() (CacheStore, error), networkName string) *History {
	return &History{
		network:     network,
		openCache:   openCache,
		networkName: networkName,
		log:         logrus.WithField("network", networkName),
	}
}

// Transactions fires both one-sided queries in parallel (one page each),
// merges them with sent-wins direction attribution, sorts descending by
// (epoch, lamport_version), and applies filter (spec.md §4.5 "Live read
// path").
func (h *History) Transactions(ctx context.Context, address domain.Address, filter domain.TransactionFilter) ([]domain.TransactionSummary, error) {
	var sentPage, recvPage rpc.Page
	var sentErr, recvErr error

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		sentPage, sentErr = h.network.TransactionsPage(ctx, rpc.TxQueryFilter{Kind: rpc.BySignAddress, Address: address}, rpc.PageRequest{Limit: pageLimit, Direction: rpc.Backward})
	}()
	go func() {
		defer wg.Done()
		recvPage, recvErr = h.network.TransactionsPage(ctx, rpc.TxQueryFilter{Kind: rpc.ByRecvAddress, Address: address}, rpc.PageRequest{Limit: pageLimit, Direction: rpc.Backward})
	}()
	wg.Wait()

	if sentErr != nil {
		return nil, walleterr.Wrap(walleterr.RemoteUnavailable, "transactions_sent", sentErr)
	}
	if recvErr != nil {
		return nil, walleterr.Wrap(walleterr.RemoteUnavailable, "transactions_recv", recvErr)
	}

	sent := convertItems(sentPage.Items, domain.DirectionOut)
	recv := convertItems(recvPage.Items, domain.DirectionIn)

	merged := mergeSentWins(sent, recv)
	sortDescending(merged)
	return applyFilter(merged, filter), nil
}

func convertItems(items []rpc.EffectsItem, direction domain.TransactionDirection) []domain.TransactionSummary {
	out := make([]domain.TransactionSummary, 0, len(items))
	for _, item := range items {
		out = append(out, convertItem(item, direction))
	}
	return out
}

func convertItem(item rpc.EffectsItem, direction domain.TransactionDirection) domain.TransactionSummary {
	d := direction
	return domain.TransactionSummary{
		Digest:         item.Digest,
		Kind:           itemKind(item),
		Epoch:          item.Epoch,
		LamportVersion: item.LamportVersion,
		Timestamp:      item.Timestamp,
		Sender:         item.Sender,
		Amount:         item.Amount,
		Direction:      &d,
	}
}

// itemKind populates TransactionSummary.Kind from whatever command shape
// the remote feed exposed; "unknown" when it didn't (spec.md's Open
// Question on the kind taxonomy).
func itemKind(item rpc.EffectsItem) string {
	if item.Kind == "" {
		return "unknown"
	}
	return item.Kind
}

// mergeSentWins merges sent and recv, keeping sent's entry whenever a
// digest appears in both: a transaction the user signed that also credits
// the same address is classed Out (spec.md §4.5, §9).
func mergeSentWins(sent, recv []domain.TransactionSummary) []domain.TransactionSummary {
	seen := make(map[domain.Digest]bool, len(sent)+len(recv))
	merged := make([]domain.TransactionSummary, 0, len(sent)+len(recv))

	for _, s := range sent {
		if seen[s.Digest] {
			continue
		}
		seen[s.Digest] = true
		merged = append(merged, s)
	}
	for _, r := range recv {
		if seen[r.Digest] {
			continue
		}
		seen[r.Digest] = true
		merged = append(merged, r)
	}
	return merged
}

func sortDescending(summaries []domain.TransactionSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].Epoch != summaries[j].Epoch {
			return summaries[i].Epoch > summaries[j].Epoch
		}
		return summaries[i].LamportVersion > summaries[j].LamportVersion
	})
}

func applyFilter(summaries []domain.TransactionSummary, filter domain.TransactionFilter) []domain.TransactionSummary {
	if filter == domain.FilterAll {
		return summaries
	}
	want := domain.DirectionIn
	if filter == domain.FilterOut {
		want = domain.DirectionOut
	}
	out := make([]domain.TransactionSummary, 0, len(summaries))
	for _, s := range summaries {
		if s.Direction != nil && *s.Direction == want {
			out = append(out, s)
		}
	}
	return out
}
