package history

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-tools/walletcore/internal/domain"
	"github.com/iota-tools/walletcore/internal/rpc"
	"github.com/iota-tools/walletcore/internal/walleterr"
)

// SyncMinEpoch computes the oldest epoch a sync must bridge down to
// (spec.md §4.5, §8). Two distinct reasons extend a sync window: the user
// was offline past the lookback window (bridge via lastSyncedEpoch), or the
// user widened lookbackEpochs since the last sync (handled separately, by
// not stopping pagination on a known digest).
func SyncMinEpoch(currentEpoch, lookbackEpochs, lastSyncedEpoch uint64) uint64 {
	window := saturatingSub(currentEpoch, lookbackEpochs)
	if lastSyncedEpoch > 0 && lastSyncedEpoch < window {
		return lastSyncedEpoch
	}
	return window
}

func saturatingSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}

// SyncTransactions bridges the local cache against the remote feed down to
// a computed epoch boundary: read phase, network phase, commit phase, each
// with its own cache handle (spec.md §4.3, §9).
func (h *History) SyncTransactions(ctx context.Context, address domain.Address, lookbackEpochs uint64) error {
	runID := uuid.NewString()
	log := h.log.WithFields(logrus.Fields{"sync_run": runID, "address": address})

	known, lastSyncedEpoch, err := h.readSyncState(ctx, address)
	if err != nil {
		return err
	}

	currentEpoch, err := h.network.Epoch(ctx)
	if err != nil {
		return walleterr.Wrap(walleterr.RemoteUnavailable, "sync_transactions_epoch", err)
	}

	minEpoch := SyncMinEpoch(currentEpoch, lookbackEpochs, lastSyncedEpoch)
	log.WithField("min_epoch", minEpoch).Debug("starting history sync")

	sent, recv, err := h.fetchBothSides(ctx, address, minEpoch, known)
	if err != nil {
		return err
	}

	if err := h.commitSyncResult(ctx, address, sent, recv, currentEpoch); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"sent": len(sent), "recv": len(recv)}).Debug("history sync committed")
	return nil
}

func (h *History) readSyncState(ctx context.Context, address domain.Address) (map[domain.Digest]bool, uint64, error) {
	store, err := h.openCache()
	if err != nil {
		return nil, 0, walleterr.Wrap(walleterr.Config, "sync_transactions_open", err)
	}
	defer store.Close()

	known, err := store.KnownDigests(ctx, h.networkName, string(address))
	if err != nil {
		return nil, 0, err
	}
	lastSyncedEpoch, err := store.GetSyncEpoch(ctx, h.networkName, string(address))
	if err != nil {
		return nil, 0, err
	}
	return known, lastSyncedEpoch, nil
}

func (h *History) commitSyncResult(ctx context.Context, address domain.Address, sent, recv []domain.TransactionSummary, currentEpoch uint64) error {
	store, err := h.openCache()
	if err != nil {
		return walleterr.Wrap(walleterr.Config, "sync_transactions_commit", err)
	}
	defer store.Close()

	return store.CommitSync(ctx, h.networkName, string(address), sent, recv, currentEpoch)
}

// fetchBothSides runs fetchPaginated for the sent and received sides in
// parallel (spec.md §5, "the two sides are paginated in parallel").
func (h *History) fetchBothSides(ctx context.Context, address domain.Address, minEpoch uint64, known map[domain.Digest]bool) (sent, recv []domain.TransactionSummary, err error) {
	var sentErr, recvErr error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		sent, sentErr = h.fetchPaginated(ctx, rpc.TxQueryFilter{Kind: rpc.BySignAddress, Address: address}, minEpoch, known, domain.DirectionOut)
	}()
	go func() {
		defer wg.Done()
		recv, recvErr = h.fetchPaginated(ctx, rpc.TxQueryFilter{Kind: rpc.ByRecvAddress, Address: address}, minEpoch, known, domain.DirectionIn)
	}()
	wg.Wait()

	if sentErr != nil {
		return nil, nil, walleterr.Wrap(walleterr.RemoteUnavailable, "sync_transactions_sent", sentErr)
	}
	if recvErr != nil {
		return nil, nil, walleterr.Wrap(walleterr.RemoteUnavailable, "sync_transactions_recv", recvErr)
	}
	return sent, recv, nil
}

// fetchPaginated walks one side of the feed backward in pages of
// pageLimit, stopping once it crosses minEpoch or runs out of pages
// (spec.md §4.5). Known digests are skipped but never stop pagination: the
// lookback window may have widened since the last sync.
func (h *History) fetchPaginated(ctx context.Context, filter rpc.TxQueryFilter, minEpoch uint64, known map[domain.Digest]bool, direction domain.TransactionDirection) ([]domain.TransactionSummary, error) {
	var collected []domain.TransactionSummary
	var cursor *string

	for {
		page, err := h.network.TransactionsPage(ctx, filter, rpc.PageRequest{Cursor: cursor, Limit: pageLimit, Direction: rpc.Backward})
		if err != nil {
			return nil, err
		}

		hitBoundary := false
		for _, item := range page.Items {
			if item.Epoch < minEpoch {
				hitBoundary = true
				continue
			}
			if known[item.Digest] {
				continue
			}
			collected = append(collected, convertItem(item, direction))
		}

		if hitBoundary || !page.HasPreviousPage {
			break
		}
		cursor = page.StartCursor
	}

	return collected, nil
}
