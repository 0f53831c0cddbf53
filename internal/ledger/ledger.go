// Package ledger keeps the append-only history of completed sales. The
// whole history is one JSON document in the store, loaded once at startup
// and rewritten in full after every mutation.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/fjod/repair_pos/internal/domain"
	"github.com/fjod/repair_pos/internal/store"
)

// StorageKey is the fixed document key for the sales history.
const StorageKey = "erp-sales-history"

const saveTimeout = 5 * time.Second

type Ledger struct {
	mu    sync.Mutex
	sales []domain.Sale
	seq   uint64
	docs  store.DocumentStore

	saveMu   sync.Mutex
	savedSeq uint64
}

// New loads the history from the store. A missing or unreadable document is
// not fatal; the ledger starts empty and the next save rewrites it.
func New(ctx context.Context, docs store.DocumentStore) *Ledger {
	l := &Ledger{docs: docs}

	data, err := docs.Load(ctx, StorageKey)
	if errors.Is(err, store.ErrNotFound) {
		return l
	}
	if err != nil {
		log.Printf("load sales history error: %v", err)
		return l
	}
	if err := json.Unmarshal(data, &l.sales); err != nil {
		log.Printf("parse sales history error, starting empty: %v", err)
		l.sales = nil
	}
	return l
}

// Append prepends the sale so the history stays newest first, then persists.
func (l *Ledger) Append(sale domain.Sale) {
	l.mu.Lock()
	l.sales = append([]domain.Sale{sale}, l.sales...)
	l.seq++
	seq := l.seq
	snapshot := l.snapshot()
	l.mu.Unlock()

	l.persist(snapshot, seq)
}

// UpdateFiscalStatus flips a sale from Pending to Issued. An absent id or a
// sale already issued is a no-op; the transition happens at most once.
// Returns whether anything changed.
func (l *Ledger) UpdateFiscalStatus(saleID string, status domain.FiscalStatus) bool {
	l.mu.Lock()
	changed := false
	for i := range l.sales {
		if l.sales[i].ID == saleID && l.sales[i].FiscalStatus == domain.FiscalStatusPending && status != l.sales[i].FiscalStatus {
			l.sales[i].FiscalStatus = status
			changed = true
		}
	}
	var snapshot []domain.Sale
	var seq uint64
	if changed {
		l.seq++
		seq = l.seq
		snapshot = l.snapshot()
	}
	l.mu.Unlock()

	if changed {
		l.persist(snapshot, seq)
	}
	return changed
}

// Sale returns the sale with the given id.
func (l *Ledger) Sale(saleID string) (domain.Sale, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.sales {
		if s.ID == saleID {
			return s, true
		}
	}
	return domain.Sale{}, false
}

// List returns a copy of the history, newest first.
func (l *Ledger) List() []domain.Sale {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

func (l *Ledger) snapshot() []domain.Sale {
	out := make([]domain.Sale, len(l.sales))
	copy(out, l.sales)
	return out
}

// persist rewrites the stored document from the given snapshot without
// blocking the caller. Saves are serialized under saveMu and carry the
// mutation's sequence number: a snapshot older than one already stored is
// dropped, so out-of-order goroutine scheduling cannot overwrite a newer
// document with a stale one. A write failure is logged and the in-memory
// state stands; the next mutation writes the full document again.
func (l *Ledger) persist(snapshot []domain.Sale, seq uint64) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		log.Printf("marshal sales history error: %v", err)
		return
	}
	go func() {
		l.saveMu.Lock()
		defer l.saveMu.Unlock()
		if seq < l.savedSeq {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := l.docs.Save(ctx, StorageKey, data); err != nil {
			log.Printf("save sales history error: %v", err)
			return
		}
		l.savedSeq = seq
	}()
}
