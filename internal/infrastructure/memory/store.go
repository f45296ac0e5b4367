// Package memory implementa los puertos de persistencia en memoria. Se usa en tests y con
// STORE_DRIVER=memory para demos locales; no persiste nada entre reinicios.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ inventory.TxRunner        = (*Store)(nil)
	_ repository.SnapshotRunner = (*Store)(nil)
)

// state datos del store. Solo se accede con Store.mu tomado.
type state struct {
	items     map[string]entity.InventoryItem
	codes     map[string]string // código -> id
	counters  map[string]int64
	locations map[string]entity.Location
	levels    map[entity.StockKey]entity.StockLevel
	txs       []entity.StockTransaction
	seq       int64
}

// Store guarda catálogo, ubicaciones, stock y log detrás de un único RWMutex.
// Run toma el lock de escritura durante toda la transacción, así que las transacciones del ledger
// quedan serializadas; Read toma el de lectura y ve un estado fijo.
type Store struct {
	mu  sync.RWMutex
	st  *state
	now func() time.Time
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		st: &state{
			items:     make(map[string]entity.InventoryItem),
			codes:     make(map[string]string),
			counters:  make(map[string]int64),
			locations: make(map[string]entity.Location),
			levels:    make(map[entity.StockKey]entity.StockLevel),
		},
		now: time.Now,
	}
}

// Items repositorio del catálogo.
func (s *Store) Items() *ItemRepo { return &ItemRepo{s: s} }

// Locations repositorio de ubicaciones.
func (s *Store) Locations() *LocationRepo { return &LocationRepo{s: s} }

// Run ejecuta fn con un ledger y un log en staging. Si fn devuelve nil el staging se aplica;
// si devuelve error se descarta y el store queda como estaba.
func (s *Store) Run(ctx context.Context, fn func(
	ledger repository.StockLedger,
	txRepo repository.StockTransactionRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := &ledgerView{st: s.st, staged: make(map[entity.StockKey]entity.StockLevel), now: s.now}
	txRepo := &txView{st: s.st, seq: s.st.seq}
	if err := fn(ledger, txRepo); err != nil {
		return err
	}

	for k, l := range ledger.staged {
		s.st.levels[k] = l
	}
	s.st.txs = append(s.st.txs, txRepo.appended...)
	s.st.seq = txRepo.seq
	return nil
}

// Read ejecuta fn sobre una vista de solo lectura. Los lectores del snapshot no vuelven a tomar
// el lock (RWMutex no es reentrante).
func (s *Store) Read(ctx context.Context, fn func(snap repository.Snapshot) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(repository.Snapshot{
		Items:        itemView{st: s.st},
		Locations:    locationView{st: s.st},
		Ledger:       &ledgerView{st: s.st, now: s.now},
		Transactions: &txView{st: s.st, seq: s.st.seq},
	})
}

// SetLevel escribe una fila de stock sin pasar por el log. Solo para simular corrupción en
// pruebas de reconciliación.
func (s *Store) SetLevel(itemID, locationID string, quantity int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := entity.StockKey{ItemID: itemID, LocationID: locationID}
	s.st.levels[k] = entity.StockLevel{ItemID: itemID, LocationID: locationID, Quantity: quantity, LastUpdated: s.now().UTC()}
}
