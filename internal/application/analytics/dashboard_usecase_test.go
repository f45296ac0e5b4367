package analytics_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/analytics"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/domain/stock"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	bodega = "loc-bodega"
	obra   = "loc-obra"
)

type env struct {
	store *memory.Store
	proc  *inventory.TransactionProcessor
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	items := []entity.InventoryItem{
		{ID: "cem", Code: "CEM-000001", Name: "Cemento gris", Category: "Cemento", UnitCost: decimal.NewFromInt(30000), ReorderPoint: 10},
		{ID: "var", Code: "ACE-000001", Name: "Varilla 1/2", Category: "Acero", UnitCost: decimal.RequireFromString("12500.50"), ReorderPoint: 20},
		{ID: "ala", Code: "ACE-000002", Name: "Alambre negro", Category: "Acero", UnitCost: decimal.NewFromInt(8000), ReorderPoint: 0},
	}
	for i := range items {
		require.NoError(t, s.Items().Create(ctx, &items[i]))
	}
	require.NoError(t, s.Locations().Create(ctx, &entity.Location{ID: bodega, Name: "Bodega central", Type: entity.LocationTypeWarehouse}))
	require.NoError(t, s.Locations().Create(ctx, &entity.Location{ID: obra, Name: "Obra Calle 80", Type: entity.LocationTypeSite}))

	return &env{
		store: s,
		proc: inventory.NewTransactionProcessor(s, s.Items(), s.Locations(), inventory.ProcessorOptions{
			Policy: stock.DefaultPolicy(),
		}),
	}
}

func (e *env) move(t *testing.T, in inventory.TransactionInput) {
	t.Helper()
	in.PerformedBy = "tester"
	_, err := e.proc.CreateTransaction(context.Background(), in)
	require.NoError(t, err)
}

// seed deja: cem = 12 (bodega 8, obra 4), var = 20 en bodega (igual al punto de reorden),
// ala = 0 sin filas.
func (e *env) seed(t *testing.T) {
	e.move(t, inventory.TransactionInput{ItemID: "cem", Quantity: 12, Type: "purchase", ToLocationID: bodega})
	e.move(t, inventory.TransactionInput{ItemID: "cem", Quantity: 4, Type: "transfer", FromLocationID: bodega, ToLocationID: obra})
	e.move(t, inventory.TransactionInput{ItemID: "var", Quantity: 20, Type: "purchase", ToLocationID: bodega})
}

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestGetDashboard_Agregados(t *testing.T) {
	e := newEnv(t)
	e.seed(t)
	uc := analytics.NewDashboardUseCase(e.store, analytics.Options{})

	d, err := uc.GetDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, d.TotalItems)
	// 12*30000 + 20*12500.50 + 0
	assert.True(t, decimal.RequireFromString("610010").Equal(d.TotalValue), d.TotalValue.String())

	// var: 20 <= 20 (límite inclusivo). ala: 0 <= 0. cem: 12 > 10.
	assert.Equal(t, 2, d.LowStockCount)
	require.Len(t, d.LowStockItems, 2)
	assert.Equal(t, "ACE-000001", d.LowStockItems[0].Code) // holgura 0, empate por código
	assert.Equal(t, "ACE-000002", d.LowStockItems[1].Code)
	assert.True(t, d.LowStockItems[0].LowStock)

	require.Contains(t, d.StockByCategory, "Acero")
	assert.Equal(t, 2, d.StockByCategory["Acero"].TotalItems)
	assert.Equal(t, int64(20), d.StockByCategory["Acero"].TotalStock)
	assert.Equal(t, int64(12), d.StockByCategory["Cemento"].TotalStock)

	require.Len(t, d.RecentTransactions, 3)
	assert.Equal(t, int64(3), d.RecentTransactions[0].Sequence)
}

func TestGetDashboard_LimiteDeRecientes(t *testing.T) {
	e := newEnv(t)
	for i := 0; i < 5; i++ {
		e.move(t, inventory.TransactionInput{ItemID: "cem", Quantity: 1, Type: "purchase", ToLocationID: bodega})
	}
	uc := analytics.NewDashboardUseCase(e.store, analytics.Options{RecentLimit: 2, LowStockLimit: 1})

	d, err := uc.GetDashboard(context.Background())
	require.NoError(t, err)
	require.Len(t, d.RecentTransactions, 2)
	assert.Equal(t, int64(5), d.RecentTransactions[0].Sequence)
	assert.Equal(t, 3, d.LowStockCount)
	assert.Len(t, d.LowStockItems, 1)
}

func TestGetDashboard_SinLimiteDeStockBajo(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	for i := 0; i < 15; i++ {
		require.NoError(t, s.Items().Create(ctx, &entity.InventoryItem{
			ID: fmt.Sprintf("it-%02d", i), Code: fmt.Sprintf("GEN-%06d", i+1), Name: "ítem", Category: "General",
			UnitCost: decimal.Zero, ReorderPoint: 5,
		}))
	}
	uc := analytics.NewDashboardUseCase(s, analytics.Options{LowStockLimit: 0})

	d, err := uc.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15, d.LowStockCount)
	assert.Len(t, d.LowStockItems, d.LowStockCount, "0 devuelve todos los ítems en stock bajo")
}

func TestGetDashboard_ConsistenteConTrasladosConcurrentes(t *testing.T) {
	e := newEnv(t)
	e.seed(t)
	uc := analytics.NewDashboardUseCase(e.store, analytics.Options{})
	want := decimal.RequireFromString("610010")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			from, to := bodega, obra
			if i%2 == 1 {
				from, to = obra, bodega
			}
			_, err := e.proc.CreateTransaction(context.Background(), inventory.TransactionInput{
				ItemID: "cem", Quantity: 1, Type: "transfer", FromLocationID: from, ToLocationID: to,
			})
			assert.NoError(t, err)
		}
	}()
	for i := 0; i < 50; i++ {
		d, err := uc.GetDashboard(context.Background())
		require.NoError(t, err)
		assert.True(t, want.Equal(d.TotalValue), "un traslado nunca cambia la valorización")
	}
	wg.Wait()
}

// ──────────────────────────────────────────────────────────────────────────────
// Listados y detalle
// ──────────────────────────────────────────────────────────────────────────────

func TestListItems_FiltrosYStockBajo(t *testing.T) {
	e := newEnv(t)
	e.seed(t)
	uc := analytics.NewDashboardUseCase(e.store, analytics.Options{})
	ctx := context.Background()

	all, err := uc.ListItems(ctx, dto.ItemFilterRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)

	low, err := uc.ListItems(ctx, dto.ItemFilterRequest{LowStockOnly: true})
	require.NoError(t, err)
	require.Len(t, low.Items, 2)
	for _, it := range low.Items {
		assert.True(t, it.LowStock)
	}

	acero, err := uc.ListItems(ctx, dto.ItemFilterRequest{Category: "Acero", Search: "varilla"})
	require.NoError(t, err)
	require.Len(t, acero.Items, 1)
	assert.Equal(t, int64(20), acero.Items[0].TotalStock)
}

func TestGetItemDetail(t *testing.T) {
	e := newEnv(t)
	e.seed(t)
	uc := analytics.NewDashboardUseCase(e.store, analytics.Options{})

	d, err := uc.GetItemDetail(context.Background(), "cem")
	require.NoError(t, err)
	assert.Equal(t, int64(12), d.TotalStock)
	assert.False(t, d.LowStock)
	require.Len(t, d.StockLevels, 2)
	names := map[string]int64{}
	for _, l := range d.StockLevels {
		names[l.LocationName] = l.Quantity
	}
	assert.Equal(t, map[string]int64{"Bodega central": 8, "Obra Calle 80": 4}, names)
	require.Len(t, d.RecentTransactions, 2)
	assert.Equal(t, "transfer", d.RecentTransactions[0].Type)

	_, err = uc.GetItemDetail(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetLocationDetail(t *testing.T) {
	e := newEnv(t)
	e.seed(t)
	uc := analytics.NewDashboardUseCase(e.store, analytics.Options{})

	d, err := uc.GetLocationDetail(context.Background(), obra)
	require.NoError(t, err)
	assert.Equal(t, entity.LocationTypeSite, d.Type)
	require.Len(t, d.Stock, 1)
	assert.Equal(t, "CEM-000001", d.Stock[0].ItemCode)
	assert.Equal(t, int64(4), d.Stock[0].Quantity)

	_, err = uc.GetLocationDetail(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListTransactions(t *testing.T) {
	e := newEnv(t)
	e.seed(t)
	uc := analytics.NewDashboardUseCase(e.store, analytics.Options{})

	list, err := uc.ListTransactions(context.Background(), "var", 0)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "var", list.Items[0].ItemID)

	list, err = uc.ListTransactions(context.Background(), "", 1000)
	require.NoError(t, err)
	assert.Len(t, list.Items, 3)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconciliación
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcile(t *testing.T) {
	e := newEnv(t)
	e.seed(t)
	e.move(t, inventory.TransactionInput{ItemID: "cem", Quantity: 3, Type: "stocktake", ToLocationID: obra})
	uc := analytics.NewDashboardUseCase(e.store, analytics.Options{})

	r, err := uc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.True(t, r.Consistent)
	assert.Equal(t, 4, r.Transactions)
	assert.Empty(t, r.Drift)

	// Una escritura por fuera del procesador aparece como diferencia.
	e.store.SetLevel("cem", bodega, 100)
	r, err = uc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.False(t, r.Consistent)
	require.Len(t, r.Drift, 1)
	assert.Equal(t, dto.StockDriftDTO{ItemID: "cem", LocationID: bodega, Live: 100, Replayed: 8}, r.Drift[0])
}

// ──────────────────────────────────────────────────────────────────────────────
// Caché
// ──────────────────────────────────────────────────────────────────────────────

type fakeCache struct {
	mu          sync.Mutex
	value       *dto.DashboardResponse
	gen         int64
	sets        int
	stale       int
	invalidated int
}

func (c *fakeCache) Get(context.Context) (*dto.DashboardResponse, int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.gen, c.value != nil, nil
}

func (c *fakeCache) Set(_ context.Context, gen int64, d *dto.DashboardResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.stale++
		return nil
	}
	c.value = d
	c.sets++
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = nil
	c.gen++
	c.invalidated++
	return nil
}

// hookedSnapshots ejecuta before antes de abrir cada snapshot (simula un commit concurrente).
type hookedSnapshots struct {
	inner  repository.SnapshotRunner
	before func()
}

func (h hookedSnapshots) Read(ctx context.Context, fn func(repository.Snapshot) error) error {
	if h.before != nil {
		h.before()
	}
	return h.inner.Read(ctx, fn)
}

func TestGetDashboard_CacheInvalidadaPorCommit(t *testing.T) {
	e := newEnv(t)
	cache := &fakeCache{}
	uc := analytics.NewDashboardUseCase(e.store, analytics.Options{Cache: cache})
	e.proc.AddListener(uc)
	ctx := context.Background()

	first, err := uc.GetDashboard(ctx)
	require.NoError(t, err)
	_, err = uc.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets, "la segunda lectura sale de la caché")
	assert.Equal(t, 3, first.LowStockCount)

	e.move(t, inventory.TransactionInput{ItemID: "cem", Quantity: 50, Type: "purchase", ToLocationID: bodega})
	assert.Equal(t, 1, cache.invalidated)

	after, err := uc.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, after.LowStockCount)
	assert.Equal(t, 2, cache.sets)

	uc.CatalogChanged(ctx)
	assert.Equal(t, 2, cache.invalidated)
}

func TestGetDashboard_LectorLentoNoEscribeSnapshotViejo(t *testing.T) {
	e := newEnv(t)
	cache := &fakeCache{}
	committed := false
	snapshots := hookedSnapshots{inner: e.store}
	uc := analytics.NewDashboardUseCase(&snapshots, analytics.Options{Cache: cache})
	e.proc.AddListener(uc)
	snapshots.before = func() {
		if committed {
			return
		}
		committed = true
		e.move(t, inventory.TransactionInput{ItemID: "cem", Quantity: 50, Type: "purchase", ToLocationID: bodega})
	}
	ctx := context.Background()

	_, err := uc.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidated)
	assert.Equal(t, 1, cache.stale, "la generación cambió durante la lectura")
	assert.Zero(t, cache.sets)

	// La siguiente lectura ve la generación nueva y sí llena la caché.
	d, err := uc.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 2, d.LowStockCount)
}
