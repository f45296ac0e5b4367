// Package analytics contiene las vistas derivadas del ledger: dashboard, detalle de ítem y de
// ubicación, listados con stock total y reconciliación. Solo lee; nunca escribe.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/domain/stock"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	defaultRecentLimit = 10 // transacciones recientes en dashboard y detalle
	maxListLimit       = 200
)

// Options parámetros del caso de uso. Los valores cero toman los defaults.
type Options struct {
	RecentLimit   int
	LowStockLimit int            // 0 = todos los ítems en stock bajo
	Cache         DashboardCache // nil = sin caché
	Logger        *logger.Logger
}

// DashboardUseCase calcula las vistas agregadas del inventario.
//
// Cada método abre un único snapshot (SnapshotRunner.Read) y hace todas sus lecturas ahí:
// el resultado nunca mezcla niveles anteriores y posteriores a una misma transacción.
// El cálculo recorre todos los ítems y niveles en cada llamada; para catálogos grandes habría que
// mantener agregados materializados.
type DashboardUseCase struct {
	snapshots     repository.SnapshotRunner
	recentLimit   int
	lowStockLimit int
	cache         DashboardCache
	log           *logger.Logger
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(snapshots repository.SnapshotRunner, opts Options) *DashboardUseCase {
	uc := &DashboardUseCase{
		snapshots:     snapshots,
		recentLimit:   opts.RecentLimit,
		lowStockLimit: opts.LowStockLimit,
		cache:         opts.Cache,
		log:           opts.Logger,
	}
	if uc.recentLimit <= 0 {
		uc.recentLimit = defaultRecentLimit
	}
	if uc.lowStockLimit < 0 {
		uc.lowStockLimit = 0
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	return uc
}

// itemStock ítem con su total ya calculado dentro del snapshot.
type itemStock struct {
	item  *entity.InventoryItem
	total int64
}

func (s itemStock) summary() dto.ItemSummaryResponse {
	return dto.ItemSummaryResponse{
		ItemResponse: dto.ItemFrom(s.item),
		TotalStock:   s.total,
		LowStock:     stock.IsLowStock(s.total, s.item.ReorderPoint),
	}
}

// loadItemStock lee ítems y niveles del snapshot y calcula el total de cada ítem.
func loadItemStock(ctx context.Context, s repository.Snapshot, filter repository.ItemFilter) ([]itemStock, error) {
	items, err := s.Items.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	levels, err := s.Ledger.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	totals := make(map[string]int64, len(items))
	for _, l := range levels {
		totals[l.ItemID] += l.Quantity
	}
	out := make([]itemStock, 0, len(items))
	for _, it := range items {
		out = append(out, itemStock{item: it, total: totals[it.ID]})
	}
	return out, nil
}

// GetDashboard construye el resumen: stock bajo, valorización, agregados por categoría y
// últimas transacciones.
func (uc *DashboardUseCase) GetDashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	// gen se lee antes del snapshot: si hay un commit en medio, Set se descarta.
	var (
		gen      int64
		cacheErr error
	)
	if uc.cache != nil {
		var (
			cached *dto.DashboardResponse
			ok     bool
		)
		cached, gen, ok, cacheErr = uc.cache.Get(ctx)
		if cacheErr != nil {
			uc.log.Warn().Err(cacheErr).Msg("dashboard: lectura de caché")
		} else if ok {
			return cached, nil
		}
	}

	var out *dto.DashboardResponse
	err := uc.snapshots.Read(ctx, func(s repository.Snapshot) error {
		rows, err := loadItemStock(ctx, s, repository.ItemFilter{})
		if err != nil {
			return fmt.Errorf("dashboard: stock por ítem: %w", err)
		}
		recent, err := s.Transactions.ListRecent(ctx, "", uc.recentLimit)
		if err != nil {
			return fmt.Errorf("dashboard: transacciones recientes: %w", err)
		}
		out = uc.buildDashboard(rows, recent)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.cache != nil && cacheErr == nil {
		if err := uc.cache.Set(ctx, gen, out); err != nil {
			uc.log.Warn().Err(err).Msg("dashboard: escritura de caché")
		}
	}
	return out, nil
}

func (uc *DashboardUseCase) buildDashboard(rows []itemStock, recent []entity.StockTransaction) *dto.DashboardResponse {
	out := &dto.DashboardResponse{
		TotalItems:         len(rows),
		TotalValue:         decimal.Zero,
		StockByCategory:    make(map[string]dto.CategoryStockDTO),
		LowStockItems:      []dto.ItemSummaryResponse{},
		RecentTransactions: dto.TransactionsFrom(recent),
	}

	var low []itemStock
	for _, r := range rows {
		value := r.item.UnitCost.Mul(decimal.NewFromInt(r.total))
		out.TotalValue = out.TotalValue.Add(value)

		cat := out.StockByCategory[r.item.Category]
		cat.TotalItems++
		cat.TotalStock += r.total
		cat.TotalValue = cat.TotalValue.Add(value)
		out.StockByCategory[r.item.Category] = cat

		if stock.IsLowStock(r.total, r.item.ReorderPoint) {
			low = append(low, r)
		}
	}
	out.LowStockCount = len(low)

	// Menor holgura (total - reorden) primero; empate por código.
	sort.Slice(low, func(i, j int) bool {
		si := low[i].total - low[i].item.ReorderPoint
		sj := low[j].total - low[j].item.ReorderPoint
		if si != sj {
			return si < sj
		}
		return low[i].item.Code < low[j].item.Code
	})
	if uc.lowStockLimit > 0 && len(low) > uc.lowStockLimit {
		low = low[:uc.lowStockLimit]
	}
	for _, r := range low {
		out.LowStockItems = append(out.LowStockItems, r.summary())
	}
	return out
}

// ListItems lista ítems con su stock total. LowStockOnly se evalúa en el mismo snapshot.
func (uc *DashboardUseCase) ListItems(ctx context.Context, in dto.ItemFilterRequest) (*dto.ItemListResponse, error) {
	filter := repository.ItemFilter{
		Search:   strings.TrimSpace(in.Search),
		Category: strings.TrimSpace(in.Category),
	}
	out := &dto.ItemListResponse{Items: []dto.ItemSummaryResponse{}}
	err := uc.snapshots.Read(ctx, func(s repository.Snapshot) error {
		rows, err := loadItemStock(ctx, s, filter)
		if err != nil {
			return err
		}
		for _, r := range rows {
			sum := r.summary()
			if in.LowStockOnly && !sum.LowStock {
				continue
			}
			out.Items = append(out.Items, sum)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Page = dto.PageResponse{Limit: len(out.Items), Total: len(out.Items)}
	return out, nil
}

// GetItemDetail devuelve el ítem con su stock por ubicación y sus últimas transacciones.
func (uc *DashboardUseCase) GetItemDetail(ctx context.Context, id string) (*dto.ItemDetailResponse, error) {
	var out *dto.ItemDetailResponse
	err := uc.snapshots.Read(ctx, func(s repository.Snapshot) error {
		item, err := s.Items.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: ítem %s", domain.ErrNotFound, id)
		}
		levels, err := s.Ledger.ListByItem(ctx, id)
		if err != nil {
			return err
		}
		locations, err := locationNames(ctx, s)
		if err != nil {
			return err
		}
		recent, err := s.Transactions.ListRecent(ctx, id, uc.recentLimit)
		if err != nil {
			return err
		}

		out = &dto.ItemDetailResponse{
			ItemResponse:       dto.ItemFrom(item),
			StockLevels:        make([]dto.StockLevelResponse, 0, len(levels)),
			RecentTransactions: dto.TransactionsFrom(recent),
		}
		for _, l := range levels {
			out.TotalStock += l.Quantity
			out.StockLevels = append(out.StockLevels, dto.StockLevelResponse{
				ItemID:       l.ItemID,
				LocationID:   l.LocationID,
				LocationName: locations[l.LocationID],
				Quantity:     l.Quantity,
				LastUpdated:  l.LastUpdated,
			})
		}
		out.LowStock = stock.IsLowStock(out.TotalStock, item.ReorderPoint)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetLocationDetail devuelve la ubicación con el stock de cada ítem que ha tenido movimientos ahí.
func (uc *DashboardUseCase) GetLocationDetail(ctx context.Context, id string) (*dto.LocationDetailResponse, error) {
	var out *dto.LocationDetailResponse
	err := uc.snapshots.Read(ctx, func(s repository.Snapshot) error {
		loc, err := s.Locations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if loc == nil {
			return fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, id)
		}
		levels, err := s.Ledger.ListByLocation(ctx, id)
		if err != nil {
			return err
		}
		items, err := s.Items.List(ctx, repository.ItemFilter{})
		if err != nil {
			return err
		}
		byID := make(map[string]*entity.InventoryItem, len(items))
		for _, it := range items {
			byID[it.ID] = it
		}

		out = &dto.LocationDetailResponse{
			LocationResponse: dto.LocationFrom(loc),
			Stock:            make([]dto.StockLevelResponse, 0, len(levels)),
		}
		for _, l := range levels {
			row := dto.StockLevelResponse{
				ItemID:       l.ItemID,
				LocationID:   l.LocationID,
				LocationName: loc.Name,
				Quantity:     l.Quantity,
				LastUpdated:  l.LastUpdated,
			}
			if it, ok := byID[l.ItemID]; ok {
				row.ItemCode = it.Code
				row.ItemName = it.Name
			}
			out.Stock = append(out.Stock, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListTransactions devuelve las últimas transacciones, opcionalmente de un solo ítem.
func (uc *DashboardUseCase) ListTransactions(ctx context.Context, itemID string, limit int) (*dto.TransactionListResponse, error) {
	if limit <= 0 {
		limit = uc.recentLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	var out *dto.TransactionListResponse
	err := uc.snapshots.Read(ctx, func(s repository.Snapshot) error {
		list, err := s.Transactions.ListRecent(ctx, itemID, limit)
		if err != nil {
			return err
		}
		out = &dto.TransactionListResponse{Items: dto.TransactionsFrom(list)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Reconcile reproduce el log completo desde un ledger vacío y lo compara con el stock vivo.
// Un resultado con Consistent=false indica filas de stock modificadas por fuera del procesador.
func (uc *DashboardUseCase) Reconcile(ctx context.Context) (*dto.ReconcileResponse, error) {
	var out *dto.ReconcileResponse
	err := uc.snapshots.Read(ctx, func(s repository.Snapshot) error {
		txs, err := s.Transactions.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("reconcile: log: %w", err)
		}
		live, err := s.Ledger.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("reconcile: stock: %w", err)
		}
		replayed := stock.Replay(txs)
		drift := stock.Diff(live, replayed)

		out = &dto.ReconcileResponse{
			Transactions: len(txs),
			Keys:         len(replayed),
			Consistent:   len(drift) == 0,
			Drift:        make([]dto.StockDriftDTO, 0, len(drift)),
		}
		for _, d := range drift {
			out.Drift = append(out.Drift, dto.StockDriftDTO{
				ItemID:     d.Key.ItemID,
				LocationID: d.Key.LocationID,
				Live:       d.Live,
				Replayed:   d.Replayed,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func locationNames(ctx context.Context, s repository.Snapshot) (map[string]string, error) {
	list, err := s.Locations.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(list))
	for _, l := range list {
		names[l.ID] = l.Name
	}
	return names, nil
}

// TransactionCommitted invalida la caché del dashboard tras cada movimiento confirmado.
func (uc *DashboardUseCase) TransactionCommitted(ctx context.Context, tx entity.StockTransaction) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Str("transaction_id", tx.ID).Msg("dashboard: invalidar caché")
	}
}

// CatalogChanged invalida la caché cuando cambia el catálogo (altas o cambios de costo/reorden).
func (uc *DashboardUseCase) CatalogChanged(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("dashboard: invalidar caché por catálogo")
	}
}
