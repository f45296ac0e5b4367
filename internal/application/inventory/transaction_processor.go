package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/domain/stock"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

const defaultRetryBackoff = 20 * time.Millisecond

// ProcessorOptions parámetros del procesador. RetryBackoff, Logger y Clock en cero toman defaults.
type ProcessorOptions struct {
	Policy       stock.Policy
	MaxRetries   int           // reintentos ante domain.ErrConcurrency además del primer intento; 0 = sin reintentos
	RetryBackoff time.Duration // espera lineal: backoff * intento
	Listeners    []CommitListener
	Logger       *logger.Logger
	Clock        func() time.Time
}

// TransactionProcessor registra movimientos de inventario: valida la solicitud, aplica los efectos
// al ledger y agrega la fila inmutable al log, todo en una sola transacción de BD.
type TransactionProcessor struct {
	txRunner     TxRunner
	itemRepo     repository.ItemReader
	locationRepo repository.LocationReader
	policy       stock.Policy
	maxRetries   int
	backoff      time.Duration
	listeners    []CommitListener
	log          *logger.Logger
	now          func() time.Time
}

// NewTransactionProcessor construye el caso de uso.
func NewTransactionProcessor(
	txRunner TxRunner,
	itemRepo repository.ItemReader,
	locationRepo repository.LocationReader,
	opts ProcessorOptions,
) *TransactionProcessor {
	p := &TransactionProcessor{
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
		policy:       opts.Policy,
		maxRetries:   opts.MaxRetries,
		backoff:      opts.RetryBackoff,
		listeners:    opts.Listeners,
		log:          opts.Logger,
		now:          opts.Clock,
	}
	if p.maxRetries < 0 {
		p.maxRetries = 0
	}
	if p.backoff <= 0 {
		p.backoff = defaultRetryBackoff
	}
	if p.log == nil {
		p.log = logger.Nop()
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// AddListener registra un listener de commits.
func (p *TransactionProcessor) AddListener(l CommitListener) {
	p.listeners = append(p.listeners, l)
}

// TransactionInput entrada para registrar un movimiento.
// FromLocationID/ToLocationID vacíos equivalen a null. AdjustStockAt vacío equivale a "both".
type TransactionInput struct {
	ItemID         string
	Quantity       int64
	Type           string
	FromLocationID string
	ToLocationID   string
	PerformedBy    string
	AdjustStockAt  string
	Reference      string
	Notes          string
}

// plannedEffect efecto ya resuelto contra una ubicación concreta.
type plannedEffect struct {
	effect     stock.Effect
	locationID string
}

// CreateTransaction valida la solicitud y la aplica de forma atómica.
// Ante domain.ErrConcurrency reintenta la unidad completa hasta MaxRetries veces.
func (p *TransactionProcessor) CreateTransaction(ctx context.Context, in TransactionInput) (*entity.StockTransaction, error) {
	tx, plan, err := p.prepare(ctx, in)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		err = p.txRunner.Run(ctx, func(ledger repository.StockLedger, txRepo repository.StockTransactionRepository) error {
			return p.apply(ctx, ledger, txRepo, tx, plan)
		})
		if err == nil {
			break
		}
		if !domain.IsRetryable(err) || attempt > p.maxRetries {
			p.log.Error().Err(err).
				Str("item_id", tx.ItemID).
				Str("type", string(tx.Type)).
				Int("attempt", attempt).
				Msg("transacción de inventario rechazada")
			return nil, err
		}
		p.log.Warn().Err(err).
			Str("item_id", tx.ItemID).
			Int("attempt", attempt).
			Msg("conflicto de bloqueo, reintentando")
		if werr := p.wait(ctx, attempt); werr != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrConcurrency, werr)
		}
	}

	p.log.Info().
		Str("transaction_id", tx.ID).
		Int64("sequence", tx.Sequence).
		Str("item_id", tx.ItemID).
		Str("type", string(tx.Type)).
		Int64("quantity", tx.Quantity).
		Str("performed_by", tx.PerformedBy).
		Msg("transacción de inventario registrada")

	committed := *tx
	for _, l := range p.listeners {
		l.TransactionCommitted(ctx, committed)
	}
	return &committed, nil
}

// prepare valida la entrada y construye la transacción y el plan de efectos.
// Nada de lo que hace toca el ledger.
func (p *TransactionProcessor) prepare(ctx context.Context, in TransactionInput) (*entity.StockTransaction, []plannedEffect, error) {
	if strings.TrimSpace(in.ItemID) == "" {
		return nil, nil, fmt.Errorf("%w: item_id es requerido", domain.ErrValidation)
	}
	if in.Quantity <= 0 {
		return nil, nil, fmt.Errorf("%w: quantity debe ser mayor que cero", domain.ErrValidation)
	}
	txType, err := entity.ParseTransactionType(in.Type)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	adjust, err := entity.ParseAdjustStockAt(in.AdjustStockAt)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	tx := &entity.StockTransaction{
		ID:             uuid.New().String(),
		ItemID:         in.ItemID,
		Quantity:       in.Quantity,
		Type:           txType,
		FromLocationID: optional(in.FromLocationID),
		ToLocationID:   optional(in.ToLocationID),
		PerformedBy:    in.PerformedBy,
		AdjustStockAt:  adjust,
		Reference:      in.Reference,
		Notes:          in.Notes,
	}

	effects := stock.Effects(txType, adjust)
	if len(effects) == 0 {
		return nil, nil, fmt.Errorf("%w: adjust_stock_at=%s no aplica ningún efecto para %s", domain.ErrValidation, adjust, txType)
	}
	plan := make([]plannedEffect, 0, len(effects))
	for _, e := range effects {
		loc := stock.LocationFor(e, tx)
		if loc == nil {
			field := "to_location_id"
			if e.Side == entity.AdjustSource {
				field = "from_location_id"
			}
			return nil, nil, fmt.Errorf("%w: %s es requerido para %s", domain.ErrValidation, field, txType)
		}
		plan = append(plan, plannedEffect{effect: e, locationID: *loc})
	}
	if tx.FromLocationID != nil && tx.ToLocationID != nil && *tx.FromLocationID == *tx.ToLocationID {
		return nil, nil, fmt.Errorf("%w: origen y destino no pueden ser la misma ubicación", domain.ErrValidation)
	}

	// Ítems y ubicaciones nunca se eliminan: validarlos fuera de la tx es seguro.
	item, err := p.itemRepo.GetByID(ctx, tx.ItemID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, fmt.Errorf("%w: ítem %s", domain.ErrNotFound, tx.ItemID)
	}
	for _, locID := range []*string{tx.FromLocationID, tx.ToLocationID} {
		if locID == nil {
			continue
		}
		loc, err := p.locationRepo.GetByID(ctx, *locID)
		if err != nil {
			return nil, nil, err
		}
		if loc == nil {
			return nil, nil, fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, *locID)
		}
	}

	// Orden de bloqueo determinístico: dos traslados opuestos no se bloquean mutuamente.
	sort.Slice(plan, func(i, j int) bool { return plan[i].locationID < plan[j].locationID })
	return tx, plan, nil
}

// apply ejecuta el plan dentro de la tx. El registro se inserta después de tomar los bloqueos de
// fila, así el Sequence respeta el orden de commit entre escritores de la misma llave.
func (p *TransactionProcessor) apply(
	ctx context.Context,
	ledger repository.StockLedger,
	txRepo repository.StockTransactionRepository,
	tx *entity.StockTransaction,
	plan []plannedEffect,
) error {
	for _, pe := range plan {
		var (
			resulting int64
			err       error
		)
		if delta, ok := pe.effect.Delta(tx.Quantity); ok {
			resulting, err = ledger.ApplyDelta(ctx, tx.ItemID, pe.locationID, delta)
		} else {
			resulting, err = ledger.SetAbsolute(ctx, tx.ItemID, pe.locationID, tx.Quantity)
		}
		if err != nil {
			return err
		}
		if err := p.policy.Check(tx.ItemID, pe.locationID, resulting); err != nil {
			return err
		}
	}
	tx.TransactionDate = p.now().UTC()
	return txRepo.Append(ctx, tx)
}

func (p *TransactionProcessor) wait(ctx context.Context, attempt int) error {
	t := time.NewTimer(p.backoff * time.Duration(attempt))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
