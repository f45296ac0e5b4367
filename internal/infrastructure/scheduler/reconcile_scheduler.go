package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Reconciler lo implementa analytics.DashboardUseCase.
type Reconciler interface {
	Reconcile(ctx context.Context) (*dto.ReconcileResponse, error)
}

// ReconcileScheduler ejecuta la reconciliación del ledger según una expresión cron estándar
// (5 campos) y deja el resultado en el log.
type ReconcileScheduler struct {
	cron       *cron.Cron
	reconciler Reconciler
	spec       string
	timeout    time.Duration
	log        *logger.Logger
}

// NewReconcileScheduler valida la expresión y construye el scheduler sin iniciarlo.
func NewReconcileScheduler(spec string, reconciler Reconciler, log *logger.Logger) (*ReconcileScheduler, error) {
	if log == nil {
		log = logger.Nop()
	}
	s := &ReconcileScheduler{
		cron:       cron.New(),
		reconciler: reconciler,
		spec:       spec,
		timeout:    2 * time.Minute,
		log:        log,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("cron %q: %w", spec, err)
	}
	return s, nil
}

// Start inicia el cron en segundo plano.
func (s *ReconcileScheduler) Start() {
	s.log.Info().Str("cron", s.spec).Msg("scheduler de reconciliación iniciado")
	s.cron.Start()
}

// Stop detiene el cron y espera a que termine la ejecución en curso.
func (s *ReconcileScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler de reconciliación detenido")
}

func (s *ReconcileScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_, _ = s.RunOnce(ctx)
}

// RunOnce ejecuta una reconciliación y registra el resultado.
func (s *ReconcileScheduler) RunOnce(ctx context.Context) (*dto.ReconcileResponse, error) {
	start := time.Now()
	res, err := s.reconciler.Reconcile(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("reconciliación fallida")
		return nil, err
	}
	if !res.Consistent {
		ev := s.log.Warn().
			Int("transactions", res.Transactions).
			Int("drift", len(res.Drift))
		if len(res.Drift) > 0 {
			d := res.Drift[0]
			ev = ev.Str("item_id", d.ItemID).Str("location_id", d.LocationID).
				Int64("live", d.Live).Int64("replayed", d.Replayed)
		}
		ev.Dur("elapsed", time.Since(start)).Msg("stock vivo difiere del log")
		return res, nil
	}
	s.log.Info().
		Int("transactions", res.Transactions).
		Int("keys", res.Keys).
		Dur("elapsed", time.Since(start)).
		Msg("ledger consistente")
	return res, nil
}
