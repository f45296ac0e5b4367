package analytics

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
)

// DashboardCache caché opcional del dashboard. Una entrada es siempre un snapshot completo,
// nunca se mezclan valores de lecturas distintas.
//
// Cada Invalidate avanza la generación. Get devuelve la generación vigente y Set solo escribe si
// sigue siendo la misma: un lector lento no puede dejar en caché un snapshot anterior a un commit.
type DashboardCache interface {
	Get(ctx context.Context) (d *dto.DashboardResponse, gen int64, ok bool, err error)
	Set(ctx context.Context, gen int64, d *dto.DashboardResponse) error
	Invalidate(ctx context.Context) error
}
