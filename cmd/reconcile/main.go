// reconcile reproduce el log de transacciones desde cero y lo compara con el stock vivo en PostgreSQL.
//
// Uso: go run ./cmd/reconcile [-json]
// Lee la misma configuración que la API (DATABASE_URL, DB_*, ...).
// Código de salida: 0 = consistente, 1 = hay diferencias, 2 = error.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	appanalytics "github.com/jhoicas/stock-ledger/internal/application/analytics"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func main() {
	asJSON := flag.Bool("json", false, "imprimir el resultado completo en JSON")
	timeout := flag.Duration("timeout", 5*time.Minute, "tiempo máximo de la reconciliación")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(2)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("conexión a PostgreSQL")
		os.Exit(2)
	}
	defer pool.Close()

	uc := appanalytics.NewDashboardUseCase(postgres.NewTxRunner(pool, cfg.Ledger.LockTimeout), appanalytics.Options{})
	res, err := uc.Reconcile(ctx)
	if err != nil {
		log.Error().Err(err).Msg("reconciliación")
		pool.Close()
		os.Exit(2)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(res)
	} else {
		fmt.Printf("Transacciones: %d\nLlaves: %d\n", res.Transactions, res.Keys)
		for _, d := range res.Drift {
			fmt.Printf("  item=%s location=%s vivo=%d reproducido=%d\n", d.ItemID, d.LocationID, d.Live, d.Replayed)
		}
	}

	if !res.Consistent {
		log.Warn().Int("drift", len(res.Drift)).Msg("el stock vivo no coincide con el log")
		pool.Close()
		os.Exit(1)
	}
	log.Info().Msg("stock consistente con el log")
}
